package session

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

func TestPostgresStoreLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT user_type, user_email, student_info, created_at FROM sessions WHERE identity = $1")

	mock.ExpectQuery(query).
		WithArgs(studentEmail).
		WillReturnRows(sqlmock.NewRows([]string{"user_type", "user_email", "student_info", "created_at"}).
			AddRow("student", studentEmail, []byte(`{"email":"ann.lee@orono.k12.mn.us","firstName":"Ann","lastName":"Lee"}`), created))

	s, err := store.Load(context.Background(), studentEmail)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, users.RoleStudent, s.UserType)
	assert.Equal(t, created, s.CreatedAt)
	require.NotNil(t, s.StudentInfo)
	assert.Equal(t, "Ann", s.StudentInfo.FirstName)

	mock.ExpectQuery(query).
		WithArgs(teacherEmail).
		WillReturnRows(sqlmock.NewRows([]string{"user_type", "user_email", "student_info", "created_at"}))

	s, err = store.Load(context.Background(), teacherEmail)
	require.NoError(t, err)
	assert.Nil(t, s)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (identity,user_type,user_email,student_info,created_at) VALUES ($1,$2,$3,$4,$5) ON CONFLICT (identity) DO UPDATE")).
		WithArgs(teacherEmail, "teacher", teacherEmail, sqlmock.AnyArg(), created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Save(context.Background(), teacherEmail, &Session{
		UserType: users.RoleTeacher, UserEmail: teacherEmail, CreatedAt: created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDeleteAndPurge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	cutoff := time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE identity = $1")).
		WithArgs(teacherEmail).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE created_at < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Delete(context.Background(), teacherEmail))

	n, err := store.PurgeExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
