package progress

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

var proficiencyHeader = []string{"Timestamp", "Email", "Name", "Unit", "Score", "Total", "Percentage"}

type stubSessions struct {
	sess *session.Session
}

func (s stubSessions) Validate(ctx context.Context, required users.Role) (*session.Session, error) {
	if s.sess == nil {
		return nil, apperr.ErrNoSession
	}
	if required != "" && required != s.sess.UserType {
		return nil, apperr.ErrWrongRole
	}
	return s.sess, nil
}

type countingRecorder struct{ count int }

func (c *countingRecorder) ScoreRecorded() { c.count++ }

func studentSession(teacher string) *session.Session {
	return &session.Session{
		UserType:  users.RoleStudent,
		UserEmail: "ann.lee@orono.k12.mn.us",
		StudentInfo: &users.Student{
			Email: "ann.lee@orono.k12.mn.us", LastName: "Lee", FirstName: "Ann", Teacher: teacher, Period: "3",
		},
	}
}

func newTestService(t *testing.T, sess *session.Session) (*Service, *sheets.MemoryStore, *countingRecorder) {
	t.Helper()
	store := sheets.NewMemoryStore()
	store.SetTable(sheets.TableStudentRoster, []string{"Email"})
	store.SetTable(sheets.ProficiencyPrefix+" Jane Doe", proficiencyHeader)
	store.SetTable(sheets.ProficiencyPrefix+" John Smith", proficiencyHeader)

	rec := &countingRecorder{}
	svc := NewService(NewRepository(store, time.UTC), stubSessions{sess: sess}, rec, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 15, 500, time.UTC) }
	return svc, store, rec
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total float64
		want         int
	}{
		{score: 7, total: 10, want: 70},
		{score: 1, total: 3, want: 33},
		{score: 2, total: 3, want: 67},
		{score: 1, total: 8, want: 13},
		{score: 29, total: 200, want: 14},
		{score: 0, total: 5, want: 0},
		{score: 5, total: 5, want: 100},
		{score: 1, total: 0, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.score, tt.total), "%v/%v", tt.score, tt.total)
	}
}

func TestRecordScore(t *testing.T) {
	svc, store, rec := newTestService(t, studentSession("Jane Doe"))
	ctx := context.Background()

	attempt, err := svc.RecordScore(ctx, "3.0", 7, 10)
	require.NoError(t, err)
	assert.Equal(t, 70, attempt.Percentage)
	assert.Equal(t, "3", attempt.Unit)
	assert.Equal(t, "Ann Lee", attempt.StudentName)

	rows, err := store.ReadRows(ctx, sheets.ProficiencyPrefix+" Jane Doe")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"2025-03-10T09:30:15Z", "ann.lee@orono.k12.mn.us", "Ann Lee", "3", "7", "10", "70",
	}, rows[1])

	other, err := store.ReadRows(ctx, sheets.ProficiencyPrefix+" John Smith")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	assert.Equal(t, 1, rec.count)
}

func TestRecordScoreRoundsHalfUp(t *testing.T) {
	svc, _, _ := newTestService(t, studentSession("Jane Doe"))

	attempt, err := svc.RecordScore(context.Background(), "1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 33, attempt.Percentage)
}

func TestRecordScoreDestinationNotFound(t *testing.T) {
	svc, _, rec := newTestService(t, studentSession("Mary Major"))

	_, err := svc.RecordScore(context.Background(), "1", 1, 2)
	assert.ErrorIs(t, err, apperr.ErrDestinationNotFound)
	assert.Contains(t, err.Error(), "Mary Major")
	assert.Zero(t, rec.count)
}

func TestRecordScoreRejectsNonPositiveTotal(t *testing.T) {
	svc, store, _ := newTestService(t, studentSession("Jane Doe"))

	_, err := svc.RecordScore(context.Background(), "1", 1, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	rows, err := store.ReadRows(context.Background(), sheets.ProficiencyPrefix+" Jane Doe")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRecordScoreRequiresStudent(t *testing.T) {
	svc, _, _ := newTestService(t, &session.Session{UserType: users.RoleTeacher, UserEmail: "jane.doe@orono.k12.mn.us"})

	_, err := svc.RecordScore(context.Background(), "1", 1, 2)
	assert.ErrorIs(t, err, apperr.ErrWrongRole)
}

func TestRecordScoreStoreFailure(t *testing.T) {
	svc, store, _ := newTestService(t, studentSession("Jane Doe"))
	store.FailWith(errors.New("rate limited"))

	_, err := svc.RecordScore(context.Background(), "1", 1, 2)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
}

func TestResolveTable(t *testing.T) {
	ctx := context.Background()

	t.Run("first substring match wins", func(t *testing.T) {
		store := sheets.NewMemoryStore()
		store.SetTable("Archive", proficiencyHeader)
		store.SetTable(sheets.ProficiencyPrefix+" - Jane Doe 2024", proficiencyHeader)
		store.SetTable(sheets.ProficiencyPrefix+" - Jane Doe", proficiencyHeader)
		repo := NewRepository(store, time.UTC)

		table, ok, err := repo.ResolveTable(ctx, "Jane Doe")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sheets.ProficiencyPrefix+" - Jane Doe 2024", table)
	})

	t.Run("mapping sheet wins over substring scan", func(t *testing.T) {
		store := sheets.NewMemoryStore()
		store.SetTable(sheets.ProficiencyPrefix+" - Jane Doe 2024", proficiencyHeader)
		store.SetTable(sheets.ProficiencyPrefix+" - Jane Doe", proficiencyHeader)
		store.SetTable(sheets.TableProficiencyMap,
			[]string{"Teacher", "Table"},
			[]string{"jane doe", sheets.ProficiencyPrefix + " - Jane Doe"},
		)
		repo := NewRepository(store, time.UTC)

		table, ok, err := repo.ResolveTable(ctx, "Jane Doe")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sheets.ProficiencyPrefix+" - Jane Doe", table)
	})

	t.Run("mapping to a missing sheet falls back", func(t *testing.T) {
		store := sheets.NewMemoryStore()
		store.SetTable(sheets.ProficiencyPrefix+" Jane Doe", proficiencyHeader)
		store.SetTable(sheets.TableProficiencyMap,
			[]string{"Teacher", "Table"},
			[]string{"Jane Doe", "Deleted Sheet"},
		)
		repo := NewRepository(store, time.UTC)

		table, ok, err := repo.ResolveTable(ctx, "Jane Doe")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sheets.ProficiencyPrefix+" Jane Doe", table)
	})

	t.Run("substring scan is case-sensitive", func(t *testing.T) {
		store := sheets.NewMemoryStore()
		store.SetTable(sheets.ProficiencyPrefix+" Jane Doe", proficiencyHeader)
		repo := NewRepository(store, time.UTC)

		_, ok, err := repo.ResolveTable(ctx, "jane doe")
		require.NoError(t, err)
		assert.False(t, ok)

		table, ok, err := repo.ResolveTable(ctx, "Jane Doe")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sheets.ProficiencyPrefix+" Jane Doe", table)
	})

	t.Run("blank teacher", func(t *testing.T) {
		store := sheets.NewMemoryStore()
		store.SetTable(sheets.ProficiencyPrefix+" Jane Doe", proficiencyHeader)
		repo := NewRepository(store, time.UTC)

		_, ok, err := repo.ResolveTable(ctx, " ")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestReadAttempts(t *testing.T) {
	store := sheets.NewMemoryStore()
	store.SetTable("Student Proficiency Jane Doe",
		proficiencyHeader,
		[]string{"2025-03-10T09:30:15Z", "a@orono.k12.mn.us", "Ann Lee", "3.0", "7", "10", "70"},
		[]string{"3/9/2025 14:05:00", "b@orono.k12.mn.us", "Bo Kim", "Review", "1", "3", "33%"},
		[]string{"garbage", "c@orono.k12.mn.us"},
	)
	repo := NewRepository(store, time.UTC)

	attempts, err := repo.ReadAttempts(context.Background(), "Student Proficiency Jane Doe")
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 15, 0, time.UTC), attempts[0].Timestamp)
	assert.Equal(t, "3", attempts[0].Unit)
	assert.Equal(t, 70, attempts[0].Percentage)

	assert.Equal(t, time.Date(2025, 3, 9, 14, 5, 0, 0, time.UTC), attempts[1].Timestamp)
	assert.Equal(t, 33, attempts[1].Percentage)

	assert.True(t, attempts[2].Timestamp.IsZero())
	assert.Zero(t, attempts[2].Total)
}

func TestParseTimestamp(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	got := ParseTimestamp("Wed Oct 15 2025 09:31:00 GMT-0500 (Central Daylight Time)", chicago)
	assert.True(t, got.Equal(time.Date(2025, 10, 15, 14, 31, 0, 0, time.UTC)))

	got = ParseTimestamp("10/15/2025 9:31:00", chicago)
	assert.True(t, got.Equal(time.Date(2025, 10, 15, 9, 31, 0, 0, chicago)))

	assert.True(t, ParseTimestamp("", chicago).IsZero())
}
