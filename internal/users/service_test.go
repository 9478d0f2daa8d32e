package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
)

func newTestService(t *testing.T) (*Service, *sheets.MemoryStore) {
	t.Helper()
	store := sheets.NewMemoryStore()
	store.SetTable(sheets.TableTeacherEmails,
		[]string{"Email"},
		[]string{"jane.doe@orono.k12.mn.us"},
		[]string{"both@orono.k12.mn.us"},
		[]string{""},
	)
	store.SetTable(sheets.TableStudentRoster,
		[]string{"Email", "Last", "First", "Teacher", "Period"},
		[]string{"a@orono.k12.mn.us", "Lee", "Ann", "Jane Doe (Period 3)", "3"},
		[]string{"b@orono.k12.mn.us", "Kim", "Bo", "JANE DOE", "5"},
		[]string{"c@orono.k12.mn.us", "Ray", "Cy", "John Smith"},
		[]string{"both@orono.k12.mn.us", "Both", "Bea", "jane doe", "1"},
	)
	return NewService(NewRepository(store)), store
}

func TestResolve(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		email   string
		role    Role
		wantErr error
	}{
		{name: "teacher", email: "jane.doe@orono.k12.mn.us", role: RoleTeacher},
		{name: "student", email: "a@orono.k12.mn.us", role: RoleStudent},
		{name: "teacher wins over roster", email: "both@orono.k12.mn.us", role: RoleTeacher},
		{name: "unknown", email: "z@orono.k12.mn.us", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, student, err := svc.Resolve(ctx, tt.email)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, role)
			if role == RoleStudent {
				require.NotNil(t, student)
				assert.Equal(t, "Ann Lee", student.FullName())
				assert.Equal(t, "Jane Doe (Period 3)", student.Teacher)
			} else {
				assert.Nil(t, student)
			}
		})
	}
}

func TestResolveStoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.FailWith(errors.New("backend unavailable"))

	_, _, err := svc.Resolve(context.Background(), "a@orono.k12.mn.us")
	assert.True(t, errors.Is(err, apperr.ErrStore))
}

func TestStudentsOfTeacher(t *testing.T) {
	svc, _ := newTestService(t)

	students, err := svc.StudentsOfTeacher(context.Background(), "jane.doe@orono.k12.mn.us")
	require.NoError(t, err)

	var emails []string
	for _, s := range students {
		emails = append(emails, s.Email)
	}
	assert.Equal(t, []string{"a@orono.k12.mn.us", "b@orono.k12.mn.us", "both@orono.k12.mn.us"}, emails)
}

func TestStudentsOfTeacherEmptyRoster(t *testing.T) {
	svc, _ := newTestService(t)

	students, err := svc.StudentsOfTeacher(context.Background(), "nobody.here@orono.k12.mn.us")
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestTeacherNameFromEmail(t *testing.T) {
	assert.Equal(t, "jane doe", TeacherNameFromEmail("jane.doe@orono.k12.mn.us"))
	assert.Equal(t, "mary ann.smith", TeacherNameFromEmail("mary.ann.smith@orono.k12.mn.us"))
	assert.Equal(t, "jsmith", TeacherNameFromEmail("jsmith@orono.k12.mn.us"))
}
