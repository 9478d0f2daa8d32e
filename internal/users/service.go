package users

import (
	"context"
	"errors"
	"strings"
)

// Service provides user business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Resolve maps a verified email to a role. The teacher list is checked first,
// so an email present in both tables always resolves to RoleTeacher.
// Returns ErrNotFound when the email is in neither table.
func (s *Service) Resolve(ctx context.Context, email string) (Role, *Student, error) {
	isTeacher, err := s.repo.IsTeacher(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if isTeacher {
		return RoleTeacher, nil, nil
	}

	student, err := s.repo.GetStudentByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}
	return RoleStudent, student, nil
}

// StudentsOfTeacher returns roster rows whose teacher column contains the
// name derived from teacherEmail, ignoring case.
func (s *Service) StudentsOfTeacher(ctx context.Context, teacherEmail string) ([]Student, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(TeacherNameFromEmail(teacherEmail))
	result := make([]Student, 0)
	for _, student := range students {
		if student.Teacher != "" && strings.Contains(strings.ToLower(student.Teacher), name) {
			result = append(result, student)
		}
	}
	return result, nil
}

// TeacherNameFromEmail derives a display name from the local part of the
// email by replacing the first "." with a space: jane.doe@x -> "jane doe".
func TeacherNameFromEmail(email string) string {
	local := email
	if idx := strings.Index(email, "@"); idx != -1 {
		local = email[:idx]
	}
	return strings.Replace(local, ".", " ", 1)
}
