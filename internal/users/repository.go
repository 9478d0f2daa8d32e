// Package users provides read access to the teacher list and the student roster
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
)

// Student Roster columns
const (
	rosterColEmail = iota
	rosterColLastName
	rosterColFirstName
	rosterColTeacher
	rosterColPeriod
)

// Teacher Emails columns
const teacherColEmail = 0

// ErrNotFound is returned when an email is in neither lookup table
var ErrNotFound = errors.New("user not found")

// Repository reads users from the tabular store
type Repository struct {
	store sheets.Store
}

// NewRepository creates a new user repository
func NewRepository(store sheets.Store) *Repository {
	return &Repository{store: store}
}

// ListTeachers returns every row of the teacher list
func (r *Repository) ListTeachers(ctx context.Context) ([]Teacher, error) {
	rows, err := r.store.ReadRows(ctx, sheets.TableTeacherEmails)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("failed to read teacher list: %w", err))
	}

	var teachers []Teacher
	for _, row := range sheets.DataRows(rows) {
		email := sheets.Cell(row, teacherColEmail)
		if email == "" {
			continue
		}
		teachers = append(teachers, Teacher{Email: email})
	}
	return teachers, nil
}

// IsTeacher reports whether email is listed in the teacher list
func (r *Repository) IsTeacher(ctx context.Context, email string) (bool, error) {
	teachers, err := r.ListTeachers(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range teachers {
		if t.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ListStudents returns every roster row with a non-empty email
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.store.ReadRows(ctx, sheets.TableStudentRoster)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("failed to read student roster: %w", err))
	}

	var students []Student
	for _, row := range sheets.DataRows(rows) {
		student := Student{
			Email:     sheets.Cell(row, rosterColEmail),
			LastName:  sheets.Cell(row, rosterColLastName),
			FirstName: sheets.Cell(row, rosterColFirstName),
			Teacher:   sheets.Cell(row, rosterColTeacher),
			Period:    sheets.Cell(row, rosterColPeriod),
		}
		if student.Email == "" {
			continue
		}
		students = append(students, student)
	}
	return students, nil
}

// GetStudentByEmail returns the first roster row for email
func (r *Repository) GetStudentByEmail(ctx context.Context, email string) (*Student, error) {
	students, err := r.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].Email == email {
			return &students[i], nil
		}
	}
	return nil, ErrNotFound
}
