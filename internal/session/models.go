package session

import (
	"time"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

// Session is the authorization record of one verified identity
type Session struct {
	UserType    users.Role     `json:"userType"`
	UserEmail   string         `json:"userEmail"`
	StudentInfo *users.Student `json:"studentInfo,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// IsTeacher reports whether the session belongs to a teacher
func (s *Session) IsTeacher() bool {
	return s.UserType == users.RoleTeacher
}

func (s *Session) empty() bool {
	return s == nil || s.UserType == "" || s.UserEmail == ""
}
