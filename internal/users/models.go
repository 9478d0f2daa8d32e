package users

// Role represents user role in the system
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Teacher is a row of the "Teacher Emails" sheet
type Teacher struct {
	Email string `json:"email"`
}

// Student is a row of the "Student Roster" sheet
type Student struct {
	Email     string `json:"email"`
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Teacher   string `json:"teacher"`
	Period    string `json:"period"`
}

// FullName returns "First Last" as it is written to proficiency sheets
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
