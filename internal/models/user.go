package models

type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
	RoleViewer  UserRole = "viewer"
)

// User is the caller behind a request, taken from casdoor token claims. It
// is not persisted here; TeacherID on assessments stores User.ID.
type User struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManageAssessment reports whether u may edit or delete an assessment
// owned by teacherID.
func (u User) CanManageAssessment(teacherID string) bool {
	return u.IsAdmin() || (u.Role == RoleTeacher && u.ID == teacherID)
}
