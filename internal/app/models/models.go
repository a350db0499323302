package models

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ExamStatus is the closed set of exam lifecycle states.
type ExamStatus string

const (
	ExamStatusPending  ExamStatus = "PENDING"
	ExamStatusAccepted ExamStatus = "ACCEPTED"
	ExamStatusRejected ExamStatus = "REJECTED"
)

// Valid reports whether the status is one of the known states.
func (s ExamStatus) Valid() bool {
	switch s {
	case ExamStatusPending, ExamStatusAccepted, ExamStatusRejected:
		return true
	}
	return false
}

// ExamType is the closed set of examination methods. A course's examination
// method and the type of every exam proposed for it are drawn from this set.
type ExamType string

const (
	ExamTypeWritten    ExamType = "WRITTEN"
	ExamTypeColloquium ExamType = "COLLOQUIUM"
)

// Valid reports whether the type is one of the known examination methods.
func (t ExamType) Valid() bool {
	return t == ExamTypeWritten || t == ExamTypeColloquium
}

// ParseExamType converts a raw string into an ExamType, rejecting unknown values.
func ParseExamType(s string) (ExamType, bool) {
	t := ExamType(s)
	return t, t.Valid()
}

// RoleType defines the user role type
type RoleType string

const (
	RoleGroupLeader RoleType = "SG"  // student group leader, proposes and reschedules exams
	RoleCoordinator RoleType = "CD"  // coordinating professor, reviews proposals
	RoleSecretary   RoleType = "SEC" // secretarial staff, cross-cutting administration
	RoleAdmin       RoleType = "ADM" // administrator
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleGroupLeader, RoleCoordinator, RoleSecretary, RoleAdmin:
		return true
	}
	return false
}
