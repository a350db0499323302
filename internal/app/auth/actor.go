package auth

import (
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
)

// Actor is the authenticated caller of a service operation, resolved from the
// request token by the auth middleware.
type Actor struct {
	UserID int64
	Role   models.RoleType
}

// Capability names one privileged operation. The role table below is closed:
// a capability missing from a role's row is denied, and new operations must
// add a capability here before any service can gate on it.
type Capability string

const (
	CapProposeExam      Capability = "exam:propose"
	CapReviewExam       Capability = "exam:review"
	CapRescheduleExam   Capability = "exam:reschedule"
	CapEditExam         Capability = "exam:edit"
	CapViewGroupExams   Capability = "exam:view-group"
	CapViewOwnReviews   Capability = "exam:view-reviews"
	CapViewAllExams     Capability = "exam:view-all"
	CapSetExamMethod    Capability = "course:set-method"
	CapManageCourses    Capability = "course:manage"
	CapManageRooms      Capability = "room:manage"
	CapManagePeriods    Capability = "period:manage"
	CapManageUsers      Capability = "user:manage"
	CapResetApplication Capability = "admin:reset"
)

var roleCapabilities = map[models.RoleType]map[Capability]bool{
	models.RoleGroupLeader: {
		CapProposeExam:    true,
		CapRescheduleExam: true,
		CapViewGroupExams: true,
	},
	models.RoleCoordinator: {
		CapReviewExam:     true,
		CapViewOwnReviews: true,
		CapSetExamMethod:  true,
	},
	models.RoleSecretary: {
		CapEditExam:         true,
		CapViewAllExams:     true,
		CapSetExamMethod:    true,
		CapManageCourses:    true,
		CapManageRooms:      true,
		CapManagePeriods:    true,
		CapManageUsers:      true,
		CapResetApplication: true,
	},
	models.RoleAdmin: {
		CapViewAllExams:     true,
		CapManagePeriods:    true,
		CapManageUsers:      true,
		CapResetApplication: true,
	},
}

// Can reports whether the actor's role grants the capability.
func (a Actor) Can(cap Capability) bool {
	return roleCapabilities[a.Role][cap]
}

// Require returns a permission error unless the actor holds the capability.
// Services call this at the top of every privileged operation so that an
// authorization failure is always a 403, never mistaken for a missing record.
func (a Actor) Require(cap Capability) error {
	if !a.Can(cap) {
		return apperrors.NewForbiddenError("role " + string(a.Role) + " may not perform this operation")
	}
	return nil
}
