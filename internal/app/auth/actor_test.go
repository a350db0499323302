package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
)

func TestActorCan(t *testing.T) {
	tests := []struct {
		name string
		role models.RoleType
		cap  Capability
		want bool
	}{
		{"group leader proposes", models.RoleGroupLeader, CapProposeExam, true},
		{"group leader reschedules", models.RoleGroupLeader, CapRescheduleExam, true},
		{"group leader cannot review", models.RoleGroupLeader, CapReviewExam, false},
		{"coordinator reviews", models.RoleCoordinator, CapReviewExam, true},
		{"coordinator sets method", models.RoleCoordinator, CapSetExamMethod, true},
		{"coordinator cannot edit exams", models.RoleCoordinator, CapEditExam, false},
		{"secretary edits exams", models.RoleSecretary, CapEditExam, true},
		{"secretary manages periods", models.RoleSecretary, CapManagePeriods, true},
		{"secretary cannot propose", models.RoleSecretary, CapProposeExam, false},
		{"secretary resets", models.RoleSecretary, CapResetApplication, true},
		{"admin resets", models.RoleAdmin, CapResetApplication, true},
		{"admin manages users", models.RoleAdmin, CapManageUsers, true},
		{"admin sees every exam", models.RoleAdmin, CapViewAllExams, true},
		{"admin cannot review", models.RoleAdmin, CapReviewExam, false},
		{"unknown role denied everything", models.RoleType("GUEST"), CapViewGroupExams, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := Actor{UserID: 1, Role: tt.role}
			assert.Equal(t, tt.want, actor.Can(tt.cap))
		})
	}
}

func TestActorRequire(t *testing.T) {
	actor := Actor{UserID: 1, Role: models.RoleGroupLeader}

	assert.NoError(t, actor.Require(CapProposeExam))

	err := actor.Require(CapReviewExam)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
}
