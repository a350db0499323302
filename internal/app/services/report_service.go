package services

import (
	"context"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
)

// ReportService builds the read-side views: a coordinator's exams grouped by
// status, a group's own schedule, and the secretarial overview of everything
// scheduled plus everything still missing.
type ReportService struct {
	examRepo  ExamStore
	groupRepo GroupStore
}

// NewReportService creates a new report service instance
func NewReportService(examRepo ExamStore, groupRepo GroupStore) *ReportService {
	return &ReportService{
		examRepo:  examRepo,
		groupRepo: groupRepo,
	}
}

// ExamsByStatus returns the exams of the coordinator's courses bucketed by
// lifecycle state. Buckets are always present, possibly empty, and each
// preserves the repository's stable ordering.
func (s *ReportService) ExamsByStatus(ctx context.Context, actor auth.Actor) (*dto.ExamsByStatusResponse, error) {
	if err := actor.Require(auth.CapViewOwnReviews); err != nil {
		return nil, err
	}

	details, err := s.examRepo.ListDetailsForCoordinator(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ExamsByStatusResponse{
		Pending:  []dto.ExamResponse{},
		Accepted: []dto.ExamResponse{},
		Rejected: []dto.ExamResponse{},
	}
	for _, d := range details {
		exam := dto.NewExamResponse(d)
		switch d.Status {
		case models.ExamStatusPending:
			resp.Pending = append(resp.Pending, exam)
		case models.ExamStatusAccepted:
			resp.Accepted = append(resp.Accepted, exam)
		case models.ExamStatusRejected:
			resp.Rejected = append(resp.Rejected, exam)
		}
	}

	return resp, nil
}

// GroupExams returns the exams of the group the actor leads, ordered by date
// and start time.
func (s *ReportService) GroupExams(ctx context.Context, actor auth.Actor) ([]dto.ExamResponse, error) {
	if err := actor.Require(auth.CapViewGroupExams); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByLeaderID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	details, err := s.examRepo.ListDetailsForGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewExamResponseList(details), nil
}

// ScheduleOverview returns every exam on record together with the
// (course, group) pairs with no exam proposed yet. Both lists are
// deterministically ordered so repeated reports compare equal.
func (s *ReportService) ScheduleOverview(ctx context.Context, actor auth.Actor) (*dto.ScheduleOverviewResponse, error) {
	if err := actor.Require(auth.CapViewAllExams); err != nil {
		return nil, err
	}

	details, err := s.examRepo.ListAllDetails(ctx)
	if err != nil {
		return nil, err
	}

	missing, err := s.examRepo.ListMissing(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ScheduleOverviewResponse{
		Exams:   dto.NewExamResponseList(details),
		Missing: dto.NewMissingExamResponseList(missing),
	}, nil
}
