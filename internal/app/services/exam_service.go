package services

import (
	"context"
	"fmt"
	"time"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// ExamService drives the exam lifecycle: proposal by a group leader, review
// by the coordinating professor, rescheduling after rejection, and
// secretarial corrections.
type ExamService struct {
	examRepo   ExamStore
	courseRepo CourseStore
	groupRepo  GroupStore
	roomRepo   RoomStore
	userRepo   UserStore
	periodRepo PeriodStore
	notifier   Notifier
}

// NewExamService creates a new exam service instance
func NewExamService(
	examRepo ExamStore,
	courseRepo CourseStore,
	groupRepo GroupStore,
	roomRepo RoomStore,
	userRepo UserStore,
	periodRepo PeriodStore,
	notifier Notifier,
) *ExamService {
	return &ExamService{
		examRepo:   examRepo,
		courseRepo: courseRepo,
		groupRepo:  groupRepo,
		roomRepo:   roomRepo,
		userRepo:   userRepo,
		periodRepo: periodRepo,
		notifier:   notifier,
	}
}

func parseExamDate(s string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewCustomError(apperrors.ErrValidationFailed, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", s))
	}
	return date, nil
}

// ensureWithinPeriod rejects dates that no examination period of the given
// type contains, bounds inclusive.
func (s *ExamService) ensureWithinPeriod(ctx context.Context, examType models.ExamType, date time.Time) error {
	ok, err := s.periodRepo.ExistsForTypeAndDate(ctx, examType, date)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrDateOutsidePeriod
	}
	return nil
}

// notifyUser delivers a notification and returns a warning string when the
// delivery fails. The caller's state change has already committed, so a
// failed notification never fails the operation.
func (s *ExamService) notifyUser(ctx context.Context, userID int64, subject, body string) string {
	const warning = "operation completed but the notification email could not be delivered"

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Could not resolve notification recipient")
		return warning
	}
	if err := s.notifier.Notify(user.Email, subject, body); err != nil {
		logger.Warn().Err(err).Str("email", user.Email).Msg("Could not deliver notification email")
		return warning
	}
	return ""
}

// Propose creates a PENDING exam for the proposing leader's group. The course
// must be taught to the group, carry an examination method, and the date must
// fall inside an examination period of that method. At most one PENDING or
// ACCEPTED exam may exist per (course, group) pair.
func (s *ExamService) Propose(ctx context.Context, actor auth.Actor, req dto.ProposeExamRequest) (*models.Exam, string, error) {
	if err := actor.Require(auth.CapProposeExam); err != nil {
		return nil, "", err
	}

	group, err := s.groupRepo.GetByLeaderID(ctx, actor.UserID)
	if err != nil {
		return nil, "", err
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, "", err
	}

	if !courseTaughtToGroup(course, group) {
		return nil, "", apperrors.NewCustomError(apperrors.ErrValidationFailed, "course is not taught to this group")
	}

	if course.ExaminationMethod == nil {
		return nil, "", apperrors.ErrNoExaminationMethod
	}
	examType := *course.ExaminationMethod

	examDate, err := parseExamDate(req.ExamDate)
	if err != nil {
		return nil, "", err
	}
	if err := s.ensureWithinPeriod(ctx, examType, examDate); err != nil {
		return nil, "", err
	}

	exists, err := s.examRepo.ExistsActiveForCourseAndGroup(ctx, course.ID, group.ID)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", apperrors.ErrExamAlreadyProposed
	}

	exam := &models.Exam{
		CourseID:    course.ID,
		GroupID:     group.ID,
		ExamDate:    examDate,
		Type:        examType,
		Status:      models.ExamStatusPending,
		ProfessorID: course.CoordinatorID,
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, "", err
	}

	logger.Info().
		Int64("examID", exam.ID).
		Int64("courseID", course.ID).
		Int64("groupID", group.ID).
		Msg("Exam proposed")

	subject, body := proposalNotification(course.Name, group.Name, req.ExamDate)
	warning := s.notifyUser(ctx, course.CoordinatorID, subject, body)

	return exam, warning, nil
}

func courseTaughtToGroup(course *models.Course, group *models.Group) bool {
	if course.Specialization == nil || group.Specialization == nil {
		return false
	}
	if course.StudyYear == nil || group.YearOfStudy == nil {
		return false
	}
	return *course.Specialization == *group.Specialization && *course.StudyYear == *group.YearOfStudy
}

// Review records the coordinator's decision on a PENDING exam. Accepting
// requires the full schedule; the repository re-checks conflicts and flips
// the status atomically, so a validation or conflict failure leaves the exam
// PENDING with no partial schedule written.
func (s *ExamService) Review(ctx context.Context, actor auth.Actor, examID int64, req dto.ReviewExamRequest) (*models.Exam, string, error) {
	if err := actor.Require(auth.CapReviewExam); err != nil {
		return nil, "", err
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	course, err := s.courseRepo.GetByID(ctx, exam.CourseID)
	if err != nil {
		return nil, "", err
	}
	if course.CoordinatorID != actor.UserID {
		return nil, "", apperrors.NewForbiddenError("only the coordinator of the course may review this exam")
	}

	if exam.Status != models.ExamStatusPending {
		return nil, "", apperrors.ErrExamNotPending
	}

	switch models.ExamStatus(req.Decision) {
	case models.ExamStatusRejected:
		if err := s.examRepo.Reject(ctx, examID, req.Details); err != nil {
			return nil, "", err
		}
	case models.ExamStatusAccepted:
		schedule, err := s.buildSchedule(ctx, actor, req)
		if err != nil {
			return nil, "", err
		}
		if err := s.examRepo.Accept(ctx, examID, exam.ExamDate, *schedule); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", apperrors.NewCustomError(apperrors.ErrValidationFailed, "decision must be ACCEPTED or REJECTED")
	}

	updated, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	logger.Info().
		Int64("examID", examID).
		Str("decision", req.Decision).
		Int64("reviewerID", actor.UserID).
		Msg("Exam reviewed")

	subject, body := reviewNotification(course.Name, req.Decision)
	warning := s.notifyGroupLeader(ctx, exam.GroupID, subject, body)

	return updated, warning, nil
}

// buildSchedule validates the scheduling fields of an accept decision and
// resolves the referenced room and assistant. The reviewing professor becomes
// the exam's professor and is one of the three conflict scan targets.
func (s *ExamService) buildSchedule(ctx context.Context, actor auth.Actor, req dto.ReviewExamRequest) (*models.ExamSchedule, error) {
	if req.RoomID == nil || req.AssistantID == nil || req.StartTime == nil || req.Duration == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"accepting an exam requires room, assistant, start time and duration")
	}
	if *req.Duration <= 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "duration must be positive")
	}

	startTime, err := models.ParseTimeOfDay(*req.StartTime)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	if _, err := s.roomRepo.GetByID(ctx, *req.RoomID); err != nil {
		return nil, err
	}
	assistant, err := s.userRepo.GetByID(ctx, *req.AssistantID)
	if err != nil {
		return nil, err
	}
	if assistant.Role != models.RoleCoordinator {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "assistant must be a professor")
	}

	schedule := &models.ExamSchedule{
		RoomID:      *req.RoomID,
		AssistantID: *req.AssistantID,
		ProfessorID: actor.UserID,
		StartTime:   startTime,
		Duration:    *req.Duration,
	}
	if req.Details != nil {
		schedule.Details = *req.Details
	}
	return schedule, nil
}

func (s *ExamService) notifyGroupLeader(ctx context.Context, groupID int64, subject, body string) string {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil || group.LeaderID == nil {
		logger.Warn().Err(err).Int64("groupID", groupID).Msg("Could not resolve group leader for notification")
		return "operation completed but the notification email could not be delivered"
	}
	return s.notifyUser(ctx, *group.LeaderID, subject, body)
}

// Reschedule moves a REJECTED exam of the leader's own group back to PENDING
// with a new date, subject to the same period gating as a fresh proposal.
func (s *ExamService) Reschedule(ctx context.Context, actor auth.Actor, examID int64, req dto.RescheduleExamRequest) (*models.Exam, string, error) {
	if err := actor.Require(auth.CapRescheduleExam); err != nil {
		return nil, "", err
	}

	group, err := s.groupRepo.GetByLeaderID(ctx, actor.UserID)
	if err != nil {
		return nil, "", err
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, "", err
	}
	if exam.GroupID != group.ID {
		return nil, "", apperrors.NewForbiddenError("only the leader of the exam's group may reschedule it")
	}
	if exam.Status != models.ExamStatusRejected {
		return nil, "", apperrors.ErrExamNotRejected
	}

	newDate, err := parseExamDate(req.ExamDate)
	if err != nil {
		return nil, "", err
	}
	if err := s.ensureWithinPeriod(ctx, exam.Type, newDate); err != nil {
		return nil, "", err
	}

	if err := s.examRepo.Reschedule(ctx, examID, newDate); err != nil {
		return nil, "", err
	}

	updated, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	logger.Info().
		Int64("examID", examID).
		Str("newDate", req.ExamDate).
		Msg("Exam rescheduled")

	course, err := s.courseRepo.GetByID(ctx, exam.CourseID)
	if err != nil {
		return updated, "operation completed but the notification email could not be delivered", nil
	}
	subject, body := rescheduleNotification(course.Name, group.Name, req.ExamDate)
	warning := s.notifyUser(ctx, course.CoordinatorID, subject, body)

	return updated, warning, nil
}

// GetByID retrieves an exam the actor is allowed to see: leaders see their
// group's exams, coordinators the exams of their courses, secretaries all.
func (s *ExamService) GetByID(ctx context.Context, actor auth.Actor, examID int64) (*models.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleSecretary, models.RoleAdmin:
		return exam, nil
	case models.RoleGroupLeader:
		group, err := s.groupRepo.GetByLeaderID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if exam.GroupID != group.ID {
			return nil, apperrors.NewForbiddenError("exam belongs to another group")
		}
		return exam, nil
	case models.RoleCoordinator:
		course, err := s.courseRepo.GetByID(ctx, exam.CourseID)
		if err != nil {
			return nil, err
		}
		if course.CoordinatorID != actor.UserID {
			return nil, apperrors.NewForbiddenError("exam belongs to another coordinator's course")
		}
		return exam, nil
	}
	return nil, apperrors.NewForbiddenError("role may not view exams")
}

// UpdateBySecretary applies a secretarial correction. When the exam is
// ACCEPTED and the correction touches its schedule, the conflict scans run
// again under the same locks as an accept before anything is written.
func (s *ExamService) UpdateBySecretary(ctx context.Context, actor auth.Actor, examID int64, req dto.UpdateExamRequest) (*models.Exam, error) {
	if err := actor.Require(auth.CapEditExam); err != nil {
		return nil, err
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	examDate := exam.ExamDate
	touchesSchedule := false

	if req.ExamDate != nil {
		newDate, err := parseExamDate(*req.ExamDate)
		if err != nil {
			return nil, err
		}
		if err := s.ensureWithinPeriod(ctx, exam.Type, newDate); err != nil {
			return nil, err
		}
		examDate = newDate
		updates["exam_date"] = newDate
		touchesSchedule = true
	}
	if req.RoomID != nil {
		if _, err := s.roomRepo.GetByID(ctx, *req.RoomID); err != nil {
			return nil, err
		}
		updates["room_id"] = *req.RoomID
		touchesSchedule = true
	}
	if req.AssistantID != nil {
		assistant, err := s.userRepo.GetByID(ctx, *req.AssistantID)
		if err != nil {
			return nil, err
		}
		if assistant.Role != models.RoleCoordinator {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "assistant must be a professor")
		}
		updates["assistant_id"] = *req.AssistantID
		touchesSchedule = true
	}
	if req.StartTime != nil {
		startTime, err := models.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
		}
		updates["start_time"] = startTime.Minutes()
		touchesSchedule = true
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "duration must be positive")
		}
		updates["duration"] = *req.Duration
		touchesSchedule = true
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}

	if len(updates) == 0 {
		return exam, nil
	}

	if exam.Status == models.ExamStatusAccepted && touchesSchedule {
		schedule, err := effectiveSchedule(exam, req)
		if err != nil {
			return nil, err
		}
		if err := s.examRepo.UpdateWithConflictCheck(ctx, exam, updates, *schedule, examDate); err != nil {
			return nil, err
		}
	} else {
		if err := s.examRepo.Update(ctx, examID, updates); err != nil {
			return nil, err
		}
	}

	logger.Info().Int64("examID", examID).Msg("Exam updated by secretary")

	return s.examRepo.GetByID(ctx, examID)
}

// effectiveSchedule merges the stored schedule of an accepted exam with the
// requested changes, so the conflict scans target what the row will hold
// after the update.
func effectiveSchedule(exam *models.Exam, req dto.UpdateExamRequest) (*models.ExamSchedule, error) {
	schedule := &models.ExamSchedule{ProfessorID: exam.ProfessorID}

	switch {
	case req.RoomID != nil:
		schedule.RoomID = *req.RoomID
	case exam.RoomID != nil:
		schedule.RoomID = *exam.RoomID
	default:
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "accepted exam is missing a room")
	}

	switch {
	case req.AssistantID != nil:
		schedule.AssistantID = *req.AssistantID
	case exam.AssistantID != nil:
		schedule.AssistantID = *exam.AssistantID
	default:
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "accepted exam is missing an assistant")
	}

	switch {
	case req.StartTime != nil:
		startTime, err := models.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
		}
		schedule.StartTime = startTime
	case exam.StartTime != nil:
		schedule.StartTime = *exam.StartTime
	default:
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "accepted exam is missing a start time")
	}

	switch {
	case req.Duration != nil:
		schedule.Duration = *req.Duration
	case exam.Duration != nil:
		schedule.Duration = *exam.Duration
	default:
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "accepted exam is missing a duration")
	}

	return schedule, nil
}
