package services

import (
	"context"
	"strings"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
	"github.com/examplanner/examplanner/internal/pkg/logger"
)

// CourseService handles course-related operations
type CourseService struct {
	courseRepo CourseStore
	groupRepo  GroupStore
	userRepo   UserStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo CourseStore, groupRepo GroupStore, userRepo UserStore) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
	}
}

// ListForActor returns the courses relevant to the caller: a group leader
// sees the courses taught to their group, a coordinator their own courses,
// secretarial and administrative staff everything.
func (s *CourseService) ListForActor(ctx context.Context, actor auth.Actor) ([]models.Course, error) {
	switch actor.Role {
	case models.RoleGroupLeader:
		group, err := s.groupRepo.GetByLeaderID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		return s.courseRepo.GetForGroup(ctx, group)
	case models.RoleCoordinator:
		return s.courseRepo.GetByCoordinatorID(ctx, actor.UserID)
	case models.RoleSecretary, models.RoleAdmin:
		return s.courseRepo.GetAll(ctx)
	}
	return nil, apperrors.NewForbiddenError("role may not list courses")
}

// GetByID retrieves a course with its assistants resolved
func (s *CourseService) GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	assistants, err := s.courseRepo.GetAssistants(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Assistants = assistants

	return course, nil
}

// SetExaminationMethod stores the examination method of a course. A
// coordinator may only set it on their own courses; secretarial staff on any.
func (s *CourseService) SetExaminationMethod(ctx context.Context, actor auth.Actor, courseID int64, req dto.SetExaminationMethodRequest) (*models.Course, error) {
	if err := actor.Require(auth.CapSetExamMethod); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleCoordinator && course.CoordinatorID != actor.UserID {
		return nil, apperrors.NewForbiddenError("only the coordinator of the course may set its examination method")
	}

	method, ok := models.ParseExamType(req.ExaminationMethod)
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "examination method must be WRITTEN or COLLOQUIUM")
	}

	if err := s.courseRepo.SetExaminationMethod(ctx, courseID, method); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("courseID", courseID).
		Str("method", req.ExaminationMethod).
		Msg("Examination method set")

	course.ExaminationMethod = &method
	return course, nil
}

// Create creates a new course with an existing coordinator
func (s *CourseService) Create(ctx context.Context, actor auth.Actor, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := actor.Require(auth.CapManageCourses); err != nil {
		return nil, err
	}
	if err := s.validateCoordinator(ctx, req.CoordinatorID); err != nil {
		return nil, err
	}
	if err := s.validateAssistants(ctx, req.AssistantIDs); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "course name cannot be empty")
	}

	course := &models.Course{
		Name:           req.Name,
		StudyYear:      req.StudyYear,
		Specialization: req.Specialization,
		CoordinatorID:  req.CoordinatorID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	if len(req.AssistantIDs) > 0 {
		if err := s.courseRepo.ReplaceAssistants(ctx, course.ID, req.AssistantIDs); err != nil {
			return nil, err
		}
	}

	logger.Info().Int64("courseID", course.ID).Str("name", course.Name).Msg("Course created")

	return s.GetByID(ctx, actor, course.ID)
}

// Update updates a course's descriptive fields
func (s *CourseService) Update(ctx context.Context, actor auth.Actor, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := actor.Require(auth.CapManageCourses); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateCoordinator(ctx, req.CoordinatorID); err != nil {
		return nil, err
	}
	if req.AssistantIDs != nil {
		if err := s.validateAssistants(ctx, *req.AssistantIDs); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "course name cannot be empty")
	}

	course.Name = req.Name
	course.StudyYear = req.StudyYear
	course.Specialization = req.Specialization
	course.CoordinatorID = req.CoordinatorID

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	if req.AssistantIDs != nil {
		if err := s.courseRepo.ReplaceAssistants(ctx, id, *req.AssistantIDs); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, actor, id)
}

// Delete removes a course that has no exams
func (s *CourseService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if err := actor.Require(auth.CapManageCourses); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, id)
}

func (s *CourseService) validateCoordinator(ctx context.Context, coordinatorID int64) error {
	coordinator, err := s.userRepo.GetByID(ctx, coordinatorID)
	if err != nil {
		return err
	}
	if coordinator.Role != models.RoleCoordinator {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "coordinator must be a coordinating professor")
	}
	return nil
}

func (s *CourseService) validateAssistants(ctx context.Context, assistantIDs []int64) error {
	for _, assistantID := range assistantIDs {
		assistant, err := s.userRepo.GetByID(ctx, assistantID)
		if err != nil {
			return err
		}
		if assistant.Role != models.RoleCoordinator {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, "assistants must be coordinating professors")
		}
	}
	return nil
}
