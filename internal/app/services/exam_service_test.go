package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examplanner/examplanner/internal/app/auth"
	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/models/dto"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
)

type examEnv struct {
	f        *fixture
	svc      *ExamService
	notifier *fakeNotifier

	leader      *models.User
	coordinator *models.User
	assistant   *models.User
	group       *models.Group
	course      *models.Course
	room        *models.Room
}

func newExamEnv(t *testing.T) *examEnv {
	t.Helper()
	f := newFixture()
	written := models.ExamTypeWritten

	env := &examEnv{f: f, notifier: &fakeNotifier{}}
	env.leader = f.addUser("Ioana Marin", "ioana.marin@usv.ro", models.RoleGroupLeader)
	env.coordinator = f.addUser("Ana Ionescu", "ana.ionescu@usv.ro", models.RoleCoordinator)
	env.assistant = f.addUser("Mihai Pop", "mihai.pop@usv.ro", models.RoleCoordinator)
	env.group = f.addGroup("3711", env.leader.ID, "CS", 2)
	env.course = f.addCourse("Parallel Algorithms", env.coordinator.ID, "CS", 2, &written)
	env.room = f.addRoom("C2", "Corp C")
	f.addPeriod(models.ExamTypeWritten, "2025-06-01", "2025-06-30")

	env.svc = NewExamService(
		&fakeExamStore{f: f},
		&fakeCourseStore{f: f},
		&fakeGroupStore{f: f},
		&fakeRoomStore{f: f},
		&fakeUserStore{f: f},
		&fakePeriodStore{f: f},
		env.notifier,
	)
	return env
}

func (e *examEnv) leaderActor() auth.Actor {
	return auth.Actor{UserID: e.leader.ID, Role: models.RoleGroupLeader}
}

func (e *examEnv) coordinatorActor() auth.Actor {
	return auth.Actor{UserID: e.coordinator.ID, Role: models.RoleCoordinator}
}

func (e *examEnv) propose(t *testing.T, date string) *models.Exam {
	t.Helper()
	exam, warning, err := e.svc.Propose(context.Background(), e.leaderActor(),
		dto.ProposeExamRequest{CourseID: e.course.ID, ExamDate: date})
	require.NoError(t, err)
	require.Empty(t, warning)
	return exam
}

func (e *examEnv) acceptRequest(startTime string, duration int) dto.ReviewExamRequest {
	return dto.ReviewExamRequest{
		Decision:    string(models.ExamStatusAccepted),
		RoomID:      &e.room.ID,
		AssistantID: &e.assistant.ID,
		StartTime:   &startTime,
		Duration:    &duration,
	}
}

func TestProposeExam(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending exam typed by the examination method", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		assert.Equal(t, models.ExamStatusPending, exam.Status)
		assert.Equal(t, models.ExamTypeWritten, exam.Type)
		assert.Equal(t, env.coordinator.ID, exam.ProfessorID)
		assert.Nil(t, exam.RoomID)
		assert.Nil(t, exam.StartTime)
		require.Len(t, env.notifier.sent, 1)
		assert.Contains(t, env.notifier.sent[0], env.coordinator.Email)
	})

	t.Run("rejects a second proposal for the same course and group", func(t *testing.T) {
		env := newExamEnv(t)
		env.propose(t, "2025-06-10")

		_, _, err := env.svc.Propose(ctx, env.leaderActor(),
			dto.ProposeExamRequest{CourseID: env.course.ID, ExamDate: "2025-06-12"})
		assert.True(t, errors.Is(err, apperrors.ErrExamAlreadyProposed))
	})

	t.Run("rejects a duplicate even after the first was accepted", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), exam.ID, env.acceptRequest("10:00", 120))
		require.NoError(t, err)

		_, _, err = env.svc.Propose(ctx, env.leaderActor(),
			dto.ProposeExamRequest{CourseID: env.course.ID, ExamDate: "2025-06-12"})
		assert.True(t, errors.Is(err, apperrors.ErrExamAlreadyProposed))
	})

	t.Run("requires an examination method on the course", func(t *testing.T) {
		env := newExamEnv(t)
		course := env.f.addCourse("Databases", env.coordinator.ID, "CS", 2, nil)

		_, _, err := env.svc.Propose(ctx, env.leaderActor(),
			dto.ProposeExamRequest{CourseID: course.ID, ExamDate: "2025-06-10"})
		assert.True(t, errors.Is(err, apperrors.ErrNoExaminationMethod))
	})

	t.Run("rejects dates outside every matching period", func(t *testing.T) {
		env := newExamEnv(t)

		_, _, err := env.svc.Propose(ctx, env.leaderActor(),
			dto.ProposeExamRequest{CourseID: env.course.ID, ExamDate: "2025-07-01"})
		assert.True(t, errors.Is(err, apperrors.ErrDateOutsidePeriod))
	})

	t.Run("accepts dates on the period bounds", func(t *testing.T) {
		for _, date := range []string{"2025-06-01", "2025-06-30"} {
			env := newExamEnv(t)
			exam := env.propose(t, date)
			assert.Equal(t, models.ExamStatusPending, exam.Status)
		}
	})

	t.Run("rejects a course taught to a different group", func(t *testing.T) {
		env := newExamEnv(t)
		other := env.f.addCourse("Control Systems", env.coordinator.ID, "EE", 2, nil)

		_, _, err := env.svc.Propose(ctx, env.leaderActor(),
			dto.ProposeExamRequest{CourseID: other.ID, ExamDate: "2025-06-10"})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		env := newExamEnv(t)
		_, _, err := env.svc.Propose(ctx, env.leaderActor(),
			dto.ProposeExamRequest{CourseID: env.course.ID, ExamDate: "10.06.2025"})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})

	t.Run("succeeds with a warning when the notification fails", func(t *testing.T) {
		env := newExamEnv(t)
		env.notifier.fail = true

		exam, warning, err := env.svc.Propose(ctx, env.leaderActor(),
			dto.ProposeExamRequest{CourseID: env.course.ID, ExamDate: "2025-06-10"})
		require.NoError(t, err)
		assert.NotEmpty(t, warning)
		assert.Equal(t, models.ExamStatusPending, exam.Status)
	})

	t.Run("denies roles other than group leader", func(t *testing.T) {
		env := newExamEnv(t)
		_, _, err := env.svc.Propose(ctx, env.coordinatorActor(),
			dto.ProposeExamRequest{CourseID: env.course.ID, ExamDate: "2025-06-10"})
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})
}

func TestReviewExam(t *testing.T) {
	ctx := context.Background()

	t.Run("accept writes the full schedule and reassigns the professor", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		updated, warning, err := env.svc.Review(ctx, env.coordinatorActor(), exam.ID, env.acceptRequest("10:00", 120))
		require.NoError(t, err)
		assert.Empty(t, warning)
		assert.Equal(t, models.ExamStatusAccepted, updated.Status)
		require.NotNil(t, updated.RoomID)
		assert.Equal(t, env.room.ID, *updated.RoomID)
		require.NotNil(t, updated.StartTime)
		assert.Equal(t, "10:00", updated.StartTime.String())
		require.NotNil(t, updated.Duration)
		assert.Equal(t, 120, *updated.Duration)
		assert.Equal(t, env.coordinator.ID, updated.ProfessorID)
	})

	t.Run("accept without a full schedule leaves the exam pending", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		req := env.acceptRequest("10:00", 120)
		req.RoomID = nil
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), exam.ID, req)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		stored, err := env.svc.GetByID(ctx, env.coordinatorActor(), exam.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExamStatusPending, stored.Status)
		assert.Nil(t, stored.StartTime)
	})

	t.Run("accept rejects an assistant who is not a professor", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		req := env.acceptRequest("10:00", 120)
		req.AssistantID = &env.leader.ID
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), exam.ID, req)
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		stored, err := env.svc.GetByID(ctx, env.coordinatorActor(), exam.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExamStatusPending, stored.Status)
	})

	t.Run("accept rejects a non-positive duration", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), exam.ID, env.acceptRequest("10:00", 0))
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})

	t.Run("room conflict blocks the accept and leaves it pending", func(t *testing.T) {
		env := newExamEnv(t)
		first := env.propose(t, "2025-06-10")
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), first.ID, env.acceptRequest("10:00", 60))
		require.NoError(t, err)

		otherLeader := env.f.addUser("Radu Toma", "radu.toma@usv.ro", models.RoleGroupLeader)
		env.f.addGroup("3712", otherLeader.ID, "CS", 2)
		otherCoord := env.f.addUser("Elena Vasile", "elena.vasile@usv.ro", models.RoleCoordinator)
		otherAssistant := env.f.addUser("Dan Luca", "dan.luca@usv.ro", models.RoleCoordinator)
		written := models.ExamTypeWritten
		otherCourse := env.f.addCourse("Operating Systems", otherCoord.ID, "CS", 2, &written)

		second, _, err := env.svc.Propose(ctx, auth.Actor{UserID: otherLeader.ID, Role: models.RoleGroupLeader},
			dto.ProposeExamRequest{CourseID: otherCourse.ID, ExamDate: "2025-06-10"})
		require.NoError(t, err)

		otherActor := auth.Actor{UserID: otherCoord.ID, Role: models.RoleCoordinator}
		overlapping := dto.ReviewExamRequest{
			Decision:    string(models.ExamStatusAccepted),
			RoomID:      &env.room.ID,
			AssistantID: &otherAssistant.ID,
			StartTime:   strPtr("10:30"),
			Duration:    intPtr(60),
		}
		_, _, err = env.svc.Review(ctx, otherActor, second.ID, overlapping)
		assert.True(t, errors.Is(err, apperrors.ErrScheduleConflict))
		assert.Contains(t, err.Error(), "room")

		stored, err := env.svc.GetByID(ctx, otherActor, second.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExamStatusPending, stored.Status)

		// Back to back with the first exam is fine.
		backToBack := overlapping
		backToBack.StartTime = strPtr("11:00")
		updated, _, err := env.svc.Review(ctx, otherActor, second.ID, backToBack)
		require.NoError(t, err)
		assert.Equal(t, models.ExamStatusAccepted, updated.Status)
	})

	t.Run("professor conflict targets the reviewer", func(t *testing.T) {
		env := newExamEnv(t)
		first := env.propose(t, "2025-06-10")
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), first.ID, env.acceptRequest("10:00", 60))
		require.NoError(t, err)

		otherLeader := env.f.addUser("Radu Toma", "radu.toma@usv.ro", models.RoleGroupLeader)
		env.f.addGroup("3712", otherLeader.ID, "CS", 2)
		written := models.ExamTypeWritten
		// Same coordinator reviews both courses, in different rooms.
		otherCourse := env.f.addCourse("Operating Systems", env.coordinator.ID, "CS", 2, &written)
		otherRoom := env.f.addRoom("D1", "Corp D")
		otherAssistant := env.f.addUser("Dan Luca", "dan.luca@usv.ro", models.RoleCoordinator)

		second, _, err := env.svc.Propose(ctx, auth.Actor{UserID: otherLeader.ID, Role: models.RoleGroupLeader},
			dto.ProposeExamRequest{CourseID: otherCourse.ID, ExamDate: "2025-06-10"})
		require.NoError(t, err)

		req := dto.ReviewExamRequest{
			Decision:    string(models.ExamStatusAccepted),
			RoomID:      &otherRoom.ID,
			AssistantID: &otherAssistant.ID,
			StartTime:   strPtr("10:30"),
			Duration:    intPtr(60),
		}
		_, _, err = env.svc.Review(ctx, env.coordinatorActor(), second.ID, req)
		assert.True(t, errors.Is(err, apperrors.ErrScheduleConflict))
		assert.Contains(t, err.Error(), "professor")
	})

	t.Run("only the course coordinator may review", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")
		intruder := env.f.addUser("Elena Vasile", "elena.vasile@usv.ro", models.RoleCoordinator)

		_, _, err := env.svc.Review(ctx, auth.Actor{UserID: intruder.ID, Role: models.RoleCoordinator},
			exam.ID, env.acceptRequest("10:00", 120))
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})

	t.Run("a second review of the same exam fails", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), exam.ID, env.acceptRequest("10:00", 120))
		require.NoError(t, err)

		_, _, err = env.svc.Review(ctx, env.coordinatorActor(), exam.ID,
			dto.ReviewExamRequest{Decision: string(models.ExamStatusRejected)})
		assert.True(t, errors.Is(err, apperrors.ErrExamNotPending))
	})

	t.Run("reject needs no schedule and notifies the group leader", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")
		env.notifier.sent = nil

		updated, warning, err := env.svc.Review(ctx, env.coordinatorActor(), exam.ID,
			dto.ReviewExamRequest{Decision: string(models.ExamStatusRejected), Details: strPtr("date is too early")})
		require.NoError(t, err)
		assert.Empty(t, warning)
		assert.Equal(t, models.ExamStatusRejected, updated.Status)
		require.Len(t, env.notifier.sent, 1)
		assert.Contains(t, env.notifier.sent[0], env.leader.Email)
	})
}

func TestRescheduleExam(t *testing.T) {
	ctx := context.Background()

	reject := func(t *testing.T, env *examEnv, examID int64) {
		t.Helper()
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), examID,
			dto.ReviewExamRequest{Decision: string(models.ExamStatusRejected)})
		require.NoError(t, err)
	}

	t.Run("moves a rejected exam back to pending with the new date", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")
		reject(t, env, exam.ID)

		updated, _, err := env.svc.Reschedule(ctx, env.leaderActor(), exam.ID,
			dto.RescheduleExamRequest{ExamDate: "2025-06-17"})
		require.NoError(t, err)
		assert.Equal(t, models.ExamStatusPending, updated.Status)
		assert.Equal(t, "2025-06-17", updated.ExamDate.Format(models.DateLayout))
		assert.Nil(t, updated.RoomID)
		assert.Nil(t, updated.StartTime)
		assert.Nil(t, updated.Duration)
	})

	t.Run("only rejected exams can be rescheduled", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		_, _, err := env.svc.Reschedule(ctx, env.leaderActor(), exam.ID,
			dto.RescheduleExamRequest{ExamDate: "2025-06-17"})
		assert.True(t, errors.Is(err, apperrors.ErrExamNotRejected))
	})

	t.Run("the new date is period gated like a fresh proposal", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")
		reject(t, env, exam.ID)

		_, _, err := env.svc.Reschedule(ctx, env.leaderActor(), exam.ID,
			dto.RescheduleExamRequest{ExamDate: "2025-07-15"})
		assert.True(t, errors.Is(err, apperrors.ErrDateOutsidePeriod))
	})

	t.Run("another group's leader is refused", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")
		reject(t, env, exam.ID)

		otherLeader := env.f.addUser("Radu Toma", "radu.toma@usv.ro", models.RoleGroupLeader)
		env.f.addGroup("3712", otherLeader.ID, "CS", 2)

		_, _, err := env.svc.Reschedule(ctx, auth.Actor{UserID: otherLeader.ID, Role: models.RoleGroupLeader},
			exam.ID, dto.RescheduleExamRequest{ExamDate: "2025-06-17"})
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})
}

func TestUpdateBySecretary(t *testing.T) {
	ctx := context.Background()
	secretary := auth.Actor{UserID: 999, Role: models.RoleSecretary}

	t.Run("moving an accepted exam into a busy room is refused", func(t *testing.T) {
		env := newExamEnv(t)
		first := env.propose(t, "2025-06-10")
		_, _, err := env.svc.Review(ctx, env.coordinatorActor(), first.ID, env.acceptRequest("10:00", 60))
		require.NoError(t, err)

		otherLeader := env.f.addUser("Radu Toma", "radu.toma@usv.ro", models.RoleGroupLeader)
		env.f.addGroup("3712", otherLeader.ID, "CS", 2)
		otherCoord := env.f.addUser("Elena Vasile", "elena.vasile@usv.ro", models.RoleCoordinator)
		otherAssistant := env.f.addUser("Dan Luca", "dan.luca@usv.ro", models.RoleCoordinator)
		otherRoom := env.f.addRoom("D1", "Corp D")
		written := models.ExamTypeWritten
		otherCourse := env.f.addCourse("Operating Systems", otherCoord.ID, "CS", 2, &written)

		second, _, err := env.svc.Propose(ctx, auth.Actor{UserID: otherLeader.ID, Role: models.RoleGroupLeader},
			dto.ProposeExamRequest{CourseID: otherCourse.ID, ExamDate: "2025-06-10"})
		require.NoError(t, err)
		_, _, err = env.svc.Review(ctx, auth.Actor{UserID: otherCoord.ID, Role: models.RoleCoordinator}, second.ID,
			dto.ReviewExamRequest{
				Decision:    string(models.ExamStatusAccepted),
				RoomID:      &otherRoom.ID,
				AssistantID: &otherAssistant.ID,
				StartTime:   strPtr("10:30"),
				Duration:    intPtr(60),
			})
		require.NoError(t, err)

		_, err = env.svc.UpdateBySecretary(ctx, secretary, second.ID,
			dto.UpdateExamRequest{RoomID: &env.room.ID})
		assert.True(t, errors.Is(err, apperrors.ErrScheduleConflict))
	})

	t.Run("corrections to a pending exam skip the conflict scans", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		updated, err := env.svc.UpdateBySecretary(ctx, secretary, exam.ID,
			dto.UpdateExamRequest{ExamDate: strPtr("2025-06-12"), Details: strPtr("moved by request")})
		require.NoError(t, err)
		assert.Equal(t, "2025-06-12", updated.ExamDate.Format(models.DateLayout))
		assert.Equal(t, models.ExamStatusPending, updated.Status)
	})

	t.Run("the corrected date must stay inside a period", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		_, err := env.svc.UpdateBySecretary(ctx, secretary, exam.ID,
			dto.UpdateExamRequest{ExamDate: strPtr("2025-07-15")})
		assert.True(t, errors.Is(err, apperrors.ErrDateOutsidePeriod))
	})

	t.Run("a corrected assistant must be a professor", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		_, err := env.svc.UpdateBySecretary(ctx, secretary, exam.ID,
			dto.UpdateExamRequest{AssistantID: &env.leader.ID})
		assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	})

	t.Run("non-secretaries are refused", func(t *testing.T) {
		env := newExamEnv(t)
		exam := env.propose(t, "2025-06-10")

		_, err := env.svc.UpdateBySecretary(ctx, env.coordinatorActor(), exam.ID,
			dto.UpdateExamRequest{Details: strPtr("x")})
		assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
