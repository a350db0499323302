package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/examplanner/examplanner/internal/app/models"
	"github.com/examplanner/examplanner/internal/app/scheduling"
	"github.com/examplanner/examplanner/internal/pkg/apperrors"
)

// fixture is the shared in-memory backing store for the fake repositories.
// The fakes reproduce the same status guards and conflict scans as the real
// repositories, including the overlap check, so service tests cover the
// scheduling behavior end to end without a database.
type fixture struct {
	users      map[int64]*models.User
	groups     map[int64]*models.Group
	courses    map[int64]*models.Course
	assistants map[int64][]int64
	rooms      map[int64]*models.Room
	periods    map[int64]*models.ExaminationPeriod
	exams      map[int64]*models.Exam
	nextID     int64
}

func newFixture() *fixture {
	return &fixture{
		users:      make(map[int64]*models.User),
		groups:     make(map[int64]*models.Group),
		courses:    make(map[int64]*models.Course),
		assistants: make(map[int64][]int64),
		rooms:      make(map[int64]*models.Room),
		periods:    make(map[int64]*models.ExaminationPeriod),
		exams:      make(map[int64]*models.Exam),
	}
}

func (f *fixture) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fixture) addUser(name, email string, role models.RoleType) *models.User {
	u := &models.User{ID: f.id(), Name: name, Email: email, Role: role}
	f.users[u.ID] = u
	return u
}

func (f *fixture) addGroup(name string, leaderID int64, specialization string, year int) *models.Group {
	g := &models.Group{ID: f.id(), Name: name, LeaderID: &leaderID, Specialization: &specialization, YearOfStudy: &year}
	f.groups[g.ID] = g
	return g
}

func (f *fixture) addCourse(name string, coordinatorID int64, specialization string, year int, method *models.ExamType) *models.Course {
	c := &models.Course{
		ID:                f.id(),
		Name:              name,
		StudyYear:         &year,
		Specialization:    &specialization,
		ExaminationMethod: method,
		CoordinatorID:     coordinatorID,
	}
	f.courses[c.ID] = c
	return c
}

func (f *fixture) addRoom(name, building string) *models.Room {
	r := &models.Room{ID: f.id(), Name: name, Building: building}
	f.rooms[r.ID] = r
	return r
}

func (f *fixture) addPeriod(examType models.ExamType, start, end string) *models.ExaminationPeriod {
	p := &models.ExaminationPeriod{ID: f.id(), Type: examType, PeriodStart: day(start), PeriodEnd: day(end)}
	f.periods[p.ID] = p
	return p
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// --- exam store ---

type fakeExamStore struct{ f *fixture }

func (s *fakeExamStore) GetByID(_ context.Context, id int64) (*models.Exam, error) {
	exam, ok := s.f.exams[id]
	if !ok {
		return nil, apperrors.ErrExamNotFound
	}
	cp := *exam
	return &cp, nil
}

func (s *fakeExamStore) ExistsActiveForCourseAndGroup(_ context.Context, courseID, groupID int64) (bool, error) {
	for _, e := range s.f.exams {
		if e.CourseID == courseID && e.GroupID == groupID && e.Status != models.ExamStatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeExamStore) Create(_ context.Context, exam *models.Exam) error {
	for _, e := range s.f.exams {
		if e.CourseID == exam.CourseID && e.GroupID == exam.GroupID {
			return apperrors.ErrExamAlreadyProposed
		}
	}
	exam.ID = s.f.id()
	cp := *exam
	s.f.exams[exam.ID] = &cp
	return nil
}

func (s *fakeExamStore) AcceptedExams(_ context.Context, role scheduling.EntityRole, entityID int64, date time.Time, excludeExamID int64) ([]scheduling.BookedSlot, error) {
	var slots []scheduling.BookedSlot
	for _, e := range s.f.exams {
		if e.ID == excludeExamID || e.Status != models.ExamStatusAccepted || !e.ExamDate.Equal(date) {
			continue
		}
		if e.StartTime == nil || e.Duration == nil {
			continue
		}
		var match bool
		switch role {
		case scheduling.EntityRoom:
			match = e.RoomID != nil && *e.RoomID == entityID
		case scheduling.EntityAssistant:
			match = e.AssistantID != nil && *e.AssistantID == entityID
		case scheduling.EntityProfessor:
			match = e.ProfessorID == entityID
		}
		if match {
			slots = append(slots, scheduling.BookedSlot{ExamID: e.ID, StartTime: *e.StartTime, Duration: *e.Duration})
		}
	}
	return slots, nil
}

func (s *fakeExamStore) scanConflicts(ctx context.Context, examID int64, examDate time.Time, schedule models.ExamSchedule) error {
	scanner := scheduling.NewScanner(s)
	checks := []struct {
		role     scheduling.EntityRole
		entityID int64
		message  string
	}{
		{scheduling.EntityRoom, schedule.RoomID, "room is already booked in that interval"},
		{scheduling.EntityAssistant, schedule.AssistantID, "assistant is already assigned to an overlapping exam"},
		{scheduling.EntityProfessor, schedule.ProfessorID, "professor is already assigned to an overlapping exam"},
	}
	for _, c := range checks {
		conflicts, err := scanner.FindConflicts(ctx, c.role, c.entityID, examDate, schedule.StartTime, schedule.Duration, examID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.NewScheduleConflictError(c.message)
		}
	}
	return nil
}

func (s *fakeExamStore) Accept(ctx context.Context, examID int64, examDate time.Time, schedule models.ExamSchedule) error {
	if err := s.scanConflicts(ctx, examID, examDate, schedule); err != nil {
		return err
	}
	exam, ok := s.f.exams[examID]
	if !ok || exam.Status != models.ExamStatusPending {
		return apperrors.ErrExamNotPending
	}
	exam.Status = models.ExamStatusAccepted
	exam.RoomID = &schedule.RoomID
	exam.AssistantID = &schedule.AssistantID
	exam.ProfessorID = schedule.ProfessorID
	start := schedule.StartTime
	exam.StartTime = &start
	duration := schedule.Duration
	exam.Duration = &duration
	details := schedule.Details
	exam.Details = &details
	return nil
}

func (s *fakeExamStore) Reject(_ context.Context, examID int64, details *string) error {
	exam, ok := s.f.exams[examID]
	if !ok || exam.Status != models.ExamStatusPending {
		return apperrors.ErrExamNotPending
	}
	exam.Status = models.ExamStatusRejected
	if details != nil {
		exam.Details = details
	}
	return nil
}

func (s *fakeExamStore) Reschedule(_ context.Context, examID int64, newDate time.Time) error {
	exam, ok := s.f.exams[examID]
	if !ok || exam.Status != models.ExamStatusRejected {
		return apperrors.ErrExamNotRejected
	}
	exam.ExamDate = newDate
	exam.Status = models.ExamStatusPending
	exam.RoomID = nil
	exam.AssistantID = nil
	exam.StartTime = nil
	exam.Duration = nil
	exam.Details = nil
	return nil
}

func (s *fakeExamStore) applyUpdates(exam *models.Exam, updates map[string]interface{}) error {
	for column, value := range updates {
		switch column {
		case "exam_date":
			exam.ExamDate = value.(time.Time)
		case "room_id":
			id := value.(int64)
			exam.RoomID = &id
		case "assistant_id":
			id := value.(int64)
			exam.AssistantID = &id
		case "start_time":
			t := models.TimeOfDay(value.(int))
			exam.StartTime = &t
		case "duration":
			d := value.(int)
			exam.Duration = &d
		case "details":
			details := value.(string)
			exam.Details = &details
		default:
			return errors.New("unexpected update column " + column)
		}
	}
	return nil
}

func (s *fakeExamStore) Update(_ context.Context, examID int64, updates map[string]interface{}) error {
	exam, ok := s.f.exams[examID]
	if !ok {
		return apperrors.ErrExamNotFound
	}
	return s.applyUpdates(exam, updates)
}

func (s *fakeExamStore) UpdateWithConflictCheck(ctx context.Context, exam *models.Exam, updates map[string]interface{}, schedule models.ExamSchedule, examDate time.Time) error {
	if err := s.scanConflicts(ctx, exam.ID, examDate, schedule); err != nil {
		return err
	}
	stored, ok := s.f.exams[exam.ID]
	if !ok {
		return apperrors.ErrExamNotFound
	}
	return s.applyUpdates(stored, updates)
}

func (s *fakeExamStore) details(e *models.Exam) models.ExamDetails {
	d := models.ExamDetails{
		ExamID:    e.ID,
		ExamDate:  e.ExamDate,
		Type:      e.Type,
		Status:    e.Status,
		StartTime: e.StartTime,
		Duration:  e.Duration,
		Details:   e.Details,
	}
	if c, ok := s.f.courses[e.CourseID]; ok {
		d.CourseName = c.Name
	}
	if g, ok := s.f.groups[e.GroupID]; ok {
		d.GroupName = g.Name
		if g.Specialization != nil {
			d.Specialization = *g.Specialization
		}
	}
	if e.RoomID != nil {
		if r, ok := s.f.rooms[*e.RoomID]; ok {
			d.RoomName = &r.Name
			d.Building = &r.Building
		}
	}
	if p, ok := s.f.users[e.ProfessorID]; ok {
		d.Professor = &p.Name
	}
	if e.AssistantID != nil {
		if a, ok := s.f.users[*e.AssistantID]; ok {
			d.Assistant = &a.Name
		}
	}
	return d
}

func (s *fakeExamStore) listDetails(filter func(*models.Exam) bool) []models.ExamDetails {
	var out []models.ExamDetails
	for _, e := range s.f.exams {
		if filter(e) {
			out = append(out, s.details(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupName != out[j].GroupName {
			return out[i].GroupName < out[j].GroupName
		}
		if out[i].CourseName != out[j].CourseName {
			return out[i].CourseName < out[j].CourseName
		}
		return out[i].ExamID < out[j].ExamID
	})
	return out
}

func (s *fakeExamStore) ListDetailsForCoordinator(_ context.Context, coordinatorID int64) ([]models.ExamDetails, error) {
	return s.listDetails(func(e *models.Exam) bool {
		c, ok := s.f.courses[e.CourseID]
		return ok && c.CoordinatorID == coordinatorID
	}), nil
}

func (s *fakeExamStore) ListDetailsForGroup(_ context.Context, groupID int64) ([]models.ExamDetails, error) {
	return s.listDetails(func(e *models.Exam) bool { return e.GroupID == groupID }), nil
}

func (s *fakeExamStore) ListAllDetails(_ context.Context) ([]models.ExamDetails, error) {
	return s.listDetails(func(*models.Exam) bool { return true }), nil
}

func (s *fakeExamStore) ListMissing(_ context.Context) ([]models.MissingExam, error) {
	var missing []models.MissingExam
	for _, c := range s.f.courses {
		for _, g := range s.f.groups {
			if c.Specialization == nil || g.Specialization == nil || *c.Specialization != *g.Specialization {
				continue
			}
			if c.StudyYear == nil || g.YearOfStudy == nil || *c.StudyYear != *g.YearOfStudy {
				continue
			}
			proposed := false
			for _, e := range s.f.exams {
				if e.CourseID == c.ID && e.GroupID == g.ID {
					proposed = true
					break
				}
			}
			if !proposed {
				missing = append(missing, models.MissingExam{
					CourseID:       c.ID,
					CourseName:     c.Name,
					GroupID:        g.ID,
					GroupName:      g.Name,
					Specialization: *g.Specialization,
					YearOfStudy:    g.YearOfStudy,
				})
			}
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].GroupName != missing[j].GroupName {
			return missing[i].GroupName < missing[j].GroupName
		}
		return missing[i].CourseName < missing[j].CourseName
	})
	return missing, nil
}

// --- course store ---

type fakeCourseStore struct{ f *fixture }

func (s *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := s.f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCourseStore) GetAll(_ context.Context) ([]models.Course, error) {
	return s.list(func(*models.Course) bool { return true }), nil
}

func (s *fakeCourseStore) GetByCoordinatorID(_ context.Context, coordinatorID int64) ([]models.Course, error) {
	return s.list(func(c *models.Course) bool { return c.CoordinatorID == coordinatorID }), nil
}

func (s *fakeCourseStore) GetForGroup(_ context.Context, group *models.Group) ([]models.Course, error) {
	return s.list(func(c *models.Course) bool {
		return c.Specialization != nil && group.Specialization != nil &&
			*c.Specialization == *group.Specialization &&
			c.StudyYear != nil && group.YearOfStudy != nil &&
			*c.StudyYear == *group.YearOfStudy
	}), nil
}

func (s *fakeCourseStore) list(filter func(*models.Course) bool) []models.Course {
	var out []models.Course
	for _, c := range s.f.courses {
		if filter(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *fakeCourseStore) GetAssistants(_ context.Context, courseID int64) ([]models.User, error) {
	var out []models.User
	for _, userID := range s.f.assistants[courseID] {
		if u, ok := s.f.users[userID]; ok {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeCourseStore) ReplaceAssistants(_ context.Context, courseID int64, userIDs []int64) error {
	s.f.assistants[courseID] = append([]int64(nil), userIDs...)
	return nil
}

func (s *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	course.ID = s.f.id()
	cp := *course
	s.f.courses[course.ID] = &cp
	return nil
}

func (s *fakeCourseStore) Update(_ context.Context, course *models.Course) error {
	if _, ok := s.f.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	cp := *course
	s.f.courses[course.ID] = &cp
	return nil
}

func (s *fakeCourseStore) SetExaminationMethod(_ context.Context, courseID int64, method models.ExamType) error {
	c, ok := s.f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	c.ExaminationMethod = &method
	return nil
}

func (s *fakeCourseStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(s.f.courses, id)
	return nil
}

// --- group store ---

type fakeGroupStore struct{ f *fixture }

func (s *fakeGroupStore) GetByID(_ context.Context, id int64) (*models.Group, error) {
	g, ok := s.f.groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *fakeGroupStore) GetByLeaderID(_ context.Context, leaderID int64) (*models.Group, error) {
	for _, g := range s.f.groups {
		if g.LeaderID != nil && *g.LeaderID == leaderID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserLeadsNoGroup
}

func (s *fakeGroupStore) GetAll(_ context.Context) ([]models.Group, error) {
	var out []models.Group
	for _, g := range s.f.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- room store ---

type fakeRoomStore struct{ f *fixture }

func (s *fakeRoomStore) GetByID(_ context.Context, id int64) (*models.Room, error) {
	r, ok := s.f.rooms[id]
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRoomStore) GetAll(_ context.Context) ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.f.rooms {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeRoomStore) Create(_ context.Context, room *models.Room) error {
	room.ID = s.f.id()
	cp := *room
	s.f.rooms[room.ID] = &cp
	return nil
}

func (s *fakeRoomStore) Update(_ context.Context, room *models.Room) error {
	if _, ok := s.f.rooms[room.ID]; !ok {
		return apperrors.ErrRoomNotFound
	}
	cp := *room
	s.f.rooms[room.ID] = &cp
	return nil
}

func (s *fakeRoomStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.f.rooms[id]; !ok {
		return apperrors.ErrRoomNotFound
	}
	delete(s.f.rooms, id)
	return nil
}

// --- user store ---

type fakeUserStore struct{ f *fixture }

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) GetAll(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range s.f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.f.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = s.f.id()
	cp := *user
	s.f.users[user.ID] = &cp
	return nil
}

// --- period store ---

type fakePeriodStore struct{ f *fixture }

func (s *fakePeriodStore) GetByID(_ context.Context, id int64) (*models.ExaminationPeriod, error) {
	p, ok := s.f.periods[id]
	if !ok {
		return nil, apperrors.ErrPeriodNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePeriodStore) GetAll(_ context.Context) ([]models.ExaminationPeriod, error) {
	var out []models.ExaminationPeriod
	for _, p := range s.f.periods {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out, nil
}

func (s *fakePeriodStore) ExistsForTypeAndDate(_ context.Context, examType models.ExamType, dayArg time.Time) (bool, error) {
	for _, p := range s.f.periods {
		if p.Type == examType && p.Contains(dayArg) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakePeriodStore) Create(_ context.Context, period *models.ExaminationPeriod) error {
	period.ID = s.f.id()
	cp := *period
	s.f.periods[period.ID] = &cp
	return nil
}

func (s *fakePeriodStore) Update(_ context.Context, period *models.ExaminationPeriod) error {
	if _, ok := s.f.periods[period.ID]; !ok {
		return apperrors.ErrPeriodNotFound
	}
	cp := *period
	s.f.periods[period.ID] = &cp
	return nil
}

func (s *fakePeriodStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.f.periods[id]; !ok {
		return apperrors.ErrPeriodNotFound
	}
	delete(s.f.periods, id)
	return nil
}

// --- maintenance store ---

type fakeMaintenanceStore struct{ f *fixture }

func (s *fakeMaintenanceStore) ResetAll(_ context.Context, keep ...models.RoleType) error {
	s.f.exams = make(map[int64]*models.Exam)
	s.f.assistants = make(map[int64][]int64)
	s.f.courses = make(map[int64]*models.Course)
	s.f.groups = make(map[int64]*models.Group)
	s.f.rooms = make(map[int64]*models.Room)
	s.f.periods = make(map[int64]*models.ExaminationPeriod)
	for id, u := range s.f.users {
		kept := false
		for _, role := range keep {
			if u.Role == role {
				kept = true
				break
			}
		}
		if !kept {
			delete(s.f.users, id)
		}
	}
	return nil
}

// --- notifier ---

type fakeNotifier struct {
	sent []string
	fail bool
}

func (n *fakeNotifier) Notify(toEmail, subject, _ string) error {
	if n.fail {
		return errors.New("smtp unavailable")
	}
	n.sent = append(n.sent, toEmail+": "+subject)
	return nil
}
