package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/examplanner/examplanner/internal/app/models"
)

// EntityRole identifies which scheduling resource a conflict scan targets.
type EntityRole string

const (
	EntityRoom      EntityRole = "room"
	EntityAssistant EntityRole = "assistant"
	EntityProfessor EntityRole = "professor"
)

// BookedSlot is one already-accepted exam occupying an entity on a date.
type BookedSlot struct {
	ExamID    int64
	StartTime models.TimeOfDay
	Duration  int
}

// AcceptedExamSource yields the ACCEPTED exams that reference an entity on a
// given date, excluding the exam under review itself. Pending and rejected
// exams impose no scheduling constraint and must not be returned.
type AcceptedExamSource interface {
	AcceptedExams(ctx context.Context, role EntityRole, entityID int64, date time.Time, excludeExamID int64) ([]BookedSlot, error)
}

// Scanner applies the overlap check to every accepted exam competing for an
// entity. The caller runs one scan per role (room, assistant, professor)
// before committing an accept decision.
type Scanner struct {
	src AcceptedExamSource
}

// NewScanner creates a Scanner over the given source.
func NewScanner(src AcceptedExamSource) *Scanner {
	return &Scanner{src: src}
}

// FindConflicts returns the accepted exams whose interval overlaps the
// candidate (start, duration) for the given entity on the given date. An
// empty result means the entity is free in that interval.
func (s *Scanner) FindConflicts(ctx context.Context, role EntityRole, entityID int64, date time.Time, start models.TimeOfDay, duration int, excludeExamID int64) ([]BookedSlot, error) {
	booked, err := s.src.AcceptedExams(ctx, role, entityID, date, excludeExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accepted exams for %s %d: %w", role, entityID, err)
	}

	var conflicts []BookedSlot
	for _, slot := range booked {
		if Overlaps(start, duration, slot.StartTime, slot.Duration) {
			conflicts = append(conflicts, slot)
		}
	}
	return conflicts, nil
}
