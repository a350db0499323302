package models

import "time"

// ExaminationPeriod defines a date window based on the 'examination_periods'
// table. Exams of the tagged type may only be scheduled on days inside the
// window, bounds inclusive. PeriodStart < PeriodEnd is enforced at
// creation/update time.
type ExaminationPeriod struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Type        ExamType  `json:"type" db:"type" example:"WRITTEN"`
	PeriodStart time.Time `json:"periodStart" db:"period_start" example:"2025-06-01T00:00:00Z"`
	PeriodEnd   time.Time `json:"periodEnd" db:"period_end" example:"2025-06-30T00:00:00Z"`
}

// Contains reports whether day falls inside the period, bounds inclusive.
func (p ExaminationPeriod) Contains(day time.Time) bool {
	return !day.Before(p.PeriodStart) && !day.After(p.PeriodEnd)
}
