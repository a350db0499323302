package scheduling

import (
	"github.com/examplanner/examplanner/internal/app/models"
)

// Overlaps reports whether two same-day intervals intersect. Intervals are
// half-open: a 09:00-10:00 exam and a 10:00-11:00 exam share an endpoint but
// do not conflict. Durations are minutes and must be positive; request
// validation rejects zero or negative durations before they reach here.
func Overlaps(startA models.TimeOfDay, durationA int, startB models.TimeOfDay, durationB int) bool {
	endA := startA.Minutes() + durationA
	endB := startB.Minutes() + durationB
	return startA.Minutes() < endB && startB.Minutes() < endA
}
