package forecast

import "time"

const (
	// DefaultSlotCount and DefaultSlotStep describe the hourly view: six
	// slots, two hours apart, starting now.
	DefaultSlotCount = 6
	DefaultSlotStep  = 2 * time.Hour

	slotLabelLayout = "15:04"
)

// NewSlots returns count slots starting at now and spaced by step. Labels
// are rendered in loc; a nil loc means UTC.
func NewSlots(now time.Time, count int, step time.Duration, loc *time.Location) []Slot {
	if loc == nil {
		loc = time.UTC
	}
	slots := make([]Slot, 0, count)
	for k := 0; k < count; k++ {
		t := now.Add(time.Duration(k) * step)
		slots = append(slots, Slot{
			Label:     t.In(loc).Format(slotLabelLayout),
			Timestamp: t.UnixMilli(),
		})
	}
	return slots
}
