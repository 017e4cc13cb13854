package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tr(startHour, endHour int) TimeRange {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return TimeRange{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestTimeRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeRange
		want bool
	}{
		{"identical", tr(10, 12), tr(10, 12), true},
		{"partial overlap", tr(10, 12), tr(11, 13), true},
		{"contained", tr(10, 14), tr(11, 12), true},
		{"touching end to start", tr(10, 12), tr(12, 14), false},
		{"touching start to end", tr(12, 14), tr(10, 12), false},
		{"disjoint", tr(8, 9), tr(10, 11), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeRangeOverlapsAcrossZones(t *testing.T) {
	// 10:00 UTC expressed in UTC+7 still overlaps 10:30-11:30 UTC.
	bangkok := time.FixedZone("UTC+7", 7*3600)
	a := TimeRange{
		Start: EnsureUTC(time.Date(2026, 3, 10, 17, 0, 0, 0, bangkok)),
		End:   EnsureUTC(time.Date(2026, 3, 10, 18, 0, 0, 0, bangkok)),
	}
	b := TimeRange{
		Start: time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC),
	}
	assert.True(t, a.Overlaps(b))
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "lab 2", NormalizeLocation("  Lab 2 "))
	assert.Equal(t, "lab 2", NormalizeLocation("LAB 2"))
	assert.NotEqual(t, NormalizeLocation("Lab 2"), NormalizeLocation("Lab 3"))
}

func TestEventTags(t *testing.T) {
	var e Event
	assert.Empty(t, e.Tags())

	e.SetTags([]string{"tech", "workshop"})
	assert.Equal(t, []string{"tech", "workshop"}, e.Tags())

	e.SetTags(nil)
	assert.Empty(t, e.Tags())

	e.TagsJSON = "{not json"
	assert.Empty(t, e.Tags())
}
