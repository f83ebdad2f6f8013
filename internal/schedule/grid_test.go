package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamagenda/agenda-api/internal/models"
)

func bareGrid() GridConfig {
	cfg := DefaultGridConfig()
	cfg.Shifts = nil
	return cfg
}

func TestSlotsSequence(t *testing.T) {
	cfg := DefaultGridConfig()
	slots := cfg.Slots()
	require.Len(t, slots, 33)
	assert.Equal(t, models.MustClock("07:00"), slots[0])
	assert.Equal(t, models.MustClock("07:30"), slots[1])
	assert.Equal(t, models.MustClock("23:00"), slots[len(slots)-1])
}

func TestActiveSlotsHalfOpenContainment(t *testing.T) {
	cfg := bareGrid()
	m := cfg.ActiveSlots([]Interval{
		{Start: models.MustClock("10:00"), End: models.MustClock("11:00")},
	})

	assert.True(t, m.Active(models.MustClock("10:00")))
	assert.True(t, m.Active(models.MustClock("10:30")))
	assert.False(t, m.Active(models.MustClock("11:00")), "end boundary is exclusive")
	assert.False(t, m.Active(models.MustClock("09:30")))
}

func TestActiveSlotsCoversEveryInputInterval(t *testing.T) {
	cfg := bareGrid()
	intervals := []Interval{
		{Start: models.MustClock("08:00"), End: models.MustClock("09:30")},
		{Start: models.MustClock("20:00"), End: models.MustClock("21:00")},
	}
	m := cfg.ActiveSlots(intervals)

	for _, slot := range m.Slots() {
		inside := false
		for _, iv := range intervals {
			if iv.Contains(slot) {
				inside = true
				break
			}
		}
		assert.Equal(t, inside, m.Active(slot), "slot %s", slot)
	}
}

func TestTotalHeightEqualsSlotSum(t *testing.T) {
	cfg := DefaultGridConfig()
	m := cfg.ActiveSlots([]Interval{
		{Start: models.MustClock("09:00"), End: models.MustClock("13:00")},
	})

	sum := 0
	for i := range m.Slots() {
		sum += m.HeightAt(i)
	}
	assert.Equal(t, sum, m.TotalHeight())
	assert.GreaterOrEqual(t, m.TotalHeight(), 0)
}

func TestTotalHeightAllCollapsed(t *testing.T) {
	cfg := bareGrid()
	m := cfg.ActiveSlots(nil)
	assert.Equal(t, 33*cfg.CollapsedHeight, m.TotalHeight())
}

func TestOffsetOfSumsSlotsStrictlyBefore(t *testing.T) {
	cfg := bareGrid()
	m := cfg.ActiveSlots([]Interval{
		{Start: models.MustClock("08:00"), End: models.MustClock("09:00")},
	})

	// 07:00 and 07:30 collapse, 08:00 and 08:30 expand.
	assert.Equal(t, 0, m.OffsetOf(models.MustClock("07:00")))
	assert.Equal(t, 2*cfg.CollapsedHeight, m.OffsetOf(models.MustClock("08:00")))
	assert.Equal(t, 2*cfg.CollapsedHeight+2*cfg.SlotHeight, m.OffsetOf(models.MustClock("09:00")))
}

func TestBlockExtentIncludesEndBoundarySlot(t *testing.T) {
	cfg := bareGrid()
	m := cfg.ActiveSlots([]Interval{
		{Start: models.MustClock("09:00"), End: models.MustClock("11:00")},
	})

	top, height := m.BlockExtent(models.MustClock("09:00"), models.MustClock("11:00"))
	assert.Equal(t, 4*cfg.CollapsedHeight, top)
	// 09:00, 09:30, 10:00, 10:30 expanded plus the collapsed 11:00
	// boundary slot, so the band visually reaches 11:00.
	assert.Equal(t, 4*cfg.SlotHeight+cfg.CollapsedHeight, height)

	_, spanHeight := m.SpanExtent(models.MustClock("09:00"), models.MustClock("11:00"))
	assert.Equal(t, 4*cfg.SlotHeight, spanHeight, "half-open span excludes the boundary slot")
}

func TestBlockExtentOutsideAxis(t *testing.T) {
	cfg := bareGrid()
	m := cfg.ActiveSlots(nil)
	_, height := m.BlockExtent(models.MustClock("01:00"), models.MustClock("02:00"))
	assert.Equal(t, 0, height)
}
