//go:build unit

package parking_test

import (
	"testing"

	"park-and-ride/internal/domain/parking"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	grid, err := parking.NewGrid(2, 3)
	require.NoError(t, err)

	t.Run("total is rows times cols", func(t *testing.T) {
		assert.Equal(t, 6, grid.Total())
	})

	t.Run("slots are row-major", func(t *testing.T) {
		want := []parking.Slot{
			{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2},
			{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2},
		}
		if diff := cmp.Diff(want, grid.Slots()); diff != "" {
			t.Errorf("Slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects empty dimensions", func(t *testing.T) {
		_, err := parking.NewGrid(0, 3)
		assert.Error(t, err)
	})
}

func TestGrid_ParseLabel(t *testing.T) {
	grid, err := parking.NewGrid(5, 10)
	require.NoError(t, err)

	tests := []struct {
		name  string
		label string
		want  parking.Slot
		errIs error
	}{
		{name: "upper case", label: "R2C3", want: parking.Slot{Row: 2, Col: 3}},
		{name: "lower case", label: "r0c9", want: parking.Slot{Row: 0, Col: 9}},
		{name: "surrounding spaces", label: " R4C0 ", want: parking.Slot{Row: 4, Col: 0}},
		{name: "row outside grid", label: "R5C0", errIs: parking.ErrInvalidSlotLabel},
		{name: "col outside grid", label: "R0C10", errIs: parking.ErrInvalidSlotLabel},
		{name: "garbage", label: "slot-1", errIs: parking.ErrInvalidSlotLabel},
		{name: "empty", label: "", errIs: parking.ErrInvalidSlotLabel},
		{name: "negative", label: "R-1C2", errIs: parking.ErrInvalidSlotLabel},
		{name: "leading zero row", label: "R02C3", errIs: parking.ErrInvalidSlotLabel},
		{name: "leading zero col", label: "R2C03", errIs: parking.ErrInvalidSlotLabel},
		{name: "zero padded zero", label: "R00C0", errIs: parking.ErrInvalidSlotLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := grid.ParseLabel(tt.label)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlot_LabelRoundTrip(t *testing.T) {
	grid, err := parking.NewGrid(3, 3)
	require.NoError(t, err)

	for _, s := range grid.Slots() {
		parsed, err := grid.ParseLabel(s.Label())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.Equal(t, "R2C3", parking.Slot{Row: 2, Col: 3}.Label())
}

func TestAsBookingError(t *testing.T) {
	be, ok := parking.AsBookingError(parking.ErrNoSlotAvailable)
	require.True(t, ok)
	assert.Equal(t, "no slot available", be.Error())

	_, ok = parking.AsBookingError(assert.AnError)
	assert.False(t, ok)
}
