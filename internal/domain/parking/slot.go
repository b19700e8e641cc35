package parking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Slot struct {
	Row int
	Col int
}

func (s Slot) Label() string {
	return fmt.Sprintf("R%dC%d", s.Row, s.Col)
}

func (s Slot) String() string {
	return s.Label()
}

var labelRegex = regexp.MustCompile(`^R(0|[1-9]\d*)C(0|[1-9]\d*)$`)

// Grid is the fixed ROWS x COLS layout of a lot. Slots are 0-based.
type Grid struct {
	rows int
	cols int
}

func NewGrid(rows, cols int) (Grid, error) {
	if rows <= 0 || cols <= 0 {
		return Grid{}, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	return Grid{rows: rows, cols: cols}, nil
}

func (g Grid) Rows() int  { return g.rows }
func (g Grid) Cols() int  { return g.cols }
func (g Grid) Total() int { return g.rows * g.cols }

func (g Grid) Contains(s Slot) bool {
	return s.Row >= 0 && s.Row < g.rows && s.Col >= 0 && s.Col < g.cols
}

// Slots returns every slot in row-major order.
func (g Grid) Slots() []Slot {
	slots := make([]Slot, 0, g.Total())
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			slots = append(slots, Slot{Row: r, Col: c})
		}
	}
	return slots
}

// ParseLabel reads labels of the form R{row}C{col}, case-insensitively.
func (g Grid) ParseLabel(label string) (Slot, error) {
	m := labelRegex.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(label)))
	if m == nil {
		return Slot{}, ErrInvalidSlotLabel
	}

	row, err := strconv.Atoi(m[1])
	if err != nil {
		return Slot{}, ErrInvalidSlotLabel
	}
	col, err := strconv.Atoi(m[2])
	if err != nil {
		return Slot{}, ErrInvalidSlotLabel
	}

	s := Slot{Row: row, Col: col}
	if !g.Contains(s) {
		return Slot{}, ErrInvalidSlotLabel
	}
	return s, nil
}
