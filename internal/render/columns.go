package render

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLayout is returned for column specifications that cannot
	// describe any layout.
	ErrInvalidLayout = errors.New("invalid columns layout")
	// ErrLayoutTooNarrow is returned if a layout would end up with a
	// column that has no room left.
	ErrLayoutTooNarrow = errors.New("columns layout too narrow")
)

// Column is a named slot with a nominal width.
type Column struct {
	Name  string
	Width int
}

// ColumnsLayout distributes a total width over columns separated by gaps.
// The zero value is not usable; create layouts with NewColumnsLayout.
type ColumnsLayout struct {
	columns    []Column
	gap        int
	totalWidth int
	widths     []int
}

// Cell is the content a column gets from one set of attributes.
type Cell struct {
	Column  string
	Value   any
	Present bool
	Width   int
}

// NewColumnsLayout creates a layout. A non-positive totalWidth uses the sum
// of the nominal widths and gaps; any other value scales the columns
// proportionally, giving the rounding remainder to the first column.
func NewColumnsLayout(columns []Column, gap, totalWidth int) (ColumnsLayout, error) {
	if len(columns) == 0 {
		return ColumnsLayout{}, fmt.Errorf("%w: at least one column required", ErrInvalidLayout)
	}
	if gap < 0 {
		return ColumnsLayout{}, fmt.Errorf("%w: negative gap %d", ErrInvalidLayout, gap)
	}
	seen := make(map[string]bool, len(columns))
	nominal := 0
	for i, c := range columns {
		if c.Width <= 0 {
			return ColumnsLayout{}, fmt.Errorf("%w: column %d (%s) has non-positive width %d", ErrInvalidLayout, i, c.Name, c.Width)
		}
		if seen[c.Name] {
			return ColumnsLayout{}, fmt.Errorf("%w: duplicate column %q", ErrInvalidLayout, c.Name)
		}
		seen[c.Name] = true
		nominal += c.Width
	}

	gaps := gap * (len(columns) - 1)
	if totalWidth <= 0 {
		totalWidth = nominal + gaps
	}

	available := totalWidth - gaps
	widths := make([]int, len(columns))
	sum := 0
	for i, c := range columns {
		widths[i] = c.Width * available / nominal
		sum += widths[i]
	}
	widths[0] += available - sum

	for i, w := range widths {
		if w < 1 {
			return ColumnsLayout{}, fmt.Errorf("%w: column %d (%s) scaled to width %d for total width %d", ErrLayoutTooNarrow, i, columns[i].Name, w, totalWidth)
		}
	}

	return ColumnsLayout{
		columns:    append([]Column(nil), columns...),
		gap:        gap,
		totalWidth: totalWidth,
		widths:     widths,
	}, nil
}

// Columns returns the columns with their scaled widths.
func (l ColumnsLayout) Columns() []Column {
	out := make([]Column, len(l.columns))
	for i, c := range l.columns {
		out[i] = Column{Name: c.Name, Width: l.widths[i]}
	}
	return out
}

// Widths returns the scaled widths in column order.
func (l ColumnsLayout) Widths() []int {
	return append([]int(nil), l.widths...)
}

// Scaled returns the scaled width of every column by name.
func (l ColumnsLayout) Scaled() map[string]int {
	scaled := make(map[string]int, len(l.columns))
	for i, c := range l.columns {
		scaled[c.Name] = l.widths[i]
	}
	return scaled
}

// Gap returns the number of spaces between two columns.
func (l ColumnsLayout) Gap() int { return l.gap }

// TotalWidth returns the width of all columns and gaps together.
func (l ColumnsLayout) TotalWidth() int { return l.totalWidth }

// Primary returns the widest column; the first one wins ties.
func (l ColumnsLayout) Primary() Column {
	best := 0
	for i, w := range l.widths {
		if w > l.widths[best] {
			best = i
		}
	}
	return Column{Name: l.columns[best].Name, Width: l.widths[best]}
}

// Extract looks up the value of every column in attributes.
func (l ColumnsLayout) Extract(attributes Attributes) []Cell {
	cells := make([]Cell, len(l.columns))
	for i, c := range l.columns {
		value, ok := attributes.Get(c.Name)
		cells[i] = Cell{Column: c.Name, Value: value, Present: ok && value != nil, Width: l.widths[i]}
	}
	return cells
}

// ShrinkBy returns a layout that is n columns narrower. Only the first
// column gives up width; it must keep at least one column.
func (l ColumnsLayout) ShrinkBy(n int) (ColumnsLayout, error) {
	if len(l.widths) == 0 {
		return ColumnsLayout{}, fmt.Errorf("%w: layout has no columns", ErrInvalidLayout)
	}
	if n < 0 {
		return ColumnsLayout{}, fmt.Errorf("%w: cannot shrink by negative %d", ErrInvalidLayout, n)
	}
	if n >= l.widths[0] {
		return ColumnsLayout{}, fmt.Errorf("%w: cannot shrink column %s of width %d by %d", ErrLayoutTooNarrow, l.columns[0].Name, l.widths[0], n)
	}
	if n == 0 {
		return l, nil
	}

	columns := l.Columns()
	columns[0].Width -= n
	return ColumnsLayout{
		columns:    columns,
		gap:        l.gap,
		totalWidth: l.totalWidth - n,
		widths:     append([]int{columns[0].Width}, l.widths[1:]...),
	}, nil
}

// String describes the layout, e.g. "description:80 | status:40 (gap 5, total 125)".
func (l ColumnsLayout) String() string {
	s := ""
	for i, c := range l.Columns() {
		if i > 0 {
			s += " | "
		}
		s += fmt.Sprintf("%s:%d", c.Name, c.Width)
	}
	return fmt.Sprintf("%s (gap %d, total %d)", s, l.gap, l.totalWidth)
}
