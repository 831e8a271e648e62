package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tells how a column's raw CSV values are stored.
type Kind int

const (
	// Numeric columns parse to float64.
	Numeric Kind = iota
	// Label columns keep the raw string, e.g. species codes or lake ids.
	Label
)

// Column is a single named column of a Frame.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64 // set when Kind == Numeric
	Labels []string  // set when Kind == Label
}

func (c Column) len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Frame is an in-memory table of named columns of equal length.
// All operations return a new Frame; a Frame is never mutated after New.
type Frame struct {
	cols  []Column
	index map[string]int
	n     int
}

// New builds a Frame from columns. All columns must share one length and
// carry distinct names.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := f.index[c.Name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", c.Name)
		}
		if i == 0 {
			f.n = c.len()
		} else if c.len() != f.n {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", c.Name, c.len(), f.n)
		}
		f.index[c.Name] = i
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.n }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Floats returns the values of a numeric column.
func (f *Frame) Floats(name string) ([]float64, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("dataset: no column %q", name)
	}
	if f.cols[i].Kind != Numeric {
		return nil, fmt.Errorf("dataset: column %q is not numeric", name)
	}
	return f.cols[i].Floats, nil
}

// Labels returns the values of a label column.
func (f *Frame) Labels(name string) ([]string, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("dataset: no column %q", name)
	}
	if f.cols[i].Kind != Label {
		return nil, fmt.Errorf("dataset: column %q is not a label column", name)
	}
	return f.cols[i].Labels, nil
}

// Select returns a Frame holding only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("dataset: no column %q", name)
		}
		cols = append(cols, f.cols[i])
	}
	return New(cols...)
}

// Rename returns a Frame with one column renamed.
func (f *Frame) Rename(old, new string) (*Frame, error) {
	i, ok := f.index[old]
	if !ok {
		return nil, fmt.Errorf("dataset: no column %q", old)
	}
	cols := make([]Column, len(f.cols))
	copy(cols, f.cols)
	cols[i].Name = new
	return New(cols...)
}

// Filter returns the rows for which keep(i) is true.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	idx := make([]int, 0, f.n)
	for i := 0; i < f.n; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.take(idx)
}

// take builds a Frame from a row index list.
func (f *Frame) take(idx []int) *Frame {
	cols := make([]Column, len(f.cols))
	for ci, c := range f.cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Numeric {
			nc.Floats = make([]float64, len(idx))
			for i, r := range idx {
				nc.Floats[i] = c.Floats[r]
			}
		} else {
			nc.Labels = make([]string, len(idx))
			for i, r := range idx {
				nc.Labels[i] = c.Labels[r]
			}
		}
		cols[ci] = nc
	}
	out, _ := New(cols...)
	return out
}

// SumBy groups rows by one or more label columns and sums a numeric column
// within each group. Groups appear in first-seen row order. The result has
// the by columns followed by the summed value column.
func (f *Frame) SumBy(value string, by ...string) (*Frame, error) {
	if len(by) == 0 {
		return nil, fmt.Errorf("dataset: SumBy needs at least one grouping column")
	}
	vals, err := f.Floats(value)
	if err != nil {
		return nil, err
	}
	keys := make([][]string, len(by))
	for i, name := range by {
		keys[i], err = f.Labels(name)
		if err != nil {
			return nil, err
		}
	}

	type group struct {
		key []string
		sum float64
	}
	order := make([]*group, 0)
	seen := make(map[string]*group)
	for r := 0; r < f.n; r++ {
		parts := make([]string, len(by))
		for i := range by {
			parts[i] = keys[i][r]
		}
		k := strings.Join(parts, "\x00")
		g, ok := seen[k]
		if !ok {
			g = &group{key: parts}
			seen[k] = g
			order = append(order, g)
		}
		g.sum += vals[r]
	}

	cols := make([]Column, len(by)+1)
	for i, name := range by {
		labels := make([]string, len(order))
		for gi, g := range order {
			labels[gi] = g.key[i]
		}
		cols[i] = Column{Name: name, Kind: Label, Labels: labels}
	}
	sums := make([]float64, len(order))
	for gi, g := range order {
		sums[gi] = g.sum
	}
	cols[len(by)] = Column{Name: value, Kind: Numeric, Floats: sums}
	return New(cols...)
}

// SortByDesc returns the rows sorted by a numeric column, largest first.
// The sort is stable so ties keep their input order.
func (f *Frame) SortByDesc(name string) (*Frame, error) {
	vals, err := f.Floats(name)
	if err != nil {
		return nil, err
	}
	idx := make([]int, f.n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] > vals[idx[b]] })
	return f.take(idx), nil
}

// Head returns the first n rows (all rows when n exceeds the length).
func (f *Frame) Head(n int) *Frame {
	if n > f.n {
		n = f.n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return f.take(idx)
}
