package stats

import (
	"fmt"

	mstats "github.com/aclements/go-moremath/stats"
)

// Summary describes one numeric column of a survey.
type Summary struct {
	Name   string
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

// Describe computes a five-point summary of a sample. The input slice is
// left untouched; sorting happens on a copy.
func Describe(name string, xs []float64) Summary {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	s := mstats.Sample{Xs: cp}
	s.Sort()
	return Summary{
		Name:   name,
		N:      len(xs),
		Mean:   s.Mean(),
		StdDev: s.StdDev(),
		Min:    s.Quantile(0),
		Median: s.Quantile(0.5),
		Max:    s.Quantile(1),
	}
}

// String renders the summary on one line for log output.
func (s Summary) String() string {
	return fmt.Sprintf("%s: n=%d mean=%.4g sd=%.4g min=%.4g median=%.4g max=%.4g",
		s.Name, s.N, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
}
