package regress

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kieramatiska/esm244-code1/pkg/dataset"
)

// ErrRankDeficient is returned when the design matrix has linearly
// dependent columns, so no unique least-squares solution exists.
var ErrRankDeficient = errors.New("regress: design matrix is rank-deficient")

// rankTol scales the largest singular value; anything below is rank loss.
const rankTol = 1e-10

// Fitted holds ordinary least squares estimates for one Formula.
type Fitted struct {
	Formula Formula
	Coef    []float64 // intercept first, then one per predictor
	N       int
	RSS     float64
}

// Fit estimates the formula by ordinary least squares on the frame.
// The fit is exact (SVD solve), not iterative.
func Fit(f *dataset.Frame, fm Formula) (*Fitted, error) {
	y, err := f.Floats(fm.Response)
	if err != nil {
		return nil, fmt.Errorf("regress: %s: %w", fm.Name, err)
	}
	x, err := designMatrix(f, fm)
	if err != nil {
		return nil, err
	}
	n := f.Len()
	p := len(fm.Predictors) + 1
	if n < p {
		return nil, fmt.Errorf("regress: %s: %d rows for %d coefficients", fm.Name, n, p)
	}

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return nil, fmt.Errorf("regress: %s: SVD did not converge", fm.Name)
	}
	sv := svd.Values(nil)
	if sv[len(sv)-1] <= rankTol*sv[0] {
		return nil, fmt.Errorf("regress: %s: %w", fm.Name, ErrRankDeficient)
	}

	// beta = V * S^-1 * U^T y
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	yVec := mat.NewVecDense(n, y)
	uty := mat.NewVecDense(p, nil)
	uty.MulVec(u.T(), yVec)
	for i := 0; i < p; i++ {
		uty.SetVec(i, uty.AtVec(i)/sv[i])
	}
	beta := mat.NewVecDense(p, nil)
	beta.MulVec(&v, uty)

	fit := &Fitted{
		Formula: fm,
		Coef:    make([]float64, p),
		N:       n,
	}
	copy(fit.Coef, beta.RawVector().Data)

	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(x, beta)
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		fit.RSS += r * r
	}
	return fit, nil
}

// Predict evaluates the fitted model on the frame's predictor columns.
func (m *Fitted) Predict(f *dataset.Frame) ([]float64, error) {
	x, err := designMatrix(f, m.Formula)
	if err != nil {
		return nil, err
	}
	n := f.Len()
	beta := mat.NewVecDense(len(m.Coef), m.Coef)
	out := mat.NewVecDense(n, nil)
	out.MulVec(x, beta)
	pred := make([]float64, n)
	copy(pred, out.RawVector().Data)
	return pred, nil
}

// designMatrix builds [1 | predictors] for the formula.
func designMatrix(f *dataset.Frame, fm Formula) (*mat.Dense, error) {
	n := f.Len()
	p := len(fm.Predictors) + 1
	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
	}
	for j, name := range fm.Predictors {
		col, err := f.Floats(name)
		if err != nil {
			return nil, fmt.Errorf("regress: %s: %w", fm.Name, err)
		}
		for i := 0; i < n; i++ {
			x.Set(i, j+1, col[i])
		}
	}
	return x, nil
}
