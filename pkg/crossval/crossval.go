// Package crossval estimates out-of-sample prediction error for a small
// set of candidate linear models by k-fold cross-validation.
package crossval

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kieramatiska/esm244-code1/pkg/dataset"
	"github.com/kieramatiska/esm244-code1/pkg/regress"
)

// ErrEmptyPartition is returned when a fold's training or held-out subset
// is empty, which means k was chosen inconsistently with the dataset size.
var ErrEmptyPartition = errors.New("crossval: empty fold partition")

// FoldAssignment maps each row index to a fold id in [1, k].
type FoldAssignment []int

// AssignFolds builds the repeating sequence 1..k truncated to n rows, then
// applies a uniform permutation drawn from an explicit source seeded with
// seed. The assignment is a pure function of (n, k, seed): the same inputs
// always reproduce the same folds, and fold sizes differ by at most one.
func AssignFolds(n, k int, seed int64) (FoldAssignment, error) {
	if n == 0 {
		return nil, errors.New("crossval: empty dataset")
	}
	if k < 2 {
		return nil, fmt.Errorf("crossval: k = %d, need at least 2 folds", k)
	}
	if k > n {
		return nil, fmt.Errorf("crossval: k = %d exceeds dataset size %d", k, n)
	}
	assign := make(FoldAssignment, n)
	for i := range assign {
		assign[i] = i%k + 1
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(n, func(i, j int) {
		assign[i], assign[j] = assign[j], assign[i]
	})
	return assign, nil
}

// FoldResult holds one fold's held-out RMSE per candidate. A candidate
// that could not be fit on this fold carries its error instead; the other
// candidates are unaffected.
type FoldResult struct {
	Fold int
	RMSE map[string]float64
	Errs map[string]error
}

// EvaluateFold trains every candidate on the rows assigned to other folds
// and scores it on the rows assigned to foldID. Fitted coefficients are
// local to this call and discarded once the RMSE is computed.
func EvaluateFold(f *dataset.Frame, assign FoldAssignment, foldID int, candidates []regress.Formula) (FoldResult, error) {
	res := FoldResult{
		Fold: foldID,
		RMSE: make(map[string]float64, len(candidates)),
		Errs: make(map[string]error),
	}
	if len(assign) != f.Len() {
		return res, fmt.Errorf("crossval: assignment covers %d rows, dataset has %d", len(assign), f.Len())
	}

	train := f.Filter(func(i int) bool { return assign[i] != foldID })
	test := f.Filter(func(i int) bool { return assign[i] == foldID })
	if train.Len() == 0 || test.Len() == 0 {
		return res, fmt.Errorf("crossval: fold %d: %w", foldID, ErrEmptyPartition)
	}

	for _, c := range candidates {
		fit, err := regress.Fit(train, c)
		if err != nil {
			res.Errs[c.Name] = fmt.Errorf("fold %d: %w", foldID, err)
			continue
		}
		pred, err := fit.Predict(test)
		if err != nil {
			res.Errs[c.Name] = fmt.Errorf("fold %d: %w", foldID, err)
			continue
		}
		actual, err := test.Floats(c.Response)
		if err != nil {
			res.Errs[c.Name] = fmt.Errorf("fold %d: %w", foldID, err)
			continue
		}
		res.RMSE[c.Name] = regress.RMSE(actual, pred)
	}
	return res, nil
}

// MeanRMSE reduces fold results to the arithmetic mean RMSE per candidate.
// A candidate is averaged over the folds it succeeded on; a candidate with
// no successful fold lands in the failed map instead, without touching the
// others. The reduction is order-independent.
func MeanRMSE(results []FoldResult, candidates []regress.Formula) (means map[string]float64, failed map[string]error) {
	sums := make(map[string]float64, len(candidates))
	counts := make(map[string]int, len(candidates))
	for _, r := range results {
		for name, v := range r.RMSE {
			sums[name] += v
			counts[name]++
		}
	}
	means = make(map[string]float64, len(candidates))
	failed = make(map[string]error)
	for _, c := range candidates {
		n := counts[c.Name]
		if n == 0 {
			var cause error
			for _, r := range results {
				if err, ok := r.Errs[c.Name]; ok {
					cause = err
					break
				}
			}
			failed[c.Name] = fmt.Errorf("crossval: candidate %q failed on every fold: %w", c.Name, cause)
			continue
		}
		means[c.Name] = sums[c.Name] / float64(n)
	}
	return means, failed
}

// Run assigns folds once, evaluates folds 1..k in order, and returns the
// mean held-out RMSE per candidate name. The error return covers
// structural problems only (bad k, empty partitions); per-candidate
// numerical failures come back in the failed map.
func Run(f *dataset.Frame, k int, seed int64, candidates []regress.Formula) (means map[string]float64, failed map[string]error, err error) {
	if len(candidates) == 0 {
		return nil, nil, errors.New("crossval: no candidate models")
	}
	assign, err := AssignFolds(f.Len(), k, seed)
	if err != nil {
		return nil, nil, err
	}
	results := make([]FoldResult, 0, k)
	for fold := 1; fold <= k; fold++ {
		r, err := EvaluateFold(f, assign, fold, candidates)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, r)
	}
	means, failed = MeanRMSE(results, candidates)
	return means, failed, nil
}
