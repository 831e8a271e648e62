package crossval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieramatiska/esm244-code1/pkg/dataset"
	"github.com/kieramatiska/esm244-code1/pkg/regress"
)

// syntheticFrame builds y = 2*x1 + noise with an unrelated x2 column.
func syntheticFrame(t *testing.T, n int, rngSeed int64) *dataset.Frame {
	t.Helper()
	r := rand.New(rand.NewSource(rngSeed))
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = r.Float64() * 10
		x2[i] = r.NormFloat64()
		y[i] = 2*x1[i] + r.NormFloat64()
	}
	f, err := dataset.New(
		dataset.Column{Name: "y", Kind: dataset.Numeric, Floats: y},
		dataset.Column{Name: "x1", Kind: dataset.Numeric, Floats: x1},
		dataset.Column{Name: "x2", Kind: dataset.Numeric, Floats: x2},
	)
	require.NoError(t, err)
	return f
}

func TestAssignFoldsPartition(t *testing.T) {
	assign, err := AssignFolds(103, 4, 1)
	require.NoError(t, err)
	require.Len(t, assign, 103)

	sizes := make(map[int]int)
	for _, fold := range assign {
		require.GreaterOrEqual(t, fold, 1)
		require.LessOrEqual(t, fold, 4)
		sizes[fold]++
	}
	require.Len(t, sizes, 4)
	min, max := 103, 0
	for _, s := range sizes {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	assert.LessOrEqual(t, max-min, 1)
}

func TestAssignFoldsEvenSplit(t *testing.T) {
	// 100 rows over 10 folds must give exactly 10 rows per fold.
	assign, err := AssignFolds(100, 10, 2021)
	require.NoError(t, err)
	sizes := make(map[int]int)
	for _, fold := range assign {
		sizes[fold]++
	}
	require.Len(t, sizes, 10)
	for fold := 1; fold <= 10; fold++ {
		assert.Equal(t, 10, sizes[fold])
	}
}

func TestAssignFoldsDeterministic(t *testing.T) {
	a, err := AssignFolds(57, 5, 99)
	require.NoError(t, err)
	b, err := AssignFolds(57, 5, 99)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := AssignFolds(57, 5, 100)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestAssignFoldsValidation(t *testing.T) {
	_, err := AssignFolds(0, 2, 1)
	assert.Error(t, err)
	_, err = AssignFolds(10, 1, 1)
	assert.Error(t, err)
	_, err = AssignFolds(10, 11, 1)
	assert.Error(t, err)
	_, err = AssignFolds(10, 10, 1)
	assert.NoError(t, err)
}

func TestFoldPartitionsDisjoint(t *testing.T) {
	f := syntheticFrame(t, 40, 3)
	assign, err := AssignFolds(f.Len(), 4, 7)
	require.NoError(t, err)

	for fold := 1; fold <= 4; fold++ {
		train := f.Filter(func(i int) bool { return assign[i] != fold })
		test := f.Filter(func(i int) bool { return assign[i] == fold })
		assert.Equal(t, f.Len(), train.Len()+test.Len())
		assert.NotZero(t, test.Len())
	}
}

func TestEvaluateFold(t *testing.T) {
	f := syntheticFrame(t, 50, 11)
	assign, err := AssignFolds(f.Len(), 5, 8)
	require.NoError(t, err)

	candidates := []regress.Formula{
		{Name: "f1", Response: "y", Predictors: []string{"x1"}},
		{Name: "f2", Response: "y", Predictors: []string{"x1", "x2"}},
	}
	res, err := EvaluateFold(f, assign, 1, candidates)
	require.NoError(t, err)
	assert.Empty(t, res.Errs)
	require.Contains(t, res.RMSE, "f1")
	require.Contains(t, res.RMSE, "f2")
	assert.Greater(t, res.RMSE["f1"], 0.0)
	assert.Greater(t, res.RMSE["f2"], 0.0)
}

func TestEvaluateFoldIsolatesCandidateFailure(t *testing.T) {
	f := syntheticFrame(t, 30, 5)
	assign, err := AssignFolds(f.Len(), 3, 2)
	require.NoError(t, err)

	candidates := []regress.Formula{
		{Name: "good", Response: "y", Predictors: []string{"x1"}},
		{Name: "bad", Response: "y", Predictors: []string{"x1", "missing"}},
	}
	res, err := EvaluateFold(f, assign, 2, candidates)
	require.NoError(t, err)
	assert.Contains(t, res.RMSE, "good")
	assert.NotContains(t, res.RMSE, "bad")
	assert.Error(t, res.Errs["bad"])
}

func TestEvaluateFoldBadAssignmentLength(t *testing.T) {
	f := syntheticFrame(t, 20, 1)
	_, err := EvaluateFold(f, make(FoldAssignment, 5), 1, []regress.Formula{
		{Name: "f1", Response: "y", Predictors: []string{"x1"}},
	})
	require.Error(t, err)
}

func TestEvaluateFoldEmptyPartition(t *testing.T) {
	f := syntheticFrame(t, 20, 1)
	assign, err := AssignFolds(f.Len(), 4, 3)
	require.NoError(t, err)

	// Fold 9 never occurs, so its held-out partition is empty.
	_, err = EvaluateFold(f, assign, 9, []regress.Formula{
		{Name: "f1", Response: "y", Predictors: []string{"x1"}},
	})
	require.ErrorIs(t, err, ErrEmptyPartition)
}

func TestMeanRMSEOrderIndependent(t *testing.T) {
	candidates := []regress.Formula{{Name: "m"}}
	results := []FoldResult{
		{Fold: 1, RMSE: map[string]float64{"m": 1}},
		{Fold: 2, RMSE: map[string]float64{"m": 2}},
		{Fold: 3, RMSE: map[string]float64{"m": 6}},
	}
	means, failed := MeanRMSE(results, candidates)
	require.Empty(t, failed)
	assert.InDelta(t, 3.0, means["m"], 1e-12)

	reversed := []FoldResult{results[2], results[0], results[1]}
	means2, _ := MeanRMSE(reversed, candidates)
	assert.Equal(t, means["m"], means2["m"])
}

func TestMeanRMSEFailedCandidate(t *testing.T) {
	candidates := []regress.Formula{{Name: "ok"}, {Name: "broken"}}
	results := []FoldResult{
		{Fold: 1, RMSE: map[string]float64{"ok": 2}, Errs: map[string]error{"broken": assert.AnError}},
		{Fold: 2, RMSE: map[string]float64{"ok": 4}, Errs: map[string]error{"broken": assert.AnError}},
	}
	means, failed := MeanRMSE(results, candidates)
	assert.InDelta(t, 3.0, means["ok"], 1e-12)
	require.Contains(t, failed, "broken")
	assert.ErrorIs(t, failed["broken"], assert.AnError)
}

func TestRun(t *testing.T) {
	f := syntheticFrame(t, 100, 17)
	candidates := []regress.Formula{
		{Name: "f1", Response: "y", Predictors: []string{"x1"}},
		{Name: "f2", Response: "y", Predictors: []string{"x1", "x2"}},
	}
	means, failed, err := Run(f, 10, 42, candidates)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Contains(t, means, "f1")
	require.Contains(t, means, "f2")

	// x2 carries no signal, so the larger model must not look
	// substantially better out of sample.
	ratio := means["f2"] / means["f1"]
	assert.Greater(t, ratio, 0.5)
	assert.Less(t, ratio, 1.5)
}

func TestRunDeterministic(t *testing.T) {
	f := syntheticFrame(t, 60, 23)
	candidates := []regress.Formula{
		{Name: "f1", Response: "y", Predictors: []string{"x1"}},
	}
	a, _, err := Run(f, 6, 7, candidates)
	require.NoError(t, err)
	b, _, err := Run(f, 6, 7, candidates)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunNoCandidates(t *testing.T) {
	f := syntheticFrame(t, 20, 29)
	_, _, err := Run(f, 4, 1, nil)
	require.Error(t, err)
}
