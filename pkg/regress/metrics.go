package regress

import "math"

func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

func MAE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		if d < 0 {
			d = -d
		}
		s += d
	}
	return s / n
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

func R2(yTrue, yPred []float64) float64 {
	m := 0.0
	for _, v := range yTrue {
		m += v
	}
	m /= float64(len(yTrue))
	ssTot := 0.0
	ssRes := 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
