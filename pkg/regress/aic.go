package regress

import "math"

// AIC computes the Akaike information criterion for an OLS fit under the
// Gaussian likelihood, matching R's AIC() for lm objects: the parameter
// count includes the coefficients and the residual variance.
func AIC(m *Fitted) float64 {
	n := float64(m.N)
	k := float64(len(m.Coef) + 1)
	logLik := -0.5 * n * (math.Log(2*math.Pi) + math.Log(m.RSS/n) + 1)
	return 2*k - 2*logLik
}
