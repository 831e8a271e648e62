package regress

import (
	"fmt"
	"strings"
)

// Formula names a linear model: a response field regressed on an ordered
// list of predictor fields, always with an intercept. A Formula never
// changes after it is defined.
type Formula struct {
	Name       string
	Response   string
	Predictors []string
}

// String renders the formula in the usual response ~ predictors notation.
func (f Formula) String() string {
	return fmt.Sprintf("%s ~ %s", f.Response, strings.Join(f.Predictors, " + "))
}
