package regression

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Line is a fitted straight line y = Intercept + Slope*x.
type Line struct {
	Intercept float64
	Slope     float64
	// R is the Pearson correlation coefficient between x and y.
	R float64
	// N is the number of samples used for the fit.
	N int
}

// Estimate returns the fitted value at x.
func (l Line) Estimate(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// RSquared returns the coefficient of determination.
func (l Line) RSquared() float64 {
	return l.R * l.R
}

// String returns a human-readable form of the line.
func (l Line) String() string {
	return fmt.Sprintf("y = %.4g + %.4g*x (r=%.4f, n=%d)", l.Intercept, l.Slope, l.R, l.N)
}

// FitLine fits y against x by ordinary least squares.
//
// x and y must have equal length and hold only valid values. The boolean is
// false when the line is undefined: fewer than two samples, mismatched
// lengths, or a constant x. A constant y yields slope 0 and R 0.
//
// Parameters:
//   - x: Regressor values
//   - y: Response values
//
// Returns:
//   - Line: The fitted line
//   - bool: Whether a line could be fitted
func FitLine(x, y []float64) (Line, bool) {
	n := len(x)
	if n < 2 || len(y) != n || constant(x) {
		return Line{}, false
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	line := Line{Intercept: alpha, Slope: beta, N: n}
	if constant(y) {
		line.Intercept, line.Slope = y[0], 0
		return line, true
	}
	line.R = stat.Correlation(x, y, nil)

	return line, true
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}

	return true
}
