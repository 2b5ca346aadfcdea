// Package regression removes a linear dependence on a reference index from
// every grid cell of a field.
//
// Each cell's time series y is fitted independently by ordinary least squares
// against the index x:
//
//	y(t) = intercept + slope * x(t) + residual(t)
//
// The fit uses only the time steps where both x and y are valid. The package
// produces an intercept, slope and correlation value per cell and a 3-D
// residual field with the same shape as the input.
//
// # Degenerate Cells
//
// A cell with fewer valid pairs than the minimum sample count (2 by default),
// or whose valid pairs all share the same index value, cannot be fitted. Its
// intercept, slope and correlation are missing and its residual is missing at
// every time step. This never fails the call: cells are independent and one
// degenerate cell must not abort the analysis of the whole field.
//
// A cell whose values are constant while the index varies has slope 0 and
// correlation 0.
//
// # Length Check
//
// Detrend rejects an index whose length differs from the field's time extent
// with errs.ErrLengthMismatch and returns no result.
//
// # Usage
//
//	gm, err := prep.FieldMean(tas, prep.WithLatWeights())
//	if err != nil {
//		return err
//	}
//	res, err := regression.Detrend(tos, gm)
//	if err != nil {
//		return err
//	}
//	anomalies := res.Residual
//
// # Performance
//
// Latitude rows are fitted concurrently with an errgroup bounded by
// runtime.GOMAXPROCS(0) or WithWorkers. Every worker writes only to its own
// rows of the output arrays and borrows its scratch slices from a pool.
package regression
