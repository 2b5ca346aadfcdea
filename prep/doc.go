// Package prep provides the preprocessing steps that precede the EOF and
// regression analyses: annual means, climatologies, anomalies and
// spatial (field) means.
//
// All functions are NaN-aware: a missing value never contributes to a mean,
// and a mean over no valid value is missing.
package prep
