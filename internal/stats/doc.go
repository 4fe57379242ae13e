// Package stats implements the descriptive statistics reported by dataexplore.
//
// Every function is a pure reduction over a sample ([]float64) and never
// modifies its input. Failures are reported through the sentinel errors
// ErrEmptyInput, ErrDivisionByZero, ErrLengthMismatch and ErrOutOfRange,
// which callers match with errors.Is.
//
// Covariance divides by n-1 while Correlation uses the uncorrected sums of
// squared deviations in its denominator. Both forms are what earlier reports
// were produced with, so they are kept as-is.
package stats
