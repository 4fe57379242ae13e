package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrEmptyInput indicates a statistic was requested over zero observations.
	ErrEmptyInput = errors.New("empty input")
	// ErrDivisionByZero indicates the statistic's denominator is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrLengthMismatch indicates a paired operation received samples of different lengths.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrOutOfRange indicates the requested order statistic does not exist in the sample.
	ErrOutOfRange = errors.New("index out of range")
	// ErrOverflow indicates the result is too large to represent as a float64.
	ErrOverflow = errors.New("numeric overflow")
)

// MedianPolicy selects which middle elements are averaged for even-length samples.
type MedianPolicy int

const (
	// MedianMidpoint averages the two true middle elements, indices n/2-1 and n/2.
	MedianMidpoint MedianPolicy = iota
	// MedianLegacy averages indices n/2 and n/2+1. Kept for comparing against
	// reports produced before the midpoint fix.
	MedianLegacy
)

func (p MedianPolicy) String() string {
	switch p {
	case MedianLegacy:
		return "legacy"
	default:
		return "midpoint"
	}
}

// ParseMedianPolicy accepts "midpoint" (or "" for the default) and "legacy".
func ParseMedianPolicy(s string) (MedianPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "midpoint", "standard":
		return MedianMidpoint, nil
	case "legacy":
		return MedianLegacy, nil
	default:
		return MedianMidpoint, fmt.Errorf("unknown median policy: %s (use midpoint or legacy)", s)
	}
}

// Sum returns the arithmetic total of data. The sum of an empty sample is 0.
func Sum(data []float64) float64 {
	total := 0.0
	for _, v := range data {
		total += v
	}
	return total
}

// Mean returns Sum(data)/len(data).
func Mean(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("mean: %w: %w", ErrEmptyInput, ErrDivisionByZero)
	}
	scaled, exp := normalize(data)
	return math.Ldexp(Sum(scaled)/float64(len(data)), exp), nil
}

// Median returns the middle value of a sorted copy of data; data itself is left untouched.
func Median(data []float64, policy MedianPolicy) (float64, error) {
	n := len(data)
	if n == 0 {
		return 0, fmt.Errorf("median: %w", ErrEmptyInput)
	}
	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2], nil
	}
	lo, hi := n/2-1, n/2
	if policy == MedianLegacy {
		lo, hi = n/2, n/2+1
	}
	if hi >= n {
		return 0, fmt.Errorf("median (%s) of %d values: %w", policy, n, ErrOutOfRange)
	}
	return (sorted[lo] + sorted[hi]) / 2, nil
}

// Range returns max(data) - min(data).
func Range(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("range: %w", ErrEmptyInput)
	}
	low, high := data[0], data[0]
	for _, v := range data {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	r := high - low
	if math.IsInf(r, 0) {
		return 0, fmt.Errorf("range: %w", ErrOverflow)
	}
	return r, nil
}

// Variance returns the Bessel-corrected sample variance of data.
func Variance(data []float64) (float64, error) {
	v, err := Covariance(data, data)
	if err != nil {
		return 0, fmt.Errorf("variance: %w", err)
	}
	return v, nil
}

// Covariance returns the sample covariance Σ(x-x̄)(y-ȳ)/(n-1).
func Covariance(x, y []float64) (float64, error) {
	if err := checkPaired(x, y); err != nil {
		return 0, fmt.Errorf("covariance: %w", err)
	}
	n := len(x)
	if n < 2 {
		return 0, fmt.Errorf("covariance of %d observation: %w", n, ErrDivisionByZero)
	}
	xs, xexp := normalize(x)
	ys, yexp := normalize(y)
	sxy, _, _ := deviations(xs, ys)
	c := math.Ldexp(sxy/float64(n-1), xexp+yexp)
	if math.IsInf(c, 0) || math.IsNaN(c) {
		return 0, fmt.Errorf("covariance: %w", ErrOverflow)
	}
	return c, nil
}

// Correlation returns the Pearson correlation coefficient of x and y. The
// denominator uses the uncorrected sums of squared deviations.
func Correlation(x, y []float64) (float64, error) {
	if err := checkPaired(x, y); err != nil {
		return 0, fmt.Errorf("correlation: %w", err)
	}
	if constant(x) || constant(y) {
		return 0, fmt.Errorf("correlation: constant variable: %w", ErrDivisionByZero)
	}
	// r is scale-free, so the exponents from normalize are dropped.
	xs, _ := normalize(x)
	ys, _ := normalize(y)
	sxy, sxx, syy := deviations(xs, ys)
	denom := math.Sqrt(sxx) * math.Sqrt(syy)
	if denom == 0 {
		return 0, fmt.Errorf("correlation: constant variable: %w", ErrDivisionByZero)
	}
	r := sxy / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, nil
}

func checkPaired(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return ErrEmptyInput
	}
	return nil
}

// constant reports whether every element equals the first; data is non-empty.
func constant(data []float64) bool {
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}

// normalize divides data by the power of two at or above its largest
// magnitude, so every returned value lies in [-1, 1]. Scaling by a power of
// two is exact; data[i] == math.Ldexp(out[i], exp).
func normalize(data []float64) (out []float64, exp int) {
	m := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	if m == 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return data, 0
	}
	_, exp = math.Frexp(m)
	out = make([]float64, len(data))
	for i, v := range data {
		out[i] = math.Ldexp(v, -exp)
	}
	return out, exp
}

// deviations returns Σ(x-x̄)(y-ȳ), Σ(x-x̄)² and Σ(y-ȳ)². Callers guarantee
// len(x) == len(y) > 0.
func deviations(x, y []float64) (sxy, sxx, syy float64) {
	n := float64(len(x))
	xm := Sum(x) / n
	ym := Sum(y) / n
	for i := range x {
		dx := x[i] - xm
		dy := y[i] - ym
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy, sxx, syy
}
