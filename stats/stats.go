// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"fmt"
	"math"
)

// Result holds the outcome of a two-proportion significance test.
//
// Statistical edge cases (no visitors, zero standard error) never produce a
// Go error: they are encoded in Err with Significant=false so callers can
// still render a partial report. The numeric fields are nil in that case.
type Result struct {
	Significant        bool        `json:"significant"`
	PValue             *float64    `json:"p_value"`
	ZScore             *float64    `json:"z_score"`
	ConfidenceInterval *[2]float64 `json:"confidence_interval"`
	ControlRate        *float64    `json:"control_rate,omitempty"`
	VariantRate        *float64    `json:"variant_rate,omitempty"`
	Lift               *float64    `json:"lift"`
	ConfidenceLevel    float64     `json:"confidence_level,omitempty"`
	Err                string      `json:"error,omitempty"`
}

// Significance runs a two-tailed Z-test for the difference between two
// conversion proportions. confidenceLevel is the test's confidence
// (e.g. 0.95 for 95%).
//
// Rates, z-score, p-value, and confidence interval are rounded to 4 decimal
// places; lift to 2. The rounding is part of the result contract: report
// fixtures depend on it.
func Significance(controlConversions, controlVisitors, variantConversions, variantVisitors int, confidenceLevel float64) Result {
	if controlVisitors == 0 || variantVisitors == 0 {
		return Result{Err: "Insufficient data for statistical analysis"}
	}

	p1 := float64(controlConversions) / float64(controlVisitors)
	p2 := float64(variantConversions) / float64(variantVisitors)

	pPool := float64(controlConversions+variantConversions) / float64(controlVisitors+variantVisitors)
	se := math.Sqrt(pPool * (1 - pPool) * (1/float64(controlVisitors) + 1/float64(variantVisitors)))

	if se == 0 {
		return Result{Err: "Standard error is zero"}
	}

	zScore := (p2 - p1) / se
	pValue := 2 * (1 - normalCDF(math.Abs(zScore)))

	alpha := 1 - confidenceLevel
	significant := pValue < alpha

	// Confidence interval for the rate difference p2-p1.
	zCritical, err := inverseNormalCDF(1 - alpha/2)
	if err != nil {
		return Result{Err: err.Error()}
	}
	marginOfError := zCritical * se
	ci := [2]float64{
		roundTo(p2-p1-marginOfError, 4),
		roundTo(p2-p1+marginOfError, 4),
	}

	res := Result{
		Significant:        significant,
		PValue:             ptr(roundTo(pValue, 4)),
		ZScore:             ptr(roundTo(zScore, 4)),
		ConfidenceInterval: &ci,
		ControlRate:        ptr(roundTo(p1, 4)),
		VariantRate:        ptr(roundTo(p2, 4)),
		ConfidenceLevel:    confidenceLevel,
	}
	if p1 > 0 {
		res.Lift = ptr(roundTo((p2-p1)/p1*100, 2))
	}
	return res
}

// SampleSize returns the required number of subjects per variant to detect a
// relative effect of minimumDetectableEffect over baselineRate at the given
// power and two-tailed significance level.
func SampleSize(baselineRate, minimumDetectableEffect, power, significanceLevel float64) (int, error) {
	if baselineRate <= 0 || baselineRate >= 1 {
		return 0, fmt.Errorf("baseline rate must be between 0 and 1")
	}
	if minimumDetectableEffect <= 0 {
		return 0, fmt.Errorf("minimum detectable effect must be positive")
	}

	p1 := baselineRate
	p2 := baselineRate * (1 + minimumDetectableEffect)
	if p2 >= 1 {
		p2 = 0.99
	}

	pPool := (p1 + p2) / 2

	zAlpha, err := inverseNormalCDF(1 - significanceLevel/2)
	if err != nil {
		return 0, err
	}
	zBeta, err := inverseNormalCDF(power)
	if err != nil {
		return 0, err
	}

	numerator := zAlpha*math.Sqrt(2*pPool*(1-pPool)) + zBeta*math.Sqrt(p1*(1-p1)+p2*(1-p2))
	numerator *= numerator
	denominator := (p2 - p1) * (p2 - p1)

	return int(math.Ceil(numerator / denominator)), nil
}

// normalCDF is the standard normal cumulative distribution function.
func normalCDF(x float64) float64 {
	return (1.0 + math.Erf(x/math.Sqrt2)) / 2.0
}

// Coefficients for Acklam's rational approximation of the inverse normal
// CDF. Index 0 is unused so the indices match the published polynomials.
var (
	acklamA = [7]float64{0, -3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	acklamB = [6]float64{0, -5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01}
	acklamC = [7]float64{0, -7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	acklamD = [5]float64{0, 7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00}
)

// Break point between the tail and central approximation regions.
const acklamPLow = 0.02425

// inverseNormalCDF computes the standard normal quantile function using
// Acklam's piecewise rational approximation (~1e-9 absolute accuracy).
// The domain is the open interval (0, 1).
func inverseNormalCDF(p float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("p must be between 0 and 1")
	}
	if p == 0.5 {
		return 0, nil
	}

	a, b, c, d := acklamA, acklamB, acklamC, acklamD
	pHigh := 1 - acklamPLow

	switch {
	case p < acklamPLow:
		// Lower tail
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[1]*q+c[2])*q+c[3])*q+c[4])*q+c[5])*q + c[6]) /
			((((d[1]*q+d[2])*q+d[3])*q+d[4])*q + 1), nil
	case p <= pHigh:
		// Central region
		q := p - 0.5
		r := q * q
		return (((((a[1]*r+a[2])*r+a[3])*r+a[4])*r+a[5])*r + a[6]) * q /
			(((((b[1]*r+b[2])*r+b[3])*r+b[4])*r+b[5])*r + 1), nil
	default:
		// Upper tail
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[1]*q+c[2])*q+c[3])*q+c[4])*q+c[5])*q + c[6]) /
			((((d[1]*q+d[2])*q+d[3])*q+d[4])*q + 1), nil
	}
}

// roundTo rounds half away from zero to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}

func ptr(f float64) *float64 { return &f }
