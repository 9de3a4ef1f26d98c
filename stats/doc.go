// Copyright (c) 2026 kiryuchi10.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stats provides the statistical math for experiment analysis.

Significance runs a two-proportion Z-test between a control and a variant
and reports p-value, Z-score, lift, and a confidence interval for the rate
difference. Degenerate inputs (no visitors, zero standard error) come back
as a Result carrying an error string instead of numbers, so callers can
embed them in reports without special-casing.

SampleSize computes the required per-variant sample size for detecting a
relative effect at a given power and significance level, using the standard
two-proportion formula.

The normal CDF is built on math.Erf. Its inverse uses the Acklam rational
approximation, accurate to roughly 1.15e-9 over (0, 1), which is far more
precision than an experiment dashboard needs.
*/
package stats
