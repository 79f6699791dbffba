// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package relations

import "math"

const (
	e  = math.E
	pi = math.Pi
)

// formula computes a relation at term count n. Closed forms ignore n.
type formula func(n int) float64

// harmonicExponentialBridge is R1: Σ_{k=1}^{n} (e^(π/k) − π^(e/k)) / k².
func harmonicExponentialBridge(n int) float64 {
	sum := 0.0
	for k := 1; k <= n; k++ {
		fk := float64(k)
		sum += (math.Exp(pi/fk) - math.Pow(pi, e/fk)) / (fk * fk)
	}
	return sum
}

// alternatingNestedTransform is R2: Π_{k=1}^{n} (1 + (−1)^k (eπ)^(−k)).
func alternatingNestedTransform(n int) float64 {
	prod := 1.0
	sign := -1.0
	for k := 1; k <= n; k++ {
		prod *= 1 + sign*math.Pow(e*pi, -float64(k))
		sign = -sign
	}
	return prod
}

// logarithmicSpiralRatio is R3: ln(e^π + π^e) / √(e² + π²).
func logarithmicSpiralRatio(int) float64 {
	return math.Log(math.Exp(pi)+math.Pow(pi, e)) / math.Sqrt(e*e+pi*pi)
}

// reciprocalFactorialBlend is R4: Σ_{k=0}^{n} (e^k − π^k) / (k! (e+π)^k).
//
// The ratios (e/(e+π))^k / k! and (π/(e+π))^k / k! are carried from one
// term to the next. Forming k! and π^k separately overflows float64 past
// k=170 and k≈620, turning every later term into NaN.
func reciprocalFactorialBlend(n int) float64 {
	a := e / (e + pi)
	b := pi / (e + pi)
	ta, tb := 1.0, 1.0 // k = 0: 0!=1, x^0=1
	sum := ta - tb
	for k := 1; k <= n; k++ {
		fk := float64(k)
		ta *= a / fk
		tb *= b / fk
		sum += ta - tb
	}
	return sum
}

// sinusoidalExponentialMesh is R5: ∫₀¹ sin(πx) e^(−ex) dx by the midpoint
// rule with n subintervals.
func sinusoidalExponentialMesh(n int) float64 {
	sum := 0.0
	dx := 1 / float64(n)
	for i := 0; i < n; i++ {
		x := (float64(i) + 0.5) * dx
		sum += math.Sin(pi*x) * math.Exp(-e*x) * dx
	}
	return sum
}

// continuedFractionHybrid is R6: e/(π + e/(π + …)) truncated to n levels.
func continuedFractionHybrid(n int) float64 {
	result := 0.0
	for i := 0; i < n; i++ {
		result = e / (pi + result)
	}
	return result
}

// hyperbolicCircularDance is R7: Σ_{k=1}^{n} sinh(e/k) sin(π/k) / k.
func hyperbolicCircularDance(n int) float64 {
	sum := 0.0
	for k := 1; k <= n; k++ {
		fk := float64(k)
		sum += math.Sinh(e/fk) * math.Sin(pi/fk) / fk
	}
	return sum
}

// nestedExponentialQuotient is R8: (e^(e^(1/π)) − π^(π^(1/e))) / (eπ).
func nestedExponentialQuotient(int) float64 {
	return (math.Exp(math.Exp(1/pi)) - math.Pow(pi, math.Pow(pi, 1/e))) / (e * pi)
}

// exponentialLogarithmicCascade is R9: Σ_{k=1}^{n} e^(−k) ln(kπ) / k^1.5.
func exponentialLogarithmicCascade(n int) float64 {
	sum := 0.0
	for k := 1; k <= n; k++ {
		fk := float64(k)
		sum += math.Exp(-fk) * math.Log(fk*pi) / math.Pow(fk, 1.5)
	}
	return sum
}

// alternatingPowerSeriesBlend is R10: Σ_{k=1}^{n} (−1)^k (e^k + π^k) / (k! k).
//
// Like R4, e^k/k! and π^k/k! are updated incrementally so the sum stays
// finite for every n in range.
func alternatingPowerSeriesBlend(n int) float64 {
	sum := 0.0
	ta, tb := 1.0, 1.0
	sign := -1.0
	for k := 1; k <= n; k++ {
		fk := float64(k)
		ta *= e / fk
		tb *= pi / fk
		sum += sign * (ta + tb) / fk
		sign = -sign
	}
	return sum
}

// trigonometricHyperbolicQuotient is R11:
// (sin e sinh π + cos e cosh π) / (tan(π/4) tanh(e/π)).
func trigonometricHyperbolicQuotient(int) float64 {
	numerator := math.Sin(e)*math.Sinh(pi) + math.Cos(e)*math.Cosh(pi)
	denominator := math.Tan(pi/4) * math.Tanh(e/pi)
	return numerator / denominator
}

// weightedReciprocalProduct is R12: Π_{k=2}^{n} (1 − 1/(k^e + k^π)).
func weightedReciprocalProduct(n int) float64 {
	prod := 1.0
	for k := 2; k <= n; k++ {
		fk := float64(k)
		prod *= 1 - 1/(math.Pow(fk, e)+math.Pow(fk, pi))
	}
	return prod
}
