package object

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Floats travel through integer registers as a fixed-point pair: the integer
// part, truncated toward zero, and the fractional part scaled by FracScale.
// Both words carry the sign of the value.
const (
	FracDigits = 6
	FracScale  = 1_000_000
)

// SplitFloat decomposes f into its integer and scaled fractional parts. The
// fraction is rounded half away from zero at the seventh decimal digit, and a
// rounding carry moves into the integer part.
func SplitFloat(f float64) (ipart, frac int64, err error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, 0, fmt.Errorf("float %v has no fixed-point form", f)
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, 0, fmt.Errorf("float %v overflows the integer part", f)
	}
	whole := math.Trunc(f)
	ipart = int64(whole)
	frac = int64(math.Round((f - whole) * FracScale))
	switch {
	case frac >= FracScale:
		ipart++
		frac -= FracScale
	case frac <= -FracScale:
		ipart--
		frac += FracScale
	}
	return ipart, frac, nil
}

// JoinFloat rebuilds a float from the pair produced by SplitFloat.
func JoinFloat(ipart, frac int64) float64 {
	return float64(ipart) + float64(frac)/FracScale
}

// FormatFixed renders a fixed-point pair as decimal text. Trailing zeros of
// the fraction are dropped but at least one fractional digit is kept, so
// 3.14 prints as "3.14" and 5 as "5.0".
func FormatFixed(ipart, frac int64) string {
	negative := ipart < 0 || frac < 0
	whole := absUint(ipart)
	fraction := absUint(frac)
	whole += fraction / FracScale
	fraction %= FracScale

	digits := strings.TrimRight(fmt.Sprintf("%0*d", FracDigits, fraction), "0")
	if digits == "" {
		digits = "0"
	}
	var b strings.Builder
	if negative && (whole != 0 || fraction != 0) {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatUint(whole, 10))
	b.WriteByte('.')
	b.WriteString(digits)
	return b.String()
}

func absUint(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}
