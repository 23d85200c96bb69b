package strfn

import (
	"math"
	"strconv"
	"strings"
)

// Digits formats num with exactly width integer digits and, when decimals is
// not negative, exactly decimals fractional digits.
//
// Excess digits are truncated, never rounded: the integer part keeps its
// last width digits and the fraction keeps its first decimals digits. Both
// parts are then zero-padded. A negative decimals leaves the fraction as is,
// without trailing zeros. The sign is kept separately from the digits.
//
//	Digits(3, 2, 5.9999)  // "005.99"
//	Digits(2, -1, 1234.5) // "34.5"
//
// Non-finite input is returned in its usual text form.
func Digits(width, decimals int, num float64) string {
	switch {
	case math.IsNaN(num):
		return "NaN"

	case math.IsInf(num, 1):
		return "Infinity"

	case math.IsInf(num, -1):
		return "-Infinity"
	}

	neg := math.Signbit(num)
	if neg {
		num = -num
	}

	ip, fp, _ := strings.Cut(strconv.FormatFloat(num, 'f', -1, 64), ".")

	if width > 0 && len(ip) > width {
		ip = ip[len(ip)-width:]
	}

	if decimals >= 0 && len(fp) > decimals {
		fp = fp[:decimals]
	}

	ip = strings.TrimLeft(ip, "0")
	fp = strings.TrimRight(fp, "0")

	if pad := max(width, 1) - len(ip); pad > 0 {
		ip = strings.Repeat("0", pad) + ip
	}

	if pad := decimals - len(fp); pad > 0 {
		fp += strings.Repeat("0", pad)
	}

	s := ip
	if fp != "" {
		s += "." + fp
	}

	if neg && strings.Trim(s, "0.") != "" {
		s = "-" + s
	}

	return s
}

// Ordinal returns the English ordinal suffix for n: "st", "nd", "rd" or
// "th". Values whose last two digits are 4 through 20, and any non-integer,
// take "th".
func Ordinal(n float64) string {
	if n != math.Trunc(n) || math.IsInf(n, 0) {
		return "th"
	}

	n = math.Abs(n)

	if r := math.Mod(n, 100); r >= 4 && r <= 20 {
		return "th"
	}

	switch math.Mod(n, 10) {
	case 1:
		return "st"

	case 2:
		return "nd"

	case 3:
		return "rd"

	default:
		return "th"
	}
}

// RoundHalfUp rounds x to the nearest integer, with halves rounded toward
// positive infinity.
func RoundHalfUp(x float64) float64 {
	r := math.Round(x)
	if x < 0 && x-r == 0.5 {
		r++
	}

	return r
}

// Round rounds num to decimals fractional digits, with halves rounded away
// from zero on the decimal representation of num. Zero or negative decimals
// and non-finite input fall back to [RoundHalfUp].
func Round(num float64, decimals int) float64 {
	if decimals <= 0 || math.IsNaN(num) || math.IsInf(num, 0) {
		return RoundHalfUp(num)
	}

	neg := num < 0
	if neg {
		num = -num
	}

	ip, fp, _ := strings.Cut(strconv.FormatFloat(num, 'f', -1, 64), ".")
	if len(fp) <= decimals {
		if neg {
			return -num
		}

		return num
	}

	up := fp[decimals] >= '5'
	digits := []byte(ip + fp[:decimals])

	if up {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] < '9' {
				digits[i]++

				break
			}

			digits[i] = '0'
		}

		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}

	split := len(digits) - decimals
	out, _ := strconv.ParseFloat(string(digits[:split])+"."+string(digits[split:]), 64)

	if neg {
		out = -out
	}

	return out
}
