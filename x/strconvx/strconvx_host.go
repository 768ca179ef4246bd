//go:build !(rp2040 || rp2350)

package strconvx

import "strconv"

// The goal is signature parity with strconv. Formatting delegates
// straight through; base-0 parsing detects only the 0b/0o/0x prefixes
// to match the MCU implementation (a bare leading zero stays decimal,
// unlike strconv's octal rule).

func Itoa(i int) string                  { return strconv.Itoa(i) }
func Atoi(s string) (int, error)         { return strconv.Atoi(s) }
func FormatInt(i int64, base int) string { return strconv.FormatInt(i, base) }
func FormatUint(u uint64, base int) string { return strconv.FormatUint(u, base) }

func splitBase(s string) (string, int) {
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B':
			return s[2:], 2
		case 'o', 'O':
			return s[2:], 8
		case 'x', 'X':
			return s[2:], 16
		}
	}
	return s, 10
}

func ParseInt(s string, base, bitSize int) (int64, error) {
	if base == 0 {
		rest, neg := s, false
		if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
			neg = rest[0] == '-'
			rest = rest[1:]
		}
		rest, base = splitBase(rest)
		if neg {
			rest = "-" + rest
		}
		s = rest
	}
	return strconv.ParseInt(s, base, bitSize)
}

func ParseUint(s string, base, bitSize int) (uint64, error) {
	if base == 0 {
		s, base = splitBase(s)
	}
	return strconv.ParseUint(s, base, bitSize)
}
func FormatFloat(f float64, fmt byte, prec, bitSize int) string {
	return strconv.FormatFloat(f, fmt, prec, bitSize)
}
func ParseFloat(s string, bitSize int) (float64, error) { return strconv.ParseFloat(s, bitSize) }
