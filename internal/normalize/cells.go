package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var bitRangeRe = regexp.MustCompile(`^\[?\s*(\d+)\s*(?::\s*(\d+)\s*)?\]?$`)

// ParseHex accepts only prefix followed by hex digits. The prefix match is
// case-sensitive: "0X10" is rejected just like "10".
func ParseHex(text, prefix string) (uint64, error) {
	if !strings.HasPrefix(text, prefix) {
		return 0, fmt.Errorf("must start with %q", prefix)
	}
	digits := text[len(prefix):]
	if digits == "" {
		return 0, fmt.Errorf("no hex digits after %q", prefix)
	}
	for _, r := range digits {
		if !isHexDigit(r) {
			return 0, fmt.Errorf("%q is not a hex digit", r)
		}
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("does not fit in 64 bits")
	}
	return v, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// parseBitRange reads "[hi:lo]", "hi:lo" or a single bit "n".
func parseBitRange(text string) (lsb, width int, err error) {
	m := bitRangeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, fmt.Errorf("expected [msb:lsb] or a single bit index")
	}
	hi, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, err
	}
	lo := hi
	if m[2] != "" {
		if lo, err = strconv.Atoi(m[2]); err != nil {
			return 0, 0, err
		}
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("msb %d is below lsb %d", hi, lo)
	}
	return lo, hi - lo + 1, nil
}

// ParseUint reads a decimal, 0x, 0b or 0o prefixed integer. A leading zero
// alone does not switch to octal.
func ParseUint(text string) (uint64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), "_", "")
	base := 10
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base, s = 16, s[2:]
		case 'b', 'B':
			base, s = 2, s[2:]
		case 'o', 'O':
			base, s = 8, s[2:]
		}
	}
	return strconv.ParseUint(s, base, 64)
}

// parsePositive reads a positive decimal integer such as a width.
func parsePositive(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return v, nil
}

// isNullText matches the spellings spreadsheets use for "no value".
func isNullText(text string) bool {
	return text == "" || strings.EqualFold(text, "null") || strings.EqualFold(text, "none") || text == "-"
}
