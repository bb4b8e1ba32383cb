package normalize

import (
	"strconv"
	"strings"
)

// PadCode left-pads a worksheet line or column code to 5 digits. HCRIS
// codes are fixed-width but extract files frequently strip leading zeros;
// padding restores them rather than truncating.
func PadCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= 5 {
		return code
	}
	return strings.Repeat("0", 5-len(code)) + code
}

// CodeInt parses a padded code as an integer. Returns ok=false for codes
// with non-numeric characters (subscripted lines like "00101A"), which are
// excluded from roll-up rather than failing the run.
func CodeInt(code string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return 0, false
	}
	return n, true
}

// RollDown maps a numeric code to the nearest lower multiple of 100 and
// re-encodes it as a 5-digit string. Codes already on the rolled grid map
// to themselves, which makes roll-up idempotent.
func RollDown(code string) (string, bool) {
	n, ok := CodeInt(code)
	if !ok {
		return "", false
	}
	return FormatCode(n / 100 * 100), true
}

// FormatCode encodes a numeric code as a 5-digit zero-padded string.
func FormatCode(n int) string {
	return PadCode(strconv.Itoa(n))
}
