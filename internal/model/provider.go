package model

import (
	"strconv"
	"strings"
)

// PadProviderNumber left-pads a CCN to 6 digits. CMS provider numbers are
// numeric but source extracts sometimes drop leading zeros.
func PadProviderNumber(ccn string) string {
	ccn = strings.TrimSpace(ccn)
	if len(ccn) >= 6 {
		return ccn
	}
	return strings.Repeat("0", 6-len(ccn)) + ccn
}

// StateCode returns the two-digit state prefix of a padded CCN.
func StateCode(providerNumber string) string {
	p := PadProviderNumber(providerNumber)
	return p[:2]
}

// hospitalTypeRange maps a CCN numeric-suffix range to a facility
// classification. Ranges follow the CMS provider-number assignment table.
type hospitalTypeRange struct {
	Low, High int
	Name      string
}

var hospitalTypeRanges = []hospitalTypeRange{
	{1, 879, "Short_Term"},
	{1300, 1399, "Critical_Access"},
	{2000, 2299, "Long_Term"},
	{3025, 3099, "Rehabilitation"},
	{3300, 3399, "Childrens"},
	{4000, 4499, "Psychiatric"},
}

// HospitalType classifies a provider by the numeric range of the last four
// digits of its CCN. Providers outside every known range are "Other" so the
// benchmark engine never drops them from the National level.
func HospitalType(providerNumber string) string {
	p := PadProviderNumber(providerNumber)
	suffix, err := strconv.Atoi(p[2:])
	if err != nil {
		return "Other"
	}
	for _, r := range hospitalTypeRanges {
		if suffix >= r.Low && suffix <= r.High {
			return r.Name
		}
	}
	return "Other"
}
