package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// nonNumericHours are workshop placeholders that carry no hour reading
var nonNumericHours = map[string]struct{}{
	"REPARADO":         {},
	"SIN INFORMACIÓN":  {},
	"Sin información":  {},
	"SIN INFORMACION.": {},
	"S/I":              {},
	"Sin Información":  {},
	"No aplica":        {},
	"NUEVO":            {},
	"NUEVA":            {},
	"PRUEBAS":          {},
	"NO INFORMADO":     {},
}

var (
	hoursSuffixRegex   = regexp.MustCompile(`\s+(hrs|Hrs)(\s+aprox)?$`)
	pruebasSuffixRegex = regexp.MustCompile(`\s*/\s*PRUEBAS.*$`)
	parenthesesRegex   = regexp.MustCompile(`\s*\([^)]*\)`)
	rangeRegex         = regexp.MustCompile(`^([0-9][0-9.,]*)\s*-\s*[0-9][0-9.,]*$`)
	europeanRegex      = regexp.MustCompile(`^[0-9]{1,3}(\.[0-9]{3})+,[0-9]+$`)
	thousandsDotRegex  = regexp.MustCompile(`\.[0-9]{3,}`)
	allZerosRegex      = regexp.MustCompile(`^0+$`)
)

// ParseComponentHours cleans a workshop hour reading and casts it to float.
// A nil value means the reading is absent. warn is true when a non-empty reading could not be parsed.
func ParseComponentHours(raw string) (value *float64, warn bool) {
	s := strings.TrimSpace(raw)
	if _, ok := nonNumericHours[s]; ok {
		return nil, false
	}

	s = pruebasSuffixRegex.ReplaceAllString(s, "")
	s = parenthesesRegex.ReplaceAllString(s, "")
	s = hoursSuffixRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if m := rangeRegex.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	switch {
	case europeanRegex.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsDotRegex.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	if allZerosRegex.MatchString(s) {
		s = "0"
	}
	if s == "" {
		return nil, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil, true
	}
	return &f, false
}
