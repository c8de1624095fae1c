package normalize

import "strings"

// invalidComponentSerials are placeholders typed into the serial field when the real serial is unknown
var invalidComponentSerials = map[string]struct{}{
	"S/I":       {},
	"":          {},
	".":         {},
	"SIN":       {},
	"N/S":       {},
	"NS":        {},
	"AF":        {},
	"SN":        {},
	"1":         {},
	"Sin":       {},
	"KRCC-1":    {},
	"PENDIENTE": {},
	"NO":        {},
	"SI":        {},
	"N/A":       {},
	"0":         {},
}

// IsValidComponentSerial reports whether serial identifies a physical component
func IsValidComponentSerial(serial string) bool {
	_, invalid := invalidComponentSerials[strings.TrimSpace(serial)]
	return !invalid
}
