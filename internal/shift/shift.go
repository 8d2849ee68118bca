package shift

import (
	"time"

	"github.com/estilistapro/estilista/internal/week"
)

// Type identifies the work shift for a given week.
type Type string

const (
	Morning   Type = "morning"
	Afternoon Type = "afternoon"
)

// Valid reports whether t is one of the known shift values.
func (t Type) Valid() bool {
	return t == Morning || t == Afternoon
}

// Opposite returns the other shift.
func Opposite(t Type) Type {
	if t == Morning {
		return Afternoon
	}
	return Morning
}

// Resolve determines the active shift for ref. A manual override always
// wins. Otherwise shifts alternate weekly by parity of whole weeks since
// patternStart: even weeks are morning, odd weeks afternoon. Week distance
// is absolute, so ref before patternStart still resolves cleanly.
func Resolve(ref, patternStart time.Time, override *Type) Type {
	if override != nil && override.Valid() {
		return *override
	}
	if week.Between(patternStart, ref)%2 == 0 {
		return Morning
	}
	return Afternoon
}
