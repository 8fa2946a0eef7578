package artifact

import (
	"fmt"

	"github.com/egresslabs/egress/internal/canon"
)

// Kind selects the formatting strategy for an entry value.
//
// The set is closed: the three kinds below are the only valid values, and
// the string forms are part of the persisted file format.
type Kind string

const (
	// KindSerialize renders the value as canonical JSON.
	KindSerialize Kind = "serialize"

	// KindDebug renders an implementation-oriented Go-syntax dump.
	KindDebug Kind = "debug"

	// KindDisplay renders the value's user-facing textual form.
	KindDisplay Kind = "display"
)

// Valid reports whether k is one of the three formatting kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSerialize, KindDebug, KindDisplay:
		return true
	}
	return false
}

// Format renders value as a canonical string under the given kind.
//
// Format is pure: the same value and kind always produce the same string,
// which is what makes byte-exact regression comparison meaningful. Map
// renderings are deterministic under every kind (canonical JSON sorts
// keys; the fmt package sorts map keys since Go 1.12).
//
// Returns a format Error (ErrCodeFormat) when the value has no rendering
// under the requested kind: unserializable values such as channels or
// functions for KindSerialize, and values with no textual form for
// KindDisplay.
func Format(value any, kind Kind) (string, error) {
	switch kind {
	case KindSerialize:
		data, err := canon.Marshal(value)
		if err != nil {
			return "", newFormatError(kind, err)
		}
		return string(data), nil

	case KindDebug:
		return fmt.Sprintf("%#v", value), nil

	case KindDisplay:
		return formatDisplay(value)

	default:
		return "", newFormatError(kind, fmt.Errorf("unknown kind %q", kind))
	}
}

// formatDisplay renders the user-facing form of a value.
//
// Strings, fmt.Stringer and error implementations, and scalar primitives
// all have an obvious display form. Anything else (structs, maps, slices
// without a Stringer) has none, and asking for one is a format error
// rather than a silently brittle dump.
func formatDisplay(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return v.Error(), nil
	case bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		complex64, complex128:
		return fmt.Sprintf("%v", v), nil
	case nil:
		return "", newFormatError(KindDisplay, fmt.Errorf("nil value has no display form"))
	default:
		return "", newFormatError(KindDisplay, fmt.Errorf("type %T has no display form (implement fmt.Stringer)", value))
	}
}
