// Package quote - Line markers
//
// A marker is the opaque correlation token attached to every draft line sent
// to the oracle. The oracle echoes markers back untouched, which lets the
// adapter map quoted lines to domain entities without relying on response
// order.
package quote

import (
	"strings"

	"github.com/google/uuid"

	"workorder-pricing/core/types"
)

// LineMarker is an opaque correlation token for one draft line
type LineMarker string

const (
	markerItemPrefix   = "woitem:"
	markerChargePrefix = "wocharge:"
)

// ItemMarker builds the marker for an item line
func ItemMarker(id uuid.UUID) LineMarker {
	return LineMarker(markerItemPrefix + id.String())
}

// ChargeMarker builds the marker for a charge line
func ChargeMarker(kind types.ChargeKind, id uuid.UUID) LineMarker {
	return LineMarker(markerChargePrefix + string(kind) + ":" + id.String())
}

// MarkerFor returns the marker identifying a charge
func MarkerFor(charge types.Charge) LineMarker {
	return ChargeMarker(charge.Kind(), charge.ChargeUUID())
}

// ParseItemMarker extracts the item uuid from a marker, if it is one of ours
func ParseItemMarker(m LineMarker) (uuid.UUID, bool) {
	s, ok := strings.CutPrefix(string(m), markerItemPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ParseChargeMarker extracts the charge kind and uuid from a marker, if it is
// one of ours
func ParseChargeMarker(m LineMarker) (types.ChargeKind, uuid.UUID, bool) {
	s, ok := strings.CutPrefix(string(m), markerChargePrefix)
	if !ok {
		return "", uuid.Nil, false
	}
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return "", uuid.Nil, false
	}
	switch types.ChargeKind(kind) {
	case types.ChargeHourly, types.ChargeFixed:
		return types.ChargeKind(kind), id, true
	}
	return "", uuid.Nil, false
}
