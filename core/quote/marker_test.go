package quote

import (
	"testing"

	"github.com/google/uuid"

	"workorder-pricing/core/types"
)

func TestMarkerRoundTrip(t *testing.T) {
	id := uuid.New()

	if got, ok := ParseItemMarker(ItemMarker(id)); !ok || got != id {
		t.Errorf("item marker round trip failed: got %s ok=%v", got, ok)
	}

	for _, kind := range []types.ChargeKind{types.ChargeHourly, types.ChargeFixed} {
		gotKind, gotID, ok := ParseChargeMarker(ChargeMarker(kind, id))
		if !ok || gotKind != kind || gotID != id {
			t.Errorf("charge marker round trip failed for %s: got %s/%s ok=%v", kind, gotKind, gotID, ok)
		}
	}
}

func TestMarkerRejectsForeignRefs(t *testing.T) {
	foreign := []LineMarker{
		"",
		"gid://external/Line/123",
		"woitem:not-a-uuid",
		"wocharge:hourly:not-a-uuid",
		LineMarker("wocharge:unknown:" + uuid.NewString()),
		LineMarker("wocharge:" + uuid.NewString()),
	}

	for _, m := range foreign {
		if _, ok := ParseItemMarker(m); ok {
			t.Errorf("ParseItemMarker accepted %q", m)
		}
		if _, _, ok := ParseChargeMarker(m); ok {
			t.Errorf("ParseChargeMarker accepted %q", m)
		}
	}
}

func TestMarkersDisambiguateKinds(t *testing.T) {
	id := uuid.New()
	if ItemMarker(id) == LineMarker(ChargeMarker(types.ChargeFixed, id)) {
		t.Error("item and charge markers collide for the same uuid")
	}
	if ChargeMarker(types.ChargeHourly, id) == ChargeMarker(types.ChargeFixed, id) {
		t.Error("hourly and fixed markers collide for the same uuid")
	}
}
