package quote

import (
	"testing"

	"cotizadorapp/internal/domain"
)

func TestStateTransitionsArePure(t *testing.T) {
	s := NewState().SelectAlternative(domain.PartOil, "OIL1")

	s2 := s.SelectAlternative(domain.PartOil, "OIL2")
	if s.Selections[domain.PartOil] != "OIL1" {
		t.Fatalf("original state mutated: %v", s.Selections)
	}
	if s2.Selections[domain.PartOil] != "OIL2" {
		t.Fatalf("new state selection = %q, want OIL2", s2.Selections[domain.PartOil])
	}

	s3 := s.ToggleInclusion(domain.PartAirFilter)
	if s.Excluded[domain.PartAirFilter] {
		t.Fatalf("original state mutated by ToggleInclusion")
	}
	if !s3.Excluded[domain.PartAirFilter] {
		t.Fatalf("ToggleInclusion did not exclude the key")
	}
}

func TestToggleInclusionRoundTrip(t *testing.T) {
	s := NewState().ToggleInclusion(domain.PartCabinFilter)
	if !s.Excluded[domain.PartCabinFilter] {
		t.Fatalf("first toggle should exclude")
	}
	s = s.ToggleInclusion(domain.PartCabinFilter)
	if s.Excluded[domain.PartCabinFilter] {
		t.Fatalf("second toggle should re-include")
	}
}

func TestToggleCombo(t *testing.T) {
	s := NewState().ToggleCombo("KIT1")
	if s.Combo != "KIT1" {
		t.Fatalf("Combo = %q, want KIT1", s.Combo)
	}

	// Activating a second combo replaces the first
	s = s.ToggleCombo("KIT2")
	if s.Combo != "KIT2" {
		t.Fatalf("Combo = %q, want KIT2", s.Combo)
	}

	// Toggling the active combo deactivates it, case-insensitively
	s = s.ToggleCombo("kit2")
	if s.Combo != "" {
		t.Fatalf("Combo = %q, want empty after toggle off", s.Combo)
	}
}

func TestNormalize(t *testing.T) {
	s := NewState().
		SelectAlternative(domain.PartOil, "STALE").
		SelectAlternative(domain.PartTimingKit, "T2")
	s = s.ToggleInclusion(domain.PartAirFilter)
	s = s.ToggleCombo("KIT1")

	lines := []domain.QuoteLineItem{
		{Key: domain.PartOil, SelectedCode: "OIL1"},
		{Key: domain.PartOilFilter, SelectedCode: "F100"},
		{Key: domain.PartAirFilter},
	}

	got := Normalize(s, lines)

	if got.Selections[domain.PartOil] != "OIL1" {
		t.Fatalf("stale oil selection not repaired: %v", got.Selections)
	}
	if got.Selections[domain.PartOilFilter] != "F100" {
		t.Fatalf("current selection not recorded: %v", got.Selections)
	}
	if got.Selections[domain.PartTimingKit] != "T2" {
		t.Fatalf("selection outside the computed line set must pass through: %v", got.Selections)
	}
	if _, ok := got.Selections[domain.PartAirFilter]; ok {
		t.Fatalf("line without a selected code should not appear: %v", got.Selections)
	}

	// Exclusions and combo survive normalization untouched
	if !got.Excluded[domain.PartAirFilter] {
		t.Fatalf("exclusion lost during normalization")
	}
	if got.Combo != "KIT1" {
		t.Fatalf("combo lost during normalization: %q", got.Combo)
	}
}

func TestNormalizeClearsLineWithoutAlternatives(t *testing.T) {
	s := NewState().SelectAlternative(domain.PartOilFilter, "F100")

	// The filter code list was removed from the vehicle, so the
	// rebuilt line carries no selection anymore.
	got := Normalize(s, []domain.QuoteLineItem{{Key: domain.PartOilFilter}})
	if got.Selections != nil {
		t.Fatalf("selection for an empty line should be cleared: %v", got.Selections)
	}
}

func TestNormalizeKeepsOtherServiceSelections(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()
	v.BeltLaborMinutes = 120
	v.TimingKitCodes = []string{"F100", "F200"}

	// Pick an alternative on each service, then quote them alternately.
	s := NewState().
		SelectAlternative(domain.PartOilFilter, "F200").
		SelectAlternative(domain.PartTimingKit, "F200")

	oil := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, s)
	s = Normalize(s, oil.Items)
	if s.Selections[domain.PartTimingKit] != "F200" {
		t.Fatalf("belt selection lost after quoting oil: %v", s.Selections)
	}

	belt := Build(v, idx, domain.ServiceBelt, domain.TierPublic, 1000, s)
	s = Normalize(s, belt.Items)
	if s.Selections[domain.PartOilFilter] != "F200" {
		t.Fatalf("oil selection lost after quoting belt: %v", s.Selections)
	}
	if s.Selections[domain.PartTimingKit] != "F200" {
		t.Fatalf("belt selection not honored by its own service: %v", s.Selections)
	}
}
