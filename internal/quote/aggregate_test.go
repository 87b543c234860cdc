package quote

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"cotizadorapp/internal/domain"
)

func TestBuildOilService(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	q := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState())

	if q.VehicleID != 1 || q.Service != domain.ServiceOil || q.Tier != domain.TierPublic {
		t.Fatalf("quote header = %+v", q)
	}
	if len(q.Items) != 5 {
		t.Fatalf("got %d items, want 5", len(q.Items))
	}

	// oil 112.5 + oil filter 50 + labor 500
	if math.Abs(q.Total-662.5) > 1e-9 {
		t.Fatalf("Total = %v, want 662.5", q.Total)
	}
	if q.HasMissingData {
		t.Fatalf("no unresolved codes, HasMissingData should be false")
	}
	if q.Combo != nil {
		t.Fatalf("no combo toggled, got %+v", q.Combo)
	}
	if math.Abs(q.Labor.Cost-500) > 1e-9 {
		t.Fatalf("labor = %v, want 500", q.Labor.Cost)
	}
}

func TestBuildTierChangesTotal(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	q := Build(v, idx, domain.ServiceOil, domain.TierWorkshop, 1000, NewState())

	// oil 101.25 at the workshop price + oil filter 50 + labor 500
	if math.Abs(q.Total-651.25) > 1e-9 {
		t.Fatalf("Total = %v, want 651.25", q.Total)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()
	state := NewState().SelectAlternative(domain.PartOilFilter, "F200").ToggleCombo("KIT1")

	q1 := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, state)
	q2 := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, state)

	if !reflect.DeepEqual(q1, q2) {
		t.Fatalf("same inputs produced different quotes")
	}
}

func TestBuildComboExcludesFilters(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	q := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState().ToggleCombo("KIT1"))

	if q.Combo == nil {
		t.Fatalf("combo not activated")
	}
	if q.Combo.Cost != 300 {
		t.Fatalf("combo cost = %v, want 300", q.Combo.Cost)
	}

	for _, item := range q.Items {
		if item.Key.IsFilter() && item.IncludedInTotal {
			t.Fatalf("filter %s still included with an active combo", item.Key)
		}
		if item.Key == domain.PartOil && !item.IncludedInTotal {
			t.Fatalf("oil must stay included with an active combo")
		}
	}

	// oil 112.5 + combo 300 + labor 500
	if math.Abs(q.Total-912.5) > 1e-9 {
		t.Fatalf("Total = %v, want 912.5", q.Total)
	}
}

func TestBuildComboIgnoredWhenNotRecommended(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()
	v.ComboCodes = nil

	q := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState().ToggleCombo("KIT1"))
	if q.Combo != nil {
		t.Fatalf("combo outside the vehicle's list must be ignored")
	}
	if math.Abs(q.Total-662.5) > 1e-9 {
		t.Fatalf("Total = %v, want 662.5", q.Total)
	}
}

func TestBuildComboIgnoredForBeltService(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()
	v.BeltLaborMinutes = 120
	v.TimingKitCodes = []string{"F100"}

	q := Build(v, idx, domain.ServiceBelt, domain.TierPublic, 1000, NewState().ToggleCombo("KIT1"))
	if q.Combo != nil {
		t.Fatalf("combo must not apply to the belt service")
	}
	if len(q.Items) != 4 {
		t.Fatalf("belt service should have 4 items, got %d", len(q.Items))
	}
	if q.Labor.Key != domain.PartLaborBelt {
		t.Fatalf("labor key = %s, want %s", q.Labor.Key, domain.PartLaborBelt)
	}
	// timing kit 50 + labor 2000
	if math.Abs(q.Total-2050) > 1e-9 {
		t.Fatalf("Total = %v, want 2050", q.Total)
	}
}

func TestBuildMissingDataFlag(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()
	v.AirFilterCodes = []string{"X9"}

	q := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState())
	if !q.HasMissingData {
		t.Fatalf("unresolved included line should flag the quote")
	}
	if !strings.Contains(q.ShareText, "Faltan Códigos") {
		t.Fatalf("share text should mask the total, got:\n%s", q.ShareText)
	}

	// Excluding the broken line clears the flag
	q = Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState().ToggleInclusion(domain.PartAirFilter))
	if q.HasMissingData {
		t.Fatalf("excluded unresolved line should not flag the quote")
	}
}

func TestBreakdown(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	q := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState())

	find := func(label string) *domain.BreakdownRow {
		for i := range q.Breakdown {
			if q.Breakdown[i].Label == label {
				return &q.Breakdown[i]
			}
		}
		return nil
	}

	oil := find("Aceite")
	if oil == nil || oil.Code != "OIL1" || oil.Quantity != "1 x 4L" {
		t.Fatalf("oil row = %+v", oil)
	}
	loose := find("Aceite (suelto)")
	if loose == nil || loose.Quantity != "0.50L" {
		t.Fatalf("loose oil row = %+v", loose)
	}
	filter := find("Filtro de Aceite")
	if filter == nil || filter.Code != "F100" || filter.Quantity != "1" {
		t.Fatalf("filter row = %+v", filter)
	}
	missing := find("Filtro de Combustible")
	if missing == nil || missing.Code != "No especificado" {
		t.Fatalf("undeclared row = %+v", missing)
	}

	last := q.Breakdown[len(q.Breakdown)-1]
	if last.Label != "Mano de Obra (Aceite)" || !strings.Contains(last.Quantity, "30") {
		t.Fatalf("labor row = %+v", last)
	}
}

func TestBreakdownUnresolvedRow(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()
	v.AirFilterCodes = []string{"X9"}

	q := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState())
	for _, row := range q.Breakdown {
		if row.Label == "Filtro de Aire" {
			if row.Code != "Falta código" {
				t.Fatalf("unresolved row code = %q", row.Code)
			}
			return
		}
	}
	t.Fatalf("unresolved row missing from breakdown")
}

func TestShareText(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	q := Build(v, idx, domain.ServiceOil, domain.TierPublic, 1000, NewState())

	if !strings.HasPrefix(q.ShareText, "Chevrolet Corsa 2010") {
		t.Fatalf("share text title:\n%s", q.ShareText)
	}
	if !strings.Contains(q.ShareText, "Servicio: Cambio de Aceite | Tarifa: Público") {
		t.Fatalf("share text subtitle:\n%s", q.ShareText)
	}
	if !strings.Contains(q.ShareText, "Aceite: YPF [OIL1]") {
		t.Fatalf("share text oil line:\n%s", q.ShareText)
	}
	if !strings.Contains(q.ShareText, "TOTAL: ") {
		t.Fatalf("share text total:\n%s", q.ShareText)
	}
	// Zero-cost undeclared lines never appear
	if strings.Contains(q.ShareText, "No especificado") {
		t.Fatalf("share text leaks undeclared lines:\n%s", q.ShareText)
	}
}

func TestFormatARS(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$ 0"},
		{999, "$ 999"},
		{1000, "$ 1.000"},
		{1234567, "$ 1.234.567"},
		{-500, "-$ 500"},
	}
	for _, tt := range tests {
		if got := FormatARS(tt.in); got != tt.want {
			t.Fatalf("FormatARS(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
