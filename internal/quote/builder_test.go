package quote

import (
	"math"
	"strings"
	"testing"

	"cotizadorapp/internal/domain"
)

func testCatalog() *Index {
	return NewIndex([]domain.Product{
		{Code: "OIL1", Description: "Elaion F50 10W40 4L", Brand: "YPF", Supplier: "Distrisur",
			Category: "Aceites", PublicPrice: 100, WorkshopPrice: fptr(90)},
		{Code: "OIL2", Description: "Shell Helix 10W40 1L", Category: "Aceites", PublicPrice: 30},
		{Code: "F100", Description: "Filtro aceite Mann W712", Brand: "Mann", Supplier: "Parts SA", PublicPrice: 50},
		{Code: "F200", Description: "Filtro aceite Fram PH5548", PublicPrice: 45},
		{Code: "KIT1", Description: "Kit service 10W40 + filtros", Category: "Aceites", Subcategory: "Combo", PublicPrice: 300},
	})
}

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:              1,
		Make:            "Chevrolet",
		Model:           "Corsa",
		Year:            2010,
		OilViscosity:    "10W40",
		OilLiters:       4.5,
		OilLaborMinutes: 30,
		OilCodes:        []string{"OIL1"},
		OilFilterCodes:  []string{"F100", "F200"},
		ComboCodes:      []string{"KIT1"},
	}
}

func TestBuildLineOil(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	line := BuildLine(v, PartDef{Key: domain.PartOil, IsOil: true}, idx, domain.TierPublic, NewState())

	if line.SelectedCode != "OIL1" {
		t.Fatalf("SelectedCode = %q, want OIL1", line.SelectedCode)
	}
	if line.Label != "Aceite: YPF" {
		t.Fatalf("Label = %q", line.Label)
	}
	// 4.5L over a 4L container at $100: one container plus 0.5L loose
	if math.Abs(line.Cost-112.5) > 1e-9 {
		t.Fatalf("Cost = %v, want 112.5", line.Cost)
	}
	want := "Cotizado: 1 x 4L + 0.50L suelto. Requiere 4.5L. | Elaion F50 10W40 4L | Cod: OIL1"
	if line.Detail != want {
		t.Fatalf("Detail = %q, want %q", line.Detail, want)
	}
	if line.HasIssue || !line.IncludedInTotal {
		t.Fatalf("HasIssue = %v IncludedInTotal = %v", line.HasIssue, line.IncludedInTotal)
	}
}

func TestBuildLineWorkshopTier(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	line := BuildLine(v, PartDef{Key: domain.PartOil, IsOil: true}, idx, domain.TierWorkshop, NewState())
	// 4.5L over a 4L container at the $90 workshop price
	if math.Abs(line.Cost-101.25) > 1e-9 {
		t.Fatalf("Cost = %v, want 101.25", line.Cost)
	}
}

func TestBuildLineCostTierShowsSupplier(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	line := BuildLine(v, PartDef{Key: domain.PartOilFilter}, idx, domain.TierCost, NewState())
	if line.Label != "Filtro de Aceite: Mann (Parts SA)" {
		t.Fatalf("Label = %q", line.Label)
	}
}

func TestBuildLineUnresolved(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()
	v.AirFilterCodes = []string{"X9"}

	line := BuildLine(v, PartDef{Key: domain.PartAirFilter}, idx, domain.TierPublic, NewState())

	if !line.HasIssue {
		t.Fatalf("expected HasIssue for unresolved code")
	}
	if line.Label != "Filtro de Aire: Producto no encontrado" {
		t.Fatalf("Label = %q", line.Label)
	}
	if line.Detail != "Cod: X9 (no encontrado)" {
		t.Fatalf("Detail = %q", line.Detail)
	}
	if line.Cost != 0 {
		t.Fatalf("Cost = %v, want 0", line.Cost)
	}
	if !line.IncludedInTotal {
		t.Fatalf("unresolved line should still count toward the total")
	}
}

func TestBuildLineNoCodes(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	line := BuildLine(v, PartDef{Key: domain.PartFuelFilter}, idx, domain.TierPublic, NewState())

	if line.HasIssue {
		t.Fatalf("missing declaration is not an issue")
	}
	if line.Label != "Filtro de Combustible: No especificado" {
		t.Fatalf("Label = %q", line.Label)
	}
	if line.Detail != "Cod: No especificado" {
		t.Fatalf("Detail = %q", line.Detail)
	}
}

func TestBuildLineSelection(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	t.Run("explicit choice honored", func(t *testing.T) {
		state := NewState().SelectAlternative(domain.PartOilFilter, "F200")
		line := BuildLine(v, PartDef{Key: domain.PartOilFilter}, idx, domain.TierPublic, state)
		if line.SelectedCode != "F200" {
			t.Fatalf("SelectedCode = %q, want F200", line.SelectedCode)
		}
		if line.Cost != 45 {
			t.Fatalf("Cost = %v, want 45", line.Cost)
		}
	})

	t.Run("stale choice replaced by first alternative", func(t *testing.T) {
		state := NewState().SelectAlternative(domain.PartOilFilter, "GONE")
		line := BuildLine(v, PartDef{Key: domain.PartOilFilter}, idx, domain.TierPublic, state)
		if line.SelectedCode != "F100" {
			t.Fatalf("SelectedCode = %q, want F100", line.SelectedCode)
		}
	})
}

func TestBuildLineExcluded(t *testing.T) {
	idx := testCatalog()
	v := testVehicle()

	state := NewState().ToggleInclusion(domain.PartOilFilter)
	line := BuildLine(v, PartDef{Key: domain.PartOilFilter}, idx, domain.TierPublic, state)
	if line.IncludedInTotal {
		t.Fatalf("excluded line should not count toward the total")
	}
	if line.Cost != 50 {
		t.Fatalf("excluded line keeps its cost for display, got %v", line.Cost)
	}
}

func TestBuildLaborLine(t *testing.T) {
	line := BuildLaborLine(domain.PartLaborOil, 30, 1000)
	if line.Cost != 500 {
		t.Fatalf("Cost = %v, want 500", line.Cost)
	}
	if line.Label != "Mano de Obra (Aceite)" {
		t.Fatalf("Label = %q", line.Label)
	}
	if !strings.HasPrefix(line.Detail, "30") {
		t.Fatalf("Detail = %q", line.Detail)
	}
	if !line.IncludedInTotal || line.HasIssue {
		t.Fatalf("labor must always be included and never flagged")
	}

	if got := BuildLaborLine(domain.PartLaborBelt, -10, 1000); got.Cost != 0 {
		t.Fatalf("negative minutes should price as zero, got %v", got.Cost)
	}
}

func TestBrandName(t *testing.T) {
	tests := []struct {
		name string
		p    domain.Product
		want string
	}{
		{name: "brand field", p: domain.Product{Brand: "Mann", Description: "Filtro W712"}, want: "Mann"},
		{name: "first description word", p: domain.Product{Description: "Fram PH5548"}, want: "Fram"},
		{name: "nothing to show", p: domain.Product{}, want: "Marca desconocida"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := brandName(tt.p); got != tt.want {
				t.Fatalf("brandName = %q, want %q", got, tt.want)
			}
		})
	}
}
