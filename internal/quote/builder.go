package quote

import (
	"fmt"
	"strconv"
	"strings"

	"cotizadorapp/internal/domain"
)

// PartDef describes one service part position of a quote
type PartDef struct {
	Key   domain.PartKey
	IsOil bool
}

var oilServiceParts = []PartDef{
	{Key: domain.PartOil, IsOil: true},
	{Key: domain.PartOilFilter},
	{Key: domain.PartAirFilter},
	{Key: domain.PartFuelFilter},
	{Key: domain.PartCabinFilter},
}

var beltServiceParts = []PartDef{
	{Key: domain.PartTimingKit},
	{Key: domain.PartTensioner},
	{Key: domain.PartRollers},
	{Key: domain.PartWaterPump},
}

// ServiceParts returns the fixed, ordered part table for a service
func ServiceParts(svc domain.ServiceType) []PartDef {
	if svc == domain.ServiceBelt {
		return beltServiceParts
	}
	return oilServiceParts
}

// builtLine carries a line item plus the intermediates the aggregator
// needs for breakdown rows.
type builtLine struct {
	item    domain.QuoteLineItem
	product *domain.Product
	alloc   *Allocation
}

// BuildLine resolves, selects and prices one service part line. Combo
// exclusion is an aggregate concern, so a lone line is built as if no
// combo were active.
func BuildLine(v *domain.Vehicle, def PartDef, idx *Index, tier domain.PriceTier, state State) domain.QuoteLineItem {
	return buildLine(v, def, idx, tier, state, false).item
}

func buildLine(v *domain.Vehicle, def PartDef, idx *Index, tier domain.PriceTier, state State, combo bool) builtLine {
	codes := v.CodesFor(def.Key)
	var res Resolution
	if def.IsOil {
		res = ResolveOil(codes, v.OilViscosity, idx)
	} else {
		res = Resolve(codes, idx)
	}

	label := domain.PartLabel(def.Key)
	line := builtLine{item: domain.QuoteLineItem{
		Key:             def.Key,
		Alternatives:    res.Alternatives,
		UnresolvedCodes: res.Unresolved,
		IncludedInTotal: !state.Excluded[def.Key] && !(combo && def.Key.IsFilter()),
	}}

	selected := selectProduct(res.Alternatives, state.Selections[def.Key])
	if selected == nil {
		if len(res.Unresolved) > 0 {
			line.item.Label = label + ": Producto no encontrado"
			line.item.Detail = "Cod: " + strings.Join(res.Unresolved, ", ") + " (no encontrado)"
			line.item.HasIssue = true
		} else {
			line.item.Label = label + ": No especificado"
			line.item.Detail = "Cod: No especificado"
		}
		return line
	}

	line.product = selected
	line.item.SelectedCode = selected.Code
	line.item.Label = label + ": " + brandName(*selected)
	if tier == domain.TierCost && selected.Supplier != "" {
		line.item.Label += " (" + selected.Supplier + ")"
	}

	unit := PriceFor(*selected, tier)
	if def.IsOil {
		alloc := Allocate(v.OilLiters, ContainerVolume(selected.Description), unit)
		line.alloc = &alloc
		line.item.Cost = alloc.Cost
		line.item.Detail = fmt.Sprintf("Cotizado: %s. Requiere %sL. | %s | Cod: %s",
			alloc.Label, formatLiters(v.OilLiters), selected.Description, selected.Code)
	} else {
		line.item.Cost = unit
		line.item.Detail = selected.Description + " | Cod: " + selected.Code
	}
	return line
}

// BuildLaborLine prices the labor row from minutes and the hourly rate.
// Labor is always included and never issue-flagged.
func BuildLaborLine(key domain.PartKey, minutes, hourlyRate float64) domain.QuoteLineItem {
	if minutes < 0 {
		minutes = 0
	}
	return domain.QuoteLineItem{
		Key:             key,
		Label:           domain.PartLabel(key),
		Detail:          formatMinutes(minutes) + " min",
		Cost:            (minutes / 60) * hourlyRate,
		IncludedInTotal: true,
	}
}

// selectProduct returns the user's choice when it is still among the
// alternatives, otherwise the first alternative. Stale selections are
// silently replaced, never kept.
func selectProduct(alternatives []domain.Product, chosen string) *domain.Product {
	if len(alternatives) == 0 {
		return nil
	}
	if chosen != "" {
		key := normalizeCode(chosen)
		for i := range alternatives {
			if normalizeCode(alternatives[i].Code) == key {
				return &alternatives[i]
			}
		}
	}
	return &alternatives[0]
}

// brandName picks the display brand for a product line
func brandName(p domain.Product) string {
	if b := strings.TrimSpace(p.Brand); b != "" {
		return b
	}
	if fields := strings.Fields(p.Description); len(fields) > 0 {
		return fields[0]
	}
	return "Marca desconocida"
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
