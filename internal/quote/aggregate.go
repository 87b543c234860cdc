package quote

import (
	"fmt"

	"cotizadorapp/internal/domain"
)

// Build computes the full quote for a vehicle, service, tier and
// override state. It is a pure function of its inputs: calling it
// twice with the same snapshot yields an identical Quote.
func Build(v *domain.Vehicle, idx *Index, svc domain.ServiceType, tier domain.PriceTier, hourlyRate float64, state State) domain.Quote {
	combo := comboProduct(v, svc, state, idx)

	parts := ServiceParts(svc)
	built := make([]builtLine, 0, len(parts))
	for _, def := range parts {
		built = append(built, buildLine(v, def, idx, tier, state, combo != nil))
	}

	laborKey := domain.PartLaborOil
	laborMinutes := v.OilLaborMinutes
	if svc == domain.ServiceBelt {
		laborKey = domain.PartLaborBelt
		laborMinutes = v.BeltLaborMinutes
	}
	labor := BuildLaborLine(laborKey, laborMinutes, hourlyRate)

	q := domain.Quote{
		VehicleID: v.ID,
		Service:   svc,
		Tier:      tier,
		Labor:     labor,
	}

	total := labor.Cost
	for _, b := range built {
		q.Items = append(q.Items, b.item)
		if b.item.IncludedInTotal {
			total += b.item.Cost
			if b.item.HasIssue {
				q.HasMissingData = true
			}
		}
	}

	if combo != nil {
		line := comboLine(*combo, tier)
		q.Combo = &line
		total += line.Cost
	}
	q.Total = total

	q.Breakdown = breakdown(built, labor, q.Combo)
	q.ShareText = shareText(v, q)
	return q
}

// comboProduct returns the active combo product, or nil. A combo is
// active only for the oil service, when the toggled code is among the
// vehicle's recommended combos and resolves in the catalog.
func comboProduct(v *domain.Vehicle, svc domain.ServiceType, state State, idx *Index) *domain.Product {
	if svc != domain.ServiceOil || state.Combo == "" {
		return nil
	}
	key := normalizeCode(state.Combo)
	for _, code := range v.ComboCodes {
		if normalizeCode(code) == key {
			return idx.FindByCode(code)
		}
	}
	return nil
}

func comboLine(p domain.Product, tier domain.PriceTier) domain.QuoteLineItem {
	label := domain.PartLabel(domain.PartCombo) + ": " + brandName(p)
	if tier == domain.TierCost && p.Supplier != "" {
		label += " (" + p.Supplier + ")"
	}
	return domain.QuoteLineItem{
		Key:             domain.PartCombo,
		Label:           label,
		Detail:          p.Description + " | Cod: " + p.Code,
		SelectedCode:    p.Code,
		Cost:            PriceFor(p, tier),
		IncludedInTotal: true,
	}
}

// breakdown flattens the quote into user-facing purchase rows. Oil
// expands into up to two rows, whole containers then loose liters.
func breakdown(built []builtLine, labor domain.QuoteLineItem, combo *domain.QuoteLineItem) []domain.BreakdownRow {
	var rows []domain.BreakdownRow
	for _, b := range built {
		if !b.item.IncludedInTotal {
			continue
		}
		label := domain.PartLabel(b.item.Key)
		if b.product == nil {
			code := "No especificado"
			if len(b.item.UnresolvedCodes) > 0 {
				code = "Falta código"
			}
			rows = append(rows, domain.BreakdownRow{Label: label, Code: code, Quantity: "-"})
			continue
		}
		if b.alloc != nil {
			rows = append(rows, domain.BreakdownRow{
				Label:    label,
				Code:     b.product.Code,
				Quantity: containerQuantity(*b.alloc),
			})
			if b.alloc.LooseLiters > 0 {
				rows = append(rows, domain.BreakdownRow{
					Label:    label + " (suelto)",
					Code:     b.product.Code,
					Quantity: fmt.Sprintf("%.2fL", b.alloc.LooseLiters),
				})
			}
			continue
		}
		rows = append(rows, domain.BreakdownRow{Label: label, Code: b.product.Code, Quantity: "1"})
	}

	if combo != nil {
		rows = append(rows, domain.BreakdownRow{
			Label:    domain.PartLabel(domain.PartCombo),
			Code:     combo.SelectedCode,
			Quantity: "1",
		})
	}

	rows = append(rows, domain.BreakdownRow{
		Label:    labor.Label,
		Code:     "-",
		Quantity: labor.Detail,
	})
	return rows
}

func containerQuantity(a Allocation) string {
	if a.ContainerVolume <= 0 {
		return "1 envase"
	}
	return fmt.Sprintf("%d x %sL", a.FullContainers, formatLiters(a.ContainerVolume))
}
