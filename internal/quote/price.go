package quote

import (
	"math"

	"cotizadorapp/internal/domain"
)

// PriceFor returns the unit price of a product at the given tier.
// Workshop and cost tiers fall back to the public price when their
// field is absent or not finite; the public price itself defaults to
// 0 when missing. The result is always a finite, non-negative number.
func PriceFor(p domain.Product, tier domain.PriceTier) float64 {
	switch tier {
	case domain.TierWorkshop:
		if ok, v := finitePrice(p.WorkshopPrice); ok {
			return v
		}
	case domain.TierCost:
		if ok, v := finitePrice(p.CostPrice); ok {
			return v
		}
	}
	if v := p.PublicPrice; !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 {
		return v
	}
	return 0
}

func finitePrice(p *float64) (bool, float64) {
	if p == nil {
		return false, 0
	}
	v := *p
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return false, 0
	}
	return true, v
}
