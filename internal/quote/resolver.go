package quote

import (
	"strings"

	"cotizadorapp/internal/domain"
)

// bulkContainerLiters is the cutoff above which a fuzzy oil match is
// considered a bulk container and excluded unless explicitly declared
// on the vehicle.
const bulkContainerLiters = 4.0

// Resolution is the outcome of resolving a candidate code list
type Resolution struct {
	Alternatives []domain.Product
	Unresolved   []string
}

// Resolve looks up each candidate code against the catalog. Codes that
// resolve go to Alternatives, the rest to Unresolved, both in input
// order. Duplicate codes are collapsed to their first occurrence. An
// empty candidate list yields an empty resolution, not an error.
func Resolve(codes []string, idx *Index) Resolution {
	var res Resolution
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		key := normalizeCode(code)
		if seen[key] {
			continue
		}
		seen[key] = true
		if p := idx.FindByCode(code); p != nil {
			res.Alternatives = append(res.Alternatives, *p)
		} else {
			res.Unresolved = append(res.Unresolved, code)
		}
	}
	return res
}

// ResolveOil resolves the oil candidate codes and unions in fuzzy
// viscosity matches from the catalog. Declared codes keep priority
// ordering; fuzzy additions are deduplicated by code and filtered to
// exclude bulk containers over 4L unless the product was itself a
// declared candidate.
func ResolveOil(codes []string, viscosityLabel string, idx *Index) Resolution {
	res := Resolve(codes, idx)

	seen := make(map[string]bool, len(res.Alternatives))
	for _, p := range res.Alternatives {
		seen[normalizeCode(p.Code)] = true
	}

	for _, p := range idx.OilAlternatives(viscosityLabel) {
		key := normalizeCode(p.Code)
		if seen[key] {
			continue
		}
		if ContainerVolume(p.Description) > bulkContainerLiters {
			continue
		}
		seen[key] = true
		res.Alternatives = append(res.Alternatives, p)
	}
	return res
}
