// Package quote implements the price quoting engine: catalog lookup,
// code resolution, tier pricing, oil container allocation and quote
// aggregation. All functions are pure over an immutable catalog snapshot.
package quote

import (
	"regexp"
	"strconv"
	"strings"

	"cotizadorapp/internal/domain"
)

// Index provides in-memory lookup over a product catalog snapshot
type Index struct {
	byCode map[string]domain.Product
	oils   []domain.Product
}

// NewIndex builds an index over a catalog snapshot. On duplicate codes
// the first product wins.
func NewIndex(products []domain.Product) *Index {
	idx := &Index{byCode: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		key := normalizeCode(p.Code)
		if key == "" {
			continue
		}
		if _, ok := idx.byCode[key]; !ok {
			idx.byCode[key] = p
		}
		if isMotorOil(p) {
			idx.oils = append(idx.oils, p)
		}
	}
	return idx
}

// FindByCode looks up a product by exact code, ignoring case and
// surrounding whitespace. Returns nil when there is no match.
func (idx *Index) FindByCode(code string) *domain.Product {
	if idx == nil {
		return nil
	}
	key := normalizeCode(code)
	if key == "" {
		return nil
	}
	if p, ok := idx.byCode[key]; ok {
		return &p
	}
	return nil
}

// viscosityPattern recognizes SAE grade labels like "10W40", "5w-30" or
// "10 W 40" inside a viscosity field.
var viscosityPattern = regexp.MustCompile(`(?i)(\d+)\s*-?\s*W\s*-?\s*(\d+)`)

// OilAlternatives returns the motor oil products whose description
// matches the given viscosity label. Grade labels are matched with a
// regex tolerant of spaces or hyphens around the W and guarded against
// partial matches inside a longer grade ("10W40" must not match
// "110W40"); any other label falls back to a normalized substring
// match. No match yields an empty list, never an error.
func (idx *Index) OilAlternatives(viscosityLabel string) []domain.Product {
	if idx == nil {
		return nil
	}
	label := strings.TrimSpace(viscosityLabel)
	if label == "" {
		return nil
	}

	if m := viscosityPattern.FindStringSubmatch(label); m != nil {
		re, err := regexp.Compile(`(?i)(?:^|[^0-9])` + m[1] + `[\s-]?W[\s-]?` + m[2])
		if err == nil {
			var out []domain.Product
			for _, p := range idx.oils {
				if re.MatchString(p.Description) {
					out = append(out, p)
				}
			}
			return out
		}
	}

	needle := normalizeLoose(label)
	var out []domain.Product
	for _, p := range idx.oils {
		if strings.Contains(normalizeLoose(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// volumePattern extracts a container volume such as "4L", "5 L" or
// "1.5L" from a product description.
var volumePattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*L`)

// ContainerVolume parses the first volume occurrence in a description,
// defaulting to 1.0 when none is present.
func ContainerVolume(description string) float64 {
	if m := volumePattern.FindStringSubmatch(description); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v
		}
	}
	return 1.0
}

// isMotorOil reports whether a product's category marks it as motor
// oil. Combo kits live under the oil category but are bundles, not oil.
func isMotorOil(p domain.Product) bool {
	cat := strings.ToLower(strings.TrimSpace(p.Category))
	sub := strings.ToLower(strings.TrimSpace(p.Subcategory))
	if sub == "combo" {
		return false
	}
	return strings.Contains(cat, "aceite") || strings.Contains(cat, "lubricante") ||
		strings.Contains(sub, "aceite") || strings.Contains(sub, "lubricante")
}

// IsCombo reports whether a product is a combo/kit bundle
func IsCombo(p domain.Product) bool {
	cat := strings.ToLower(strings.TrimSpace(p.Category))
	sub := strings.ToLower(strings.TrimSpace(p.Subcategory))
	if strings.Contains(cat, "aceite") && sub == "combo" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(p.Description)), "kit ")
}

// normalizeCode prepares a product code for exact matching
func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// normalizeLoose strips spaces and hyphens for fuzzy matching
func normalizeLoose(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
