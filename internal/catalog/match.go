package catalog

import (
	"strings"

	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

// sizeAliases maps normalized size labels to a canonical form. The
// storefront and the catalog disagree on how sizes are written; this
// table reconciles them without fuzzy matching.
var sizeAliases = map[string]string{
	"1l":      "1l",
	"1ltr":    "1l",
	"1litre":  "1l",
	"1liter":  "1l",
	"1000ml":  "1l",
	"500ml":   "500ml",
	"halfl":   "500ml",
	"0.5l":    "500ml",
	"250ml":   "250ml",
	"200ml":   "200ml",
	"2l":      "2l",
	"2ltr":    "2l",
	"2litre":  "2l",
	"2liter":  "2l",
	"2000ml":  "2l",
	"5l":      "5l",
	"5ltr":    "5l",
	"5litre":  "5l",
	"5liter":  "5l",
	"5000ml":  "5l",
	"1kg":     "1kg",
	"1000g":   "1kg",
	"500g":    "500g",
	"halfkg":  "500g",
	"0.5kg":   "500g",
	"250g":    "250g",
}

// MatchVariation finds the variation whose size attribute means the
// same as label. Matching is exact on canonical forms; when neither
// side is in the alias table the normalized strings must be equal.
func MatchVariation(label string, variations []woocommerce.Variation) (*woocommerce.Variation, bool) {
	want := canonicalSize(label)
	if want == "" {
		return nil, false
	}
	for i := range variations {
		for _, attr := range variations[i].Attributes {
			if canonicalSize(attr.Option) == want {
				return &variations[i], true
			}
		}
	}
	return nil, false
}

// canonicalSize lowercases, strips spaces and punctuation, and folds
// the result through the alias table.
func canonicalSize(label string) string {
	normalized := normalizeLabel(label)
	if normalized == "" {
		return ""
	}
	if canonical, ok := sizeAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

func normalizeLabel(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}
