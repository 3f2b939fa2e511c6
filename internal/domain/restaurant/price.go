package restaurant

import "strings"

// PriceCategory is a categorical price symbol.
type PriceCategory string

// Price categories. The yen symbols are canonical; LOW/MEDIUM/HIGH are the
// legacy enum some records were written with and are kept verbatim.
const (
	PriceBudget   PriceCategory = "¥"
	PriceModerate PriceCategory = "¥¥"
	PriceUpscale  PriceCategory = "¥¥¥"
	PriceLuxury   PriceCategory = "¥¥¥¥"

	PriceLow    PriceCategory = "LOW"
	PriceMedium PriceCategory = "MEDIUM"
	PriceHigh   PriceCategory = "HIGH"
)

var knownPrices = map[PriceCategory]struct{}{
	PriceBudget: {}, PriceModerate: {}, PriceUpscale: {}, PriceLuxury: {},
	PriceLow: {}, PriceMedium: {}, PriceHigh: {},
}

// IsValid checks if the category is one of the supported values.
func (p PriceCategory) IsValid() bool {
	_, ok := knownPrices[p]
	return ok
}

// ParsePriceCategory normalizes model or user input. Full-width yen signs are
// folded to "¥"; anything unrecognised yields "".
func ParsePriceCategory(s string) PriceCategory {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "￥", "¥")
	if p := PriceCategory(strings.ToUpper(s)); p.IsValid() {
		return p
	}
	return ""
}
