package pricing

import (
	"strings"

	"storefront-core/internal/domain"
)

// PromoTable validates promo codes against a fixed in-memory mapping.
// Codes are matched case-insensitively. The table is built once at
// startup and never persisted.
type PromoTable struct {
	codes map[string]float64
}

// NewPromoTable builds a table from code -> fraction entries, dropping
// any entry whose fraction falls outside [0,1].
func NewPromoTable(entries map[string]float64) *PromoTable {
	codes := make(map[string]float64, len(entries))
	for code, fraction := range entries {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || fraction < 0 || fraction > 1 {
			continue
		}
		codes[code] = fraction
	}
	return &PromoTable{codes: codes}
}

// DefaultPromoTable returns the storefront's static promo set.
func DefaultPromoTable() *PromoTable {
	return NewPromoTable(map[string]float64{
		"WELCOME10": 0.10,
		"VIP20":     0.20,
		"FRIENDS15": 0.15,
	})
}

// Validate resolves a code to its PromoCode, or domain.ErrInvalidPromoCode
// when the code is unknown.
func (t *PromoTable) Validate(code string) (domain.PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	fraction, ok := t.codes[normalized]
	if !ok {
		return domain.PromoCode{}, domain.ErrInvalidPromoCode
	}
	return domain.PromoCode{Code: normalized, Fraction: fraction}, nil
}
