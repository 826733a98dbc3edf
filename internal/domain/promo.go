package domain

// PromoCode maps a code string to a fractional discount. Fraction is
// constrained to [0,1] when the code table is built, so applying one can
// never push a total negative.
type PromoCode struct {
	Code     string  `json:"code"`
	Fraction float64 `json:"fraction"`
}
