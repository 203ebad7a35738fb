package domain

// Discount types as the admin API encodes them: percentage or flat amount.
const (
	DiscountTypePercent = "P"
	DiscountTypeFlat    = "F"
)

// CouponPayload is the create-coupon request body. Validity window and
// usage accounting are enforced upstream.
type CouponPayload struct {
	Code         string   `json:"code"`
	DiscountType string   `json:"discountType"`
	Value        float64  `json:"value"`
	MinPurchase  *float64 `json:"minPurchase,omitempty"`
	MaxDiscount  *float64 `json:"maxDiscount,omitempty"`
	UsageLimit   *int64   `json:"usageLimit,omitempty"`
	ValidFrom    string   `json:"validFrom"`
	ValidTill    string   `json:"validTill"`
}

type Coupon struct {
	ID           int64   `json:"id"`
	Code         string  `json:"code"`
	DiscountType string  `json:"discountType"`
	Value        float64 `json:"value"`
	MinPurchase  float64 `json:"minPurchase"`
	MaxDiscount  float64 `json:"maxDiscount"`
	UsageLimit   int64   `json:"usageLimit"`
	ValidFrom    string  `json:"validFrom"`
	ValidTill    string  `json:"validTill"`
	Status       string  `json:"status"`
}
