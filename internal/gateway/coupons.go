package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/wearly/storefront-admin/internal/domain"
)

type couponRequest struct {
	Code         string     `json:"code"`
	DiscountType string     `json:"discountType"`
	Value        flexFloat  `json:"value"`
	MinPurchase  *flexFloat `json:"minPurchase"`
	MaxDiscount  *flexFloat `json:"maxDiscount"`
	UsageLimit   *flexInt   `json:"usageLimit"`
	ValidFrom    string     `json:"validFrom"`
	ValidTill    string     `json:"validTill"`
}

func (c couponRequest) payload() domain.CouponPayload {
	p := domain.CouponPayload{
		Code:         c.Code,
		DiscountType: c.DiscountType,
		Value:        float64(c.Value),
		ValidFrom:    c.ValidFrom,
		ValidTill:    c.ValidTill,
	}
	if c.MinPurchase != nil {
		v := float64(*c.MinPurchase)
		p.MinPurchase = &v
	}
	if c.MaxDiscount != nil {
		v := float64(*c.MaxDiscount)
		p.MaxDiscount = &v
	}
	if c.UsageLimit != nil {
		v := int64(*c.UsageLimit)
		p.UsageLimit = &v
	}
	return p
}

// HandleCreateCoupon creates a coupon. Numeric fields are coerced from
// strings before the upstream body is built; garbage values are a 400
// here rather than a NaN upstream.
func (h *Handler) HandleCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" {
		h.writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.DiscountType != domain.DiscountTypePercent && req.DiscountType != domain.DiscountTypeFlat {
		h.writeError(w, http.StatusBadRequest, "discountType must be P or F")
		return
	}
	if req.Value <= 0 {
		h.writeError(w, http.StatusBadRequest, "value must be positive")
		return
	}
	if req.ValidFrom == "" || req.ValidTill == "" {
		h.writeError(w, http.StatusBadRequest, "validFrom and validTill are required")
		return
	}

	if err := h.admin.CreateCoupon(r.Context(), req.payload()); err != nil {
		h.upstreamError(w, err, "failed to create coupon")
		return
	}

	h.logger.Info("coupon created", "code", req.Code, "discount_type", req.DiscountType)
	h.recordActivity(r.Context(), r, "coupon.create", "coupon", req.Code, map[string]any{
		"discountType": req.DiscountType,
		"value":        float64(req.Value),
	})
	h.writeJSON(w, http.StatusCreated, map[string]string{"message": "coupon created"})
}
