package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wearly/storefront-admin/internal/domain"
)

// CreateCoupon registers a new coupon. The endpoint answers with the
// {status, message, data} envelope and a null data member.
func (a *AdminAPI) CreateCoupon(ctx context.Context, payload domain.CouponPayload) error {
	if _, err := a.c.callEnvelope(ctx, http.MethodPost, "/coupons", nil, payload); err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}
