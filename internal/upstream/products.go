package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wearly/storefront-admin/internal/domain"
)

// filterQuery renders the catalog filters as query parameters. Paging is
// always present; the remaining filters are emitted only when set, so an
// unfiltered listing carries no stray empty parameters.
func filterQuery(f domain.ProductFilter) url.Values {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(f.Limit))
	query.Set("offset", strconv.Itoa(f.Offset))

	if f.CategoryID != "" {
		query.Set("categoryId", f.CategoryID)
	}
	if f.Gender != "" {
		query.Set("gender", f.Gender)
	}
	if f.MinBasePrice != "" {
		query.Set("minBasePrice", f.MinBasePrice)
	}
	if f.MaxBasePrice != "" {
		query.Set("maxBasePrice", f.MaxBasePrice)
	}
	if f.MinDiscountedPrice != "" {
		query.Set("minDiscountedPrice", f.MinDiscountedPrice)
	}
	if f.MaxDiscountedPrice != "" {
		query.Set("maxDiscountedPrice", f.MaxDiscountedPrice)
	}

	return query
}

// ListProducts fetches a page of the catalog.
func (a *AdminAPI) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	data, err := a.c.callEnvelope(ctx, http.MethodGet, "/products", filterQuery(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// GetProduct fetches one product with variants and images.
func (a *AdminAPI) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	data, err := a.c.callEnvelope(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	product := &domain.Product{}
	if err := json.Unmarshal(data, product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return product, nil
}

// CreateProduct adds a catalog entry.
func (a *AdminAPI) CreateProduct(ctx context.Context, product domain.Product) error {
	if _, err := a.c.callEnvelope(ctx, http.MethodPost, "/products", nil, product); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct replaces a catalog entry.
func (a *AdminAPI) UpdateProduct(ctx context.Context, productID int64, product domain.Product) error {
	if _, err := a.c.callEnvelope(ctx, http.MethodPut, fmt.Sprintf("/products/%d", productID), nil, product); err != nil {
		return fmt.Errorf("update product %d: %w", productID, err)
	}
	return nil
}

// DeleteProduct removes a catalog entry.
func (a *AdminAPI) DeleteProduct(ctx context.Context, productID int64) error {
	if _, err := a.c.callEnvelope(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", productID), nil, nil); err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	return nil
}
