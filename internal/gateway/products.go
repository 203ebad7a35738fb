package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wearly/storefront-admin/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func productIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
}

// productFilterFrom builds the catalog filter from the request query.
// Absent filters stay empty and are never forwarded upstream.
func productFilterFrom(r *http.Request) domain.ProductFilter {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		CategoryID:         q.Get("categoryId"),
		Gender:             q.Get("gender"),
		MinBasePrice:       q.Get("minBasePrice"),
		MaxBasePrice:       q.Get("maxBasePrice"),
		MinDiscountedPrice: q.Get("minDiscountedPrice"),
		MaxDiscountedPrice: q.Get("maxDiscountedPrice"),
		Limit:              defaultPageSize,
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit <= maxPageSize {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	return filter
}

// HandleListProducts lists a catalog page, unwrapping the upstream
// envelope so the dashboard always sees a bare array.
func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := productFilterFrom(r)

	products, err := h.admin.ListProducts(r.Context(), filter)
	if err != nil {
		h.upstreamError(w, err, "failed to list products")
		return
	}

	h.logger.Info("products listed", "count", len(products), "limit", filter.Limit, "offset", filter.Offset)
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.admin.GetProduct(r.Context(), productID)
	if err != nil {
		h.upstreamError(w, err, "failed to fetch product")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if product.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if product.DiscountedPrice > product.BasePrice {
		// Not rejected: pricing is owned upstream. Worth noticing though.
		h.logger.Warn("discounted price exceeds base price", "name", product.Name,
			"base_price", product.BasePrice, "discounted_price", product.DiscountedPrice)
	}

	if err := h.admin.CreateProduct(r.Context(), product); err != nil {
		h.upstreamError(w, err, "failed to create product")
		return
	}

	h.logger.Info("product created", "name", product.Name)
	h.recordActivity(r.Context(), r, "product.create", "product", product.Name, nil)
	h.writeJSON(w, http.StatusCreated, map[string]string{"message": "product created"})
}

func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.admin.UpdateProduct(r.Context(), productID, product); err != nil {
		h.upstreamError(w, err, "failed to update product")
		return
	}

	h.logger.Info("product updated", "product_id", productID)
	h.recordActivity(r.Context(), r, "product.update", "product", strconv.FormatInt(productID, 10), nil)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
}

func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.admin.DeleteProduct(r.Context(), productID); err != nil {
		h.upstreamError(w, err, "failed to delete product")
		return
	}

	h.logger.Info("product deleted", "product_id", productID)
	h.recordActivity(r.Context(), r, "product.delete", "product", strconv.FormatInt(productID, 10), nil)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
