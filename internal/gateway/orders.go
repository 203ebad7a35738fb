package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wearly/storefront-admin/internal/domain"
	"github.com/wearly/storefront-admin/internal/workflow"
)

func orderIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
}

// HandleListOrders lists orders, passing the optional status filter
// through to the admin API.
func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.admin.ListOrders(r.Context(), status)
	if err != nil {
		h.upstreamError(w, err, "failed to list orders")
		return
	}

	h.logger.Info("orders listed", "status", status, "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

type orderDetailsResponse struct {
	domain.OrderDetails
	AllowedTransitions []domain.OrderStatus `json:"allowed_transitions"`
	Actions            []workflow.Action    `json:"actions"`
}

// HandleOrderDetails returns the detail aggregate decorated with the
// transitions and actions the dashboard may offer for the current status.
// An empty allowed_transitions list means no transition control renders.
func (h *Handler) HandleOrderDetails(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	details, err := h.storefront.OrderDetails(r.Context(), orderID)
	if err != nil {
		h.upstreamError(w, err, "failed to fetch order details")
		return
	}

	resp := orderDetailsResponse{
		OrderDetails:       *details,
		AllowedTransitions: workflow.NextStatuses(details.Order.Status),
		Actions:            workflow.ActionsFor(details.Order.Status),
	}
	if resp.AllowedTransitions == nil {
		resp.AllowedTransitions = []domain.OrderStatus{}
	}
	if resp.Actions == nil {
		resp.Actions = []workflow.Action{}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleShipOrder applies the ship transition. Carrier, tracking number
// and estimated delivery date are mandatory.
func (h *Handler) HandleShipOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req domain.ShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Carrier == "" || req.TrackingNumber == "" || req.EstimatedDeliveryDate == "" {
		h.writeError(w, http.StatusBadRequest, "carrier, trackingNumber and estimatedDeliveryDate are required")
		return
	}

	data, err := h.admin.ShipOrder(r.Context(), orderID, req)
	if err != nil {
		h.upstreamError(w, err, "failed to ship order")
		return
	}

	h.logger.Info("order shipped", "order_id", orderID, "carrier", req.Carrier)
	h.recordActivity(r.Context(), r, "order.ship", "order", strconv.FormatInt(orderID, 10), req)
	h.writeRaw(w, http.StatusOK, data)
}

// HandleUpdateOrderStatus applies the generic status transition. Legality
// is advisory here; the upstream service has the final say.
func (h *Handler) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req domain.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		h.writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	data, err := h.admin.UpdateOrderStatus(r.Context(), orderID, req)
	if err != nil {
		h.upstreamError(w, err, "failed to update order status")
		return
	}

	h.logger.Info("order status updated", "order_id", orderID, "status", req.Status)
	h.recordActivity(r.Context(), r, "order.status_update", "order", strconv.FormatInt(orderID, 10), req)
	h.writeRaw(w, http.StatusOK, data)
}

// HandleApproveOrder accepts a REQUESTED order.
func (h *Handler) HandleApproveOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	data, err := h.admin.ApproveOrder(r.Context(), orderID)
	if err != nil {
		h.upstreamError(w, err, "failed to approve order")
		return
	}

	h.logger.Info("order approved", "order_id", orderID)
	h.recordActivity(r.Context(), r, "order.approve", "order", strconv.FormatInt(orderID, 10), nil)
	h.writeRaw(w, http.StatusOK, data)
}

// HandleRejectOrder declines a REQUESTED order.
func (h *Handler) HandleRejectOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	data, err := h.admin.RejectOrder(r.Context(), orderID)
	if err != nil {
		h.upstreamError(w, err, "failed to reject order")
		return
	}

	h.logger.Info("order rejected", "order_id", orderID)
	h.recordActivity(r.Context(), r, "order.reject", "order", strconv.FormatInt(orderID, 10), nil)
	h.writeRaw(w, http.StatusOK, data)
}
