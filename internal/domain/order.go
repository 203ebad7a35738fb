package domain

import "encoding/json"

type OrderStatus string

const (
	OrderStatusRequested      OrderStatus = "REQUESTED"
	OrderStatusPlaced         OrderStatus = "PLACED"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusRejected       OrderStatus = "REJECTED"
)

// Order is the row shape returned by the admin orders listing.
type Order struct {
	OrderID   int64       `json:"order_id"`
	Amount    float64     `json:"amount"`
	Status    OrderStatus `json:"status"`
	OrderDate string      `json:"order_date,omitempty"`
}

// OrderProduct is a product line inside an order detail aggregate.
type OrderProduct struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// OrderDetails is the read-only aggregate served by the storefront API.
// Shipping address, shipment, timeline and invoice are owned upstream
// and passed through untouched.
type OrderDetails struct {
	Order           Order           `json:"order"`
	ShippingAddress json.RawMessage `json:"shipping_address,omitempty"`
	Products        []OrderProduct  `json:"products"`
	Shipment        json.RawMessage `json:"shipment,omitempty"`
	Timeline        json.RawMessage `json:"timeline,omitempty"`
	Invoice         json.RawMessage `json:"invoice,omitempty"`
}

// ShipmentRequest is the payload for the ship transition. It is distinct
// from the generic status update: carrier and tracking are mandatory.
type ShipmentRequest struct {
	Carrier               string `json:"carrier"`
	TrackingNumber        string `json:"trackingNumber"`
	TrackingURL           string `json:"trackingUrl,omitempty"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"`
}

// StatusUpdate is the generic transition payload used for every
// non-ship status change.
type StatusUpdate struct {
	Status      OrderStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location,omitempty"`
}
