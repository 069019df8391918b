package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type ShippingStatus string

const (
	ShippingStatusPending    ShippingStatus = "pending"
	ShippingStatusProcessing ShippingStatus = "processing"
	ShippingStatusShipped    ShippingStatus = "shipped"
	ShippingStatusDelivered  ShippingStatus = "delivered"
	ShippingStatusCancelled  ShippingStatus = "cancelled"
)

// paymentEdges defines the legal payment_status transitions. Anything not
// listed is rejected; re-applying the current status is a no-op handled by
// the settlement engine before this table is consulted.
var paymentEdges = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed, PaymentStatusExpired, PaymentStatusCancelled},
	PaymentStatusFailed:  {PaymentStatusCancelled},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentEdges[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var shippingEdges = map[ShippingStatus][]ShippingStatus{
	ShippingStatusPending:    {ShippingStatusProcessing, ShippingStatusCancelled},
	ShippingStatusProcessing: {ShippingStatusShipped},
	ShippingStatusShipped:    {ShippingStatusDelivered},
}

func (s ShippingStatus) CanTransitionTo(next ShippingStatus) bool {
	for _, allowed := range shippingEdges[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is immutable after creation except for payment_status,
// shipping_status and the payment reference fields.
type Order struct {
	BaseModel
	Code            string         `db:"code"`
	IdempotencyKey  string         `db:"idempotency_key"`
	UserID          string         `db:"user_id"`
	DestinationCity string         `db:"destination_city"`
	Courier         string         `db:"courier"`
	CourierService  string         `db:"courier_service"`
	Subtotal        int64          `db:"subtotal"`
	ShippingCost    int64          `db:"shipping_cost"`
	DiscountAmount  int64          `db:"discount_amount"`
	Total           int64          `db:"total"`
	VoucherID       *string        `db:"voucher_id"`
	VoucherCode     *string        `db:"voucher_code"`
	PaymentStatus   PaymentStatus  `db:"payment_status"`
	ShippingStatus  ShippingStatus `db:"shipping_status"`
	PaymentRef      *string        `db:"payment_ref"`
	PaymentURL      *string        `db:"payment_url"`
	PaidAt          *time.Time     `db:"paid_at"`
	Items           []OrderItem    `db:"-"`
}

// IsCancellable: only before payment settles and before fulfilment starts.
// Paid or moving orders go through the refund/return flow instead.
func (o *Order) IsCancellable() bool {
	paymentOK := o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusFailed
	return paymentOK && o.ShippingStatus == ShippingStatusPending
}

// OrderItem is a snapshot of the catalog line at order time, immune to later
// product renames or price changes.
type OrderItem struct {
	ID          string  `db:"id"`
	OrderID     string  `db:"order_id"`
	ProductID   string  `db:"product_id"`
	VariantID   *string `db:"variant_id"`
	ProductName string  `db:"product_name"`
	SKU         string  `db:"sku"`
	Price       int64   `db:"price"`
	Quantity    int     `db:"quantity"`
	WeightGrams int     `db:"weight_grams"`
}

type Shipment struct {
	BaseModel
	OrderID        string  `db:"order_id"`
	Courier        string  `db:"courier"`
	CourierService string  `db:"courier_service"`
	Cost           int64   `db:"cost"`
	TrackingNumber *string `db:"tracking_number"`
	Status         string  `db:"status"`
}
