package dto

type CheckoutInput struct {
	UserID          string
	IdempotencyKey  string
	DestinationCity string
	Courier         string
	CourierService  string
	VoucherCode     string
}
