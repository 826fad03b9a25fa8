package dto

type CheckoutResponse struct {
	Success     bool   `json:"success"`
	OrderID     int64  `json:"order_id"`
	PaymentLink string `json:"payment_link"`
}
