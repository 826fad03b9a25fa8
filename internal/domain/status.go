package domain

type OrderStatus string

const (
	StatusSuccess    OrderStatus = "success"
	StatusRefunded   OrderStatus = "refunded"
	StatusChargeback OrderStatus = "chargeback"
	StatusFailed     OrderStatus = "failed"
)

var eventStatuses = map[string]OrderStatus{
	"on_payment":        StatusSuccess,
	"on_refund":         StatusRefunded,
	"on_chargeback":     StatusChargeback,
	"on_payment_missed": StatusFailed,
}

// StatusForEvent reports false for events that must not touch the order.
func StatusForEvent(event string) (OrderStatus, bool) {
	status, ok := eventStatuses[event]
	return status, ok
}
