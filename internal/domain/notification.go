package domain

import (
	"net/url"
	"sort"
)

// Notification is the field set of one payment processor callback.
// Fields the processor adds later are kept so they stay part of the signature.
type Notification map[string]string

func NotificationFromValues(values url.Values) Notification {
	n := make(Notification, len(values))
	for key, v := range values {
		if len(v) > 0 {
			n[key] = v[0]
		}
	}
	return n
}

func (n Notification) Event() string         { return n["event"] }
func (n Notification) Custom() string        { return n["custom"] }
func (n Notification) TransactionID() string { return n["transaction_id"] }
func (n Notification) ReceiptURL() string    { return n["receipt_url"] }
func (n Notification) Amount() string        { return n["transaction_amount"] }
func (n Notification) Currency() string      { return n["transaction_currency"] }

// DedupKey identifies a delivery. A refund reuses the payment's transaction id,
// so the event is part of the key.
func (n Notification) DedupKey() string {
	return n.Event() + ":" + n.TransactionID()
}

func (n Notification) SortedKeys() []string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
