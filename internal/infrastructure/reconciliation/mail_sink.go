package reconciliation

import (
	"context"
	"fmt"
	"strings"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailSink alerts an operator by email.
type MailSink struct {
	sender mailSender
	from   string
	to     string
}

func CreateMailSink(sender mailSender, from, to string) *MailSink {
	return &MailSink{sender: sender, from: from, to: to}
}

func (s *MailSink) Name() string { return "mail" }

func (s *MailSink) Publish(ctx context.Context, record domain.ReconciliationRecord) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", s.to)
	message.SetHeader("Subject", fmt.Sprintf("Order %s needs reconciliation (%s)", record.OrderReference, record.Event))
	message.SetBody("text/plain", mailBody(record))

	return s.sender.DialAndSend(message)
}

func mailBody(record domain.ReconciliationRecord) string {
	var b strings.Builder
	b.WriteString("A payment notification could not be applied to its order.\n\n")
	fmt.Fprintf(&b, "Order: %s\n", record.OrderReference)
	fmt.Fprintf(&b, "Event: %s\n", record.Event)
	fmt.Fprintf(&b, "Transaction: %s\n", record.TransactionID)
	fmt.Fprintf(&b, "Status: %s\n", record.Status)
	fmt.Fprintf(&b, "Amount: %s %s\n", record.Amount, record.Currency)
	fmt.Fprintf(&b, "Receipt: %s\n", record.ReceiptURL)
	fmt.Fprintf(&b, "Reason: %s\n", record.Reason)
	return b.String()
}
