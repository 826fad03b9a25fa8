package mail

import (
	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"gopkg.in/gomail.v2"
)

func CreateMailDialer(config *config.Config) *gomail.Dialer {
	return gomail.NewDialer(config.MailConfig.SMTPHost, config.MailConfig.SMTPPort, config.MailConfig.SMTPUsername, config.MailConfig.SMTPPassword)
}
