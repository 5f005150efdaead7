package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"bbq-storefront/models"

	"go.uber.org/zap"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	Config EmailConfig
	Log    *zap.Logger

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg EmailConfig, log *zap.Logger) *Mailer {
	return &Mailer{Config: cfg, Log: log, send: smtp.SendMail}
}

func (m *Mailer) SendEmail(to, subject, htmlBody string) error {
	if !m.Config.Enabled() {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		m.Config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if m.Config.Username != "" && m.Config.Password != "" {
		auth = smtp.PlainAuth("", m.Config.Username, m.Config.Password, m.Config.Host)
	}

	addr := m.Config.Host + ":" + m.Config.Port
	return m.send(addr, auth, m.Config.From, []string{to}, msg)
}

func orderConfirmationBody(order models.Order) string {
	var lines strings.Builder
	for _, it := range order.Items {
		fmt.Fprintf(&lines, "<li>%d &times; %s &ndash; $%.2f</li>\n", it.Quantity, html.EscapeString(it.Name), it.LineTotal)
	}

	pickup := "We'll have it ready for pickup."
	if order.OrderType == "delivery" {
		pickup = "It's headed to " + html.EscapeString(order.DeliveryAddress) + "."
	}

	return fmt.Sprintf(`<h2>Your order is on the smoker!</h2>
<p>Hi %s,</p>
<p>Order <strong>%s</strong> is confirmed. %s</p>
<ul>
%s</ul>
<p>Subtotal: $%.2f<br>Tax: $%.2f<br>Delivery: $%.2f<br><strong>Total: $%.2f</strong></p>
<p>The Pit Crew</p>`,
		html.EscapeString(strings.Split(order.CustomerName, " ")[0]),
		order.OrderNumber, pickup, lines.String(),
		order.Subtotal, order.Tax, order.DeliveryFee, order.Total)
}

// SendOrderConfirmation mails the receipt in the background.
func (m *Mailer) SendOrderConfirmation(order models.Order) {
	if !m.Config.Enabled() {
		return
	}
	go func() {
		subject := fmt.Sprintf("Order Confirmed - %s", order.OrderNumber)
		if err := m.SendEmail(order.CustomerEmail, subject, orderConfirmationBody(order)); err != nil {
			m.Log.Warn("failed to send order confirmation",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err),
			)
		}
	}()
}
