package notifier

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/sneakpeak/storefront/internal/config"
	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
)

// Mailer sends order receipt emails over SMTP
type Mailer struct {
	cfg    config.SMTPConfig
	logger *logger.Logger
}

// NewMailer creates a new receipt mailer
func NewMailer(cfg config.SMTPConfig, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: log,
	}
}

// SendReceipt emails the order receipt to the order's owner
func (m *Mailer) SendReceipt(ctx context.Context, order *domain.Order) error {
	if order.UserEmail == "" {
		return fmt.Errorf("order %s has no recipient email", order.ID)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(order.UserEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(fmt.Sprintf("SneakPeak - Order %s %s", order.ID, order.Status))
	msg.SetBodyString(mail.TypeTextHTML, receiptHTML(order))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"order_id":  order.ID,
		"recipient": order.UserEmail,
	}).Info("Sending order receipt")

	return client.DialAndSendWithContext(ctx, msg)
}

// receiptHTML renders the order receipt body
func receiptHTML(order *domain.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>$%.2f</td>
				<td>$%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">SneakPeak - Order Receipt</h2>
		<p>Your order #%s status: <strong>%s</strong></p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left;">Item</th>
					<th style="padding: 10px; text-align: left;">Qty</th>
					<th style="padding: 10px; text-align: left;">Unit price</th>
					<th style="padding: 10px; text-align: left;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>
		<p>Subtotal: $%.2f<br>
		Tax: $%.2f<br>
		Shipping: $%.2f</p>
		<p style="font-size: 16px;"><strong>Total: $%.2f</strong></p>
		<p style="margin-top: 30px; color: #555;">Thanks for shopping with us,<br><strong>The SneakPeak team</strong></p>
	</div>
</body>
</html>`, order.ID, order.Status, itemsHTML, order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice)
}
