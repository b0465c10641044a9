package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shoplux/shoplux-backend/internal/orders"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
)

// Template keys in the email_templates table.
const (
	TemplateOrderConfirmation = "order_confirmation"
	TemplateOrderShipped      = "order_shipped"
)

// Built-in copy used when no active template row exists for a key.
const (
	defaultConfirmationSubject = "Order {{order_number}} confirmed"
	defaultConfirmationBody    = `<p>Hi {{customer_name}},</p>
<p>Thanks for your order <strong>{{order_number}}</strong>. Here is what you bought:</p>
<table>{{items_html}}</table>
<p>Subtotal: {{subtotal}}<br>Discount: {{discount}}<br>Shipping ({{shipping_method}}): {{shipping}}<br>Tax: {{tax}}<br><strong>Total: {{total}}</strong></p>
<p>Payment method: {{payment_method}}</p>`

	defaultShippedSubject = "Order {{order_number}} is on its way"
	defaultShippedBody    = `<p>Hi {{customer_name}},</p>
<p>Your order <strong>{{order_number}}</strong> has shipped via {{shipping_method}}.</p>`
)

// Service renders transactional emails from stored templates and hands them
// to the configured sender.
type Service interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, order *orders.OrderDTO) error
	SendShippingNotification(ctx context.Context, toEmail string, order *orders.OrderDTO) error
}

type templateLoader interface {
	FindActiveByKey(ctx context.Context, key string) (*models.EmailTemplate, error)
}

type service struct {
	templates templateLoader
	sender    Sender
	from      string
	logg      *logger.Logger
}

// NewService wires the email dependencies.
func NewService(templates templateLoader, sender Sender, fromAddress string, logg *logger.Logger) (Service, error) {
	if templates == nil {
		return nil, fmt.Errorf("email template repository required")
	}
	if sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if strings.TrimSpace(fromAddress) == "" {
		return nil, fmt.Errorf("default from address required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		templates: templates,
		sender:    sender,
		from:      fromAddress,
		logg:      logg,
	}, nil
}

func (s *service) SendOrderConfirmation(ctx context.Context, toEmail string, order *orders.OrderDTO) error {
	return s.send(ctx, TemplateOrderConfirmation, defaultConfirmationSubject, defaultConfirmationBody, toEmail, order)
}

func (s *service) SendShippingNotification(ctx context.Context, toEmail string, order *orders.OrderDTO) error {
	return s.send(ctx, TemplateOrderShipped, defaultShippedSubject, defaultShippedBody, toEmail, order)
}

func (s *service) send(ctx context.Context, key, fallbackSubject, fallbackBody, toEmail string, order *orders.OrderDTO) error {
	if strings.TrimSpace(toEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}

	subject, body := fallbackSubject, fallbackBody
	template, err := s.templates.FindActiveByKey(ctx, key)
	switch {
	case err != nil:
		// A broken template store should not block the mail; fall back to
		// the built-in copy.
		s.logg.Error(ctx, "load email template failed, using default", err)
	case template != nil:
		subject, body = template.Subject, template.BodyHTML
	}

	vars := templateVars(order)
	msg := Message{
		To:       toEmail,
		From:     s.from,
		Subject:  renderTemplate(subject, vars),
		BodyHTML: renderTemplate(body, vars),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"template":     key,
		"order_number": order.OrderNumber,
	})
	s.logg.Info(logCtx, "transactional email sent")
	return nil
}

func templateVars(order *orders.OrderDTO) map[string]string {
	return map[string]string{
		"customer_name":   html.EscapeString(order.ShippingAddress.FullName),
		"order_number":    order.OrderNumber,
		"items_html":      itemsHTML(order),
		"subtotal":        formatAmount(order.SubtotalCents, order.Currency),
		"discount":        formatAmount(order.DiscountCents, order.Currency),
		"shipping":        formatAmount(order.ShippingCents, order.Currency),
		"tax":             formatAmount(order.TaxCents, order.Currency),
		"total":           formatAmount(order.TotalCents, order.Currency),
		"payment_method":  order.PaymentMethod,
		"shipping_method": html.EscapeString(order.ShippingMethodName),
	}
}

func itemsHTML(order *orders.OrderDTO) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(item.Title),
			item.Quantity,
			formatAmount(item.LineTotalCents, order.Currency),
		)
	}
	return rows.String()
}

func formatAmount(cents int64, currency string) string {
	amount := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}
