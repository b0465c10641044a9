package email

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shoplux/shoplux-backend/internal/orders"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

type fakeTemplates struct {
	byKey map[string]*models.EmailTemplate
	err   error
}

func (f *fakeTemplates) FindActiveByKey(ctx context.Context, key string) (*models.EmailTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byKey[key], nil
}

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func testOrder() *orders.OrderDTO {
	return &orders.OrderDTO{
		ID:          uuid.New(),
		OrderNumber: "SL2608294321",
		Status:      "pending",
		Currency:    "XOF",
		Items: types.OrderItems{
			{ProductID: uuid.New(), SKU: "TSHIRT-M", Title: "Wax Print Tee", Quantity: 2, UnitPriceCents: 500000, LineTotalCents: 1000000},
		},
		ShippingAddress:    types.PostalAddress{FullName: "Awa Diop", Phone: "+221771234567", Line1: "12 Rue Felix Faure", City: "Dakar", CountryCode: "SN"},
		ShippingMethodName: "Standard delivery",
		PaymentMethod:      "cash_on_delivery",
		SubtotalCents:      1000000,
		ShippingCents:      250000,
		TaxCents:           200000,
		TotalCents:         1450000,
	}
}

func newEmailService(t *testing.T, templates templateLoader, sender Sender) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "email-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(templates, sender, "orders@shoplux.sn", logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRenderTemplateSubstitution(t *testing.T) {
	t.Parallel()

	out := renderTemplate("Order {{order_number}} total {{total}} {{unknown}}", map[string]string{
		"order_number": "SL2608294321",
		"total":        "14500.00 XOF",
	})
	if out != "Order SL2608294321 total 14500.00 XOF {{unknown}}" {
		t.Fatalf("unexpected render output %q", out)
	}
}

func TestSendOrderConfirmationUsesStoredTemplate(t *testing.T) {
	templates := &fakeTemplates{byKey: map[string]*models.EmailTemplate{
		TemplateOrderConfirmation: {
			Key:      TemplateOrderConfirmation,
			Subject:  "Merci {{customer_name}}, commande {{order_number}}",
			BodyHTML: "<p>Total: {{total}}</p>",
			IsActive: true,
		},
	}}
	sender := &recordingSender{}
	svc := newEmailService(t, templates, sender)

	if err := svc.SendOrderConfirmation(context.Background(), "awa@example.sn", testOrder()); err != nil {
		t.Fatalf("SendOrderConfirmation: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "awa@example.sn" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if msg.Subject != "Merci Awa Diop, commande SL2608294321" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.BodyHTML, "14500.00 XOF") {
		t.Fatalf("expected formatted total in body, got %q", msg.BodyHTML)
	}
}

func TestSendOrderConfirmationFallsBackToDefaultCopy(t *testing.T) {
	sender := &recordingSender{}
	svc := newEmailService(t, &fakeTemplates{}, sender)

	if err := svc.SendOrderConfirmation(context.Background(), "awa@example.sn", testOrder()); err != nil {
		t.Fatalf("SendOrderConfirmation: %v", err)
	}
	msg := sender.sent[0]
	if msg.Subject != "Order SL2608294321 confirmed" {
		t.Fatalf("unexpected fallback subject %q", msg.Subject)
	}
	if !strings.Contains(msg.BodyHTML, "Wax Print Tee") {
		t.Fatalf("expected item row in body, got %q", msg.BodyHTML)
	}
}

func TestSendOrderConfirmationTemplateStoreFailureStillSends(t *testing.T) {
	sender := &recordingSender{}
	svc := newEmailService(t, &fakeTemplates{err: errors.New("db down")}, sender)

	if err := svc.SendOrderConfirmation(context.Background(), "awa@example.sn", testOrder()); err != nil {
		t.Fatalf("expected fallback send, got %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
}

func TestSendShippingNotification(t *testing.T) {
	sender := &recordingSender{}
	svc := newEmailService(t, &fakeTemplates{}, sender)

	if err := svc.SendShippingNotification(context.Background(), "awa@example.sn", testOrder()); err != nil {
		t.Fatalf("SendShippingNotification: %v", err)
	}
	msg := sender.sent[0]
	if !strings.Contains(msg.BodyHTML, "Standard delivery") {
		t.Fatalf("expected shipping method in body, got %q", msg.BodyHTML)
	}
}

func TestSendValidatesInput(t *testing.T) {
	svc := newEmailService(t, &fakeTemplates{}, &recordingSender{})

	if err := svc.SendOrderConfirmation(context.Background(), "", testOrder()); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	if err := svc.SendOrderConfirmation(context.Background(), "awa@example.sn", nil); err == nil {
		t.Fatal("expected error for nil order")
	}
}

func TestSendWrapsSenderFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("provider down")}
	svc := newEmailService(t, &fakeTemplates{}, sender)

	err := svc.SendOrderConfirmation(context.Background(), "awa@example.sn", testOrder())
	if err == nil {
		t.Fatal("expected error from sender")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
