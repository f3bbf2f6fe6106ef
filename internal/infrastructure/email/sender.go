package email

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Sender interface {
	SendOrderConfirmation(ctx context.Context, event domain.OrderPlacedEvent) error
}

type smtpSender struct {
	from     string
	password string
	host     string
	port     string
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewSMTPSender(logger *zap.Logger) Sender {
	return &smtpSender{
		from:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		logger:   logger,
		tracer:   otel.Tracer("infrastructure/email"),
	}
}

func (s *smtpSender) SendOrderConfirmation(ctx context.Context, event domain.OrderPlacedEvent) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendOrderConfirmation")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", event.CustomerEmail),
		attribute.String("order.public_id", event.PublicID),
	)

	var items strings.Builder
	for _, item := range event.Items {
		fmt.Fprintf(&items, "<li>%s x%d</li>", item.Name, item.Quantity)
	}

	subject := fmt.Sprintf("Subject: Your order %s is confirmed.\n", event.PublicID)
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`
		<h1>Thanks for your order, %s! 🎉</h1>
		<p>Order <b>%s</b> has been placed successfully.</p>
		<ul>%s</ul>
		<p>Total: %d.%02d</p>
	`, event.CustomerName, event.PublicID, items.String(), event.Total/100, event.Total%100)

	msg := []byte(subject + mime + body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	mylogger.Info(
		ctx,
		s.logger,
		"Sending order confirmation email",
		zap.String("to", event.CustomerEmail),
		zap.String("public_id", event.PublicID),
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{event.CustomerEmail}, msg); err != nil {
		span.RecordError(err)
		mylogger.Error(
			ctx,
			s.logger,
			"Error sending order confirmation email",
			zap.String("to", event.CustomerEmail),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %v", err)
	}

	mylogger.Info(ctx, s.logger, "Order confirmation email sent successfully")
	return nil
}
