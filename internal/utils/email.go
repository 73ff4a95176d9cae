package utils

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gravity_back_end/internal/config"
	"gravity_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

var ErrMailDisabled = errors.New("SMTP non configuré")

// Mailer envoie les e-mails transactionnels via SMTP
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

// buildMessage prépare le message sans l'envoyer
func (m *Mailer) buildMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("expéditeur invalide: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("destinataire invalide: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !m.Enabled() {
		return ErrMailDisabled
	}

	msg, err := m.buildMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSendWithContext(ctx, msg)
}

// SendOrderConfirmation envoie le récapitulatif de commande au client
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order models.Order) error {
	html, err := RenderOrderConfirmation(order)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Confirmación de tu pedido %s", order.TrackingCode)
	return m.Send(ctx, order.Customer.Email, subject, html)
}
