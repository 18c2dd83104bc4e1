package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer delivers the e-mails sent by the identity provider
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type GomailMailer struct {
	Sender string
	dialer *gomail.Dialer
}

func NewGomailMailer(host string, port int, sender, password string) *GomailMailer {
	return &GomailMailer{
		Sender: sender,
		dialer: gomail.NewDialer(host, port, sender, password),
	}
}

// MailerFromConfig reads the mail.* keys
func MailerFromConfig() *GomailMailer {
	return NewGomailMailer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		viper.GetString("mail.sender"),
		viper.GetString("mail.password"),
	)
}

func (m *GomailMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if to == m.Sender {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail, %w", err)
		}

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
