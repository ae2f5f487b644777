package notify

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/mdrrmo/bantay-api/internal/config"
	"github.com/mdrrmo/bantay-api/internal/domain"
	"github.com/mdrrmo/bantay-api/internal/logger"
)

// EmailSender delivers verification codes over SMTP. Port 465 means
// implicit TLS; any other port upgrades with STARTTLS.
type EmailSender struct {
	config *config.Email
	auth   smtp.Auth
}

func NewEmailSender(cfg *config.Email) *EmailSender {
	return &EmailSender{
		config: cfg,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPServer),
	}
}

func (e *EmailSender) SendCode(_ domain.Channel, destination, recipientName, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf(`Hello %s,

Your verification code is:

%s

It expires in a few minutes. If you did not request this, you can ignore this message.
`, recipientName, code)

	msg := e.buildMessage(destination, subject, body)
	address := fmt.Sprintf("%s:%d", e.config.SMTPServer, e.config.SMTPPort)

	if e.config.SMTPPort == 465 {
		return e.sendImplicitTLS(address, destination, msg)
	}
	return e.sendSTARTTLS(address, destination, msg)
}

func (e *EmailSender) timeout() time.Duration {
	if e.config.Timeout == 0 {
		return 10 * time.Second
	}
	return time.Duration(e.config.Timeout) * time.Second
}

func (e *EmailSender) sendImplicitTLS(address, recipient string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: e.config.SMTPServer}
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: e.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return e.sendViaClient(client, recipient, msg)
}

func (e *EmailSender) sendSTARTTLS(address, recipient string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, e.timeout())
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: e.config.SMTPServer}); err != nil {
		logger.Log.Error("failed to start TLS", "error", err)
		return err
	}

	return e.sendViaClient(client, recipient, msg)
}

func (e *EmailSender) sendViaClient(client *smtp.Client, recipient string, msg []byte) error {
	if err := client.Auth(e.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}
	if err := client.Mail(e.config.Username); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (e *EmailSender) buildMessage(recipient, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", e.config.SenderName)

	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), e.config.SMTPServer)
	date := time.Now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		msgID, date, recipient, encodedSenderName, e.config.Username, encodedSubject, body,
	)
}
