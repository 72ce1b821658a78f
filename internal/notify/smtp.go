package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPNotifier sends messages as email.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(ctx context.Context, addr string, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	n := &SMTPNotifier{cfg: cfg}
	n.send = n.sendMail
	return n
}

func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("smtp: message %q has no recipient", msg.Kind)
	}
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	err := n.send(ctx, addr, n.cfg.From, []string{msg.To}, buildMail(n.cfg.From, msg))
	if err != nil {
		err = fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	observe("smtp", msg, err)
	return err
}

// buildMail renders the RFC 5322 message. HTML wins over Text when both are
// set.
func buildMail(from string, msg Message) []byte {
	contentType, body := "text/plain; charset=UTF-8", msg.Text
	if msg.HTML != "" {
		contentType, body = "text/html; charset=UTF-8", msg.HTML
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// sendMail is smtp.SendMail with a dial deadline from the config and ctx.
func (n *SMTPNotifier) sendMail(ctx context.Context, addr, from string, to []string, msg []byte) error {
	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(time.Minute))
	}

	c, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return err
		}
	}
	if n.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
