package delivery

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/ppiankov/paperdigest/internal/logging"
	"github.com/ppiankov/paperdigest/internal/model"
	"go.uber.org/zap"
)

// SMTPSender delivers over SMTP, upgrading with STARTTLS when offered
type SMTPSender struct {
	host      string
	port      int
	user      string
	password  string
	tlsConfig *tls.Config
	timeout   time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewSender returns an SMTP sender, or Disabled when no host is configured
func NewSender(cfg model.SMTPConfig, logger *zap.Logger) Sender {
	if cfg.Host == "" {
		return Disabled{}
	}
	return NewSMTPSender(cfg, logger)
}

// NewSMTPSender creates an SMTP sender for cfg
func NewSMTPSender(cfg model.SMTPConfig, logger *zap.Logger) *SMTPSender {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:      cfg.Host,
		port:      port,
		user:      cfg.User,
		password:  cfg.Password,
		tlsConfig: &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
		timeout:   30 * time.Second,
		now:       time.Now,
		logger:    logging.OrNop(logger),
	}
}

// Send makes one delivery attempt
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	data, err := Build(msg, s.now())
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(s.timeout))
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = c.Close() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	} else {
		s.logger.Warn("SMTP server does not offer STARTTLS", zap.String("host", s.host))
	}

	if s.user != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp server does not support AUTH")
		}
		if err := c.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, to := range msg.To {
		if err := c.Rcpt(to); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", to, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	s.logger.Debug("Email sent", zap.Strings("to", msg.To))
	return c.Quit()
}
