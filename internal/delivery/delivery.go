// Package delivery sends composed digests to readers.
package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
)

// ErrDisabled is returned by senders that are switched off by configuration
var ErrDisabled = errors.New("delivery disabled")

// Message is one outgoing email. Body is HTML; Text is an optional plain alternative.
type Message struct {
	Subject string
	Body    string
	Text    string
	To      []string
	From    string
}

// Sender delivers a message. Implementations make a single attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Disabled is the Sender used when no transport is configured
type Disabled struct{}

// Send always returns ErrDisabled
func (Disabled) Send(ctx context.Context, msg Message) error { return ErrDisabled }

// ParseRecipients splits a comma-separated address list, dropping blanks
func ParseRecipients(list string) ([]string, error) {
	var out []string
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("parse recipient %q: %w", raw, err)
		}
		out = append(out, addr.Address)
	}
	return out, nil
}

// Validate checks the message has what a transport needs
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return errors.New("message has no recipients")
	}
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.From, err)
	}
	if m.Body == "" {
		return errors.New("message has no body")
	}
	return nil
}

// Build renders msg as a MIME message: multipart/alternative when Text is
// set, a single text/html part otherwise
func Build(msg Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	header := textproto.MIMEHeader{}
	header.Set("From", msg.From)
	header.Set("To", strings.Join(msg.To, ", "))
	header.Set("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header.Set("Date", now.Format(time.RFC1123Z))
	header.Set("MIME-Version", "1.0")

	if msg.Text == "" {
		header.Set("Content-Type", "text/html; charset=utf-8")
		header.Set("Content-Transfer-Encoding", "quoted-printable")
		writeHeader(&buf, header)
		if err := writeQP(&buf, msg.Body); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header.Set("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	writeHeader(&buf, header)

	for _, part := range []struct{ contentType, content string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.Body},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("create part: %w", err)
		}
		if err := writeQP(w, part.content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

var headerOrder = []string{"From", "To", "Subject", "Date", "MIME-Version", "Content-Type", "Content-Transfer-Encoding"}

func writeHeader(buf *bytes.Buffer, h textproto.MIMEHeader) {
	for _, key := range headerOrder {
		if v := h.Get(key); v != "" {
			fmt.Fprintf(buf, "%s: %s\r\n", key, v)
		}
	}
	buf.WriteString("\r\n")
}

func writeQP(w io.Writer, content string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(content)); err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	return qp.Close()
}
