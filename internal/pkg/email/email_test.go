package email

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/mail"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestSender() *SMTPSender {
	return NewSMTPSender(SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		FromName:  "Event Portal",
		FromEmail: "noreply@example.com",
	}, zerolog.Nop())
}

func TestBuildMessageKeepsHeadersOnOneLine(t *testing.T) {
	s := newTestSender()
	raw := s.buildMessage("office@example.com",
		"New Contact Inquiry from Eve\r\nBcc: list@example.com\r\nContent-Type: text/html\r\n\r\n<b>hi</b>",
		"body text")

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("message does not parse: %v", err)
	}

	if got := msg.Header.Get("Bcc"); got != "" {
		t.Errorf("subject injected a Bcc header: %q", got)
	}
	if got := msg.Header.Get("Content-Type"); got != "text/plain; charset=UTF-8" {
		t.Errorf("Content-Type = %q", got)
	}
	for key := range msg.Header {
		switch key {
		case "From", "To", "Subject", "Mime-Version", "Content-Type":
		default:
			t.Errorf("unexpected header %q", key)
		}
	}

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		t.Fatalf("decode subject: %v", err)
	}
	if strings.ContainsAny(subject, "\r\n") || !strings.HasPrefix(subject, "New Contact Inquiry from Eve Bcc: list@example.com") {
		t.Errorf("subject = %q", subject)
	}

	body, _ := io.ReadAll(msg.Body)
	if string(body) != "body text" {
		t.Errorf("body = %q", body)
	}
}

func TestBuildMessageEncodesNonASCIISubject(t *testing.T) {
	raw := newTestSender().buildMessage("a@example.com", "Café meetup", "x")
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("message does not parse: %v", err)
	}
	encoded := msg.Header.Get("Subject")
	if !strings.HasPrefix(encoded, "=?utf-8?q?") {
		t.Errorf("subject not encoded: %q", encoded)
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(encoded)
	if err != nil || decoded != "Café meetup" {
		t.Errorf("decoded subject %q, err %v", decoded, err)
	}
}

func TestBuildMessageSanitizesRecipient(t *testing.T) {
	raw := newTestSender().buildMessage("a@example.com\r\nCc: b@example.com", "Hello", "x")
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("message does not parse: %v", err)
	}
	if msg.Header.Get("Cc") != "" {
		t.Errorf("recipient injected a Cc header")
	}
	if got := msg.Header.Get("Subject"); got != "Hello" {
		t.Errorf("plain subject changed to %q", got)
	}
}

func TestSendWithoutCredentialsOnlyLogs(t *testing.T) {
	var logs bytes.Buffer
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.New(&logs))
	if s.Configured() {
		t.Fatal("sender without credentials reports configured")
	}
	if err := s.Send(context.Background(), "a@example.com", "Hello", "x"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(logs.String(), "email logged instead of sent") {
		t.Errorf("missing dev-mode log line: %s", logs.String())
	}
}
