package services

import (
	"context"
	"errors"
	"testing"

	"github.com/act/eventportal/internal/app/models"
)

func TestContactInquiryMail(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.ContactInquiry(context.Background(), "Meera", "meera@mail.com", "When is the expo?")

	mails := env.mail.messages()
	if len(mails) != 1 {
		t.Fatalf("expected one mail, got %d", len(mails))
	}
	m := mails[0]
	if m.To != "office@college.edu" || m.Subject != "New Contact Inquiry from Meera" {
		t.Errorf("unexpected envelope %+v", m)
	}
	if want := "From: Meera <meera@mail.com>\n\nWhen is the expo?"; m.Body != want {
		t.Errorf("body = %q, want %q", m.Body, want)
	}
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	env := newTestEnv(t)
	env.mail.failWith = errors.New("smtp down")

	// must not panic or block
	env.notifier.FacultyRejected(context.Background(), &models.Faculty{Email: "x@college.edu"}, "Duplicate")
	if n := len(env.mail.messages()); n != 0 {
		t.Errorf("expected nothing recorded, got %d", n)
	}
}
