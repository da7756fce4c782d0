package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/app/repositories/memstore"
	"github.com/act/eventportal/internal/pkg/apperrors"
	"github.com/act/eventportal/internal/pkg/auth"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

type sentMail struct {
	To, Subject, Body string
}

// recordingSender captures outbound mail; failWith makes every send fail
type recordingSender struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

func (r *recordingSender) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.sent = append(r.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (r *recordingSender) messages() []sentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMail(nil), r.sent...)
}

type testEnv struct {
	store    *memstore.Store
	repos    *repositories.Repositories
	mail     *recordingSender
	tokens   *auth.ResetTokenService
	admin    AdminService
	faculty  FacultyService
	student  StudentService
	notifier NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	repos := store.Repositories()
	mail := &recordingSender{}
	logger := zerolog.Nop()
	notifier := NewNotificationService(mail, NotificationConfig{
		FrontendURL:      "http://localhost:5173",
		ContactRecipient: "office@college.edu",
	}, logger)
	tokens := auth.NewResetTokenService(auth.ResetTokenConfig{
		SecretKey:   "test-secret",
		Expiration:  time.Minute,
		TokenIssuer: "eventportal-test",
	})

	return &testEnv{
		store:    store,
		repos:    repos,
		mail:     mail,
		tokens:   tokens,
		admin:    NewAdminService(repos, store, notifier, tokens, logger),
		faculty:  NewFacultyService(repos, logger),
		student:  NewStudentService(repos, logger),
		notifier: notifier,
	}
}

func (e *testEnv) seedAdmin(t *testing.T, email, password string) *models.Admin {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	admin := &models.Admin{Username: "admin", Email: email, Password: hash}
	if _, err := e.repos.Admins.Create(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

// seedFaculty stores a faculty member; an empty password leaves it unset
func (e *testEnv) seedFaculty(t *testing.T, email string, approved bool, password string) *models.Faculty {
	t.Helper()
	f := &models.Faculty{Name: "Faculty " + email, Email: email, Department: "CSE", Approved: approved}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			t.Fatal(err)
		}
		f.Password = &hash
	}
	if _, err := e.repos.Faculties.Create(context.Background(), f); err != nil {
		t.Fatalf("seed faculty: %v", err)
	}
	return f
}

func (e *testEnv) seedStudent(t *testing.T, email string) *models.Student {
	t.Helper()
	hash, err := auth.HashPassword("student-pass")
	if err != nil {
		t.Fatal(err)
	}
	s := &models.Student{Name: "Student " + email, Email: email, Department: "ECE", Password: hash}
	if _, err := e.repos.Students.Create(context.Background(), s); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return s
}

func (e *testEnv) seedEvent(t *testing.T, name string, facultyID *int64) *models.Event {
	t.Helper()
	ev := &models.Event{Name: name, Date: "2025-03-14", Venue: "Hall A", FacultyID: facultyID}
	if _, err := e.repos.Events.Create(context.Background(), ev); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

func (e *testEnv) register(t *testing.T, studentID, eventID int64) {
	t.Helper()
	if _, err := e.repos.Registrations.Create(context.Background(), studentID, eventID); err != nil {
		t.Fatalf("seed registration: %v", err)
	}
}

// assertErr checks both the sentinel and the client-facing message of err
func assertErr(t *testing.T, err, sentinel error, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", message)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v does not wrap %v", err, sentinel)
	}
	if got := apperrors.MessageOf(err, ""); message != "" && got != message {
		t.Errorf("message = %q, want %q", got, message)
	}
}

func int64Ptr(v int64) *int64 { return &v }
