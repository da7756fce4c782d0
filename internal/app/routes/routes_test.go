package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/act/eventportal/internal/app/controllers"
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/app/repositories/memstore"
	"github.com/act/eventportal/internal/app/services"
	"github.com/act/eventportal/internal/middleware"
	"github.com/act/eventportal/internal/pkg/auth"
	"github.com/act/eventportal/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const cookieName = "TEST_SESSION"

func init() {
	gin.SetMode(gin.TestMode)
	auth.BcryptCost = bcrypt.MinCost
	middleware.ConfigureValidator()
}

type mailbox struct {
	mu  sync.Mutex
	all []string
}

func (m *mailbox) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = append(m.all, to+"|"+subject)
	return nil
}

func (m *mailbox) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.all)
}

type app struct {
	router http.Handler
	repos  *repositories.Repositories
	mail   *mailbox
}

func newApp(t *testing.T) *app {
	t.Helper()
	store := memstore.New()
	repos := store.Repositories()
	mail := &mailbox{}
	log := zerolog.Nop()

	sessions := session.NewManager(session.NewMemoryStore(), session.CookieConfig{Name: cookieName})
	notifier := services.NewNotificationService(mail, services.NotificationConfig{
		FrontendURL:      "http://localhost:5173",
		ContactRecipient: "office@college.edu",
	}, log)
	tokens := auth.NewResetTokenService(auth.ResetTokenConfig{
		SecretKey:   "route-secret",
		Expiration:  time.Minute,
		TokenIssuer: "eventportal-test",
	})

	router := gin.New()
	SetupRouter(router,
		controllers.NewAdminController(services.NewAdminService(repos, store, notifier, tokens, log), sessions, log),
		controllers.NewFacultyController(services.NewFacultyService(repos, log), sessions, log),
		controllers.NewStudentController(services.NewStudentService(repos, log), sessions, log),
		controllers.NewContactController(notifier),
		controllers.NewHealthController(map[string]controllers.Pinger{
			"database": controllers.PingFunc(func(context.Context) error { return nil }),
		}),
		middleware.NewAuthMiddleware(sessions, repos),
	)

	return &app{router: router, repos: repos, mail: mail}
}

// client carries the session cookie between requests like a browser would
type client struct {
	t      *testing.T
	app    *app
	cookie *http.Cookie
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *app) client(t *testing.T) *client {
	return &client{t: t, app: a}
}

func (c *client) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name != cookieName {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			c.cookie = nil
		} else {
			c.cookie = ck
		}
	}

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			c.t.Fatalf("%s %s: invalid json %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

// expect performs a request and fails unless the status matches
func (c *client) expect(status int, method, path string, body interface{}) envelope {
	c.t.Helper()
	code, env := c.do(method, path, body)
	if code != status {
		msg := env.Message
		if env.Error != nil {
			msg = env.Error.Message
		}
		c.t.Fatalf("%s %s: status %d, want %d (%s)", method, path, code, status, msg)
	}
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode %s: %v", env.Data, err)
	}
	return v
}

func errorMessage(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Message
}

func (a *app) seedAdmin(t *testing.T, email, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.repos.Admins.Create(context.Background(), &models.Admin{Username: "root", Email: email, Password: hash}); err != nil {
		t.Fatal(err)
	}
}

func (a *app) seedEvent(t *testing.T, name string) int64 {
	t.Helper()
	id, err := a.repos.Events.Create(context.Background(), &models.Event{Name: name, Date: "2025-03-14", Venue: "Hall A"})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func (c *client) signupStudent(email string) int64 {
	c.t.Helper()
	env := c.expect(http.StatusOK, http.MethodPost, "/api/students/signup", map[string]string{
		"name": "Arun", "email": email, "password": "student-pass", "department": "ECE",
	})
	return decode[struct {
		ID int64 `json:"id"`
	}](c.t, env).ID
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	a := newApp(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/me"},
		{http.MethodGet, "/api/admin/faculties"},
		{http.MethodPost, "/api/admin/create-event"},
		{http.MethodDelete, "/api/admin/events/1"},
		{http.MethodGet, "/api/faculty/me"},
		{http.MethodGet, "/api/faculty/events"},
		{http.MethodPost, "/api/faculty/events/1/attendance?studentId=1&present=true"},
		{http.MethodGet, "/api/students/profile"},
		{http.MethodPost, "/api/students/register-event/1"},
		{http.MethodGet, "/api/students/events/1/attendance"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			code, env := a.client(t).do(r.method, r.path, nil)
			if code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", code)
			}
			if msg := errorMessage(env); msg != "Not logged in" {
				t.Errorf("message %q", msg)
			}
		})
	}
}

func TestWrongRoleIsRejected(t *testing.T) {
	a := newApp(t)
	student := a.client(t)
	student.signupStudent("arun@college.edu")
	student.expect(http.StatusOK, http.MethodPost, "/api/students/login", map[string]string{
		"email": "arun@college.edu", "password": "student-pass",
	})

	student.expect(http.StatusOK, http.MethodGet, "/api/students/profile", nil)
	for _, path := range []string{"/api/admin/me", "/api/faculty/events"} {
		if code, env := student.do(http.MethodGet, path, nil); code != http.StatusUnauthorized || errorMessage(env) != "Not logged in" {
			t.Errorf("GET %s with a student session: %d %q", path, code, errorMessage(env))
		}
	}
}

func TestLoginReplacesPreviousRole(t *testing.T) {
	a := newApp(t)
	a.seedAdmin(t, "admin@college.edu", "admin-pass")
	c := a.client(t)
	c.signupStudent("arun@college.edu")

	c.expect(http.StatusOK, http.MethodPost, "/api/students/login", map[string]string{
		"email": "arun@college.edu", "password": "student-pass",
	})
	c.expect(http.StatusOK, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "admin@college.edu", "password": "admin-pass",
	})

	c.expect(http.StatusOK, http.MethodGet, "/api/admin/me", nil)
	c.expect(http.StatusUnauthorized, http.MethodGet, "/api/students/profile", nil)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	c.signupStudent("arun@college.edu")
	c.expect(http.StatusOK, http.MethodPost, "/api/students/login", map[string]string{
		"email": "arun@college.edu", "password": "student-pass",
	})
	stolen := *c.cookie

	env := c.expect(http.StatusOK, http.MethodPost, "/api/students/logout", nil)
	if env.Message != "Logged out successfully" {
		t.Errorf("logout message %q", env.Message)
	}
	c.expect(http.StatusUnauthorized, http.MethodGet, "/api/students/profile", nil)

	// replaying the old cookie must not revive the session
	c.cookie = &stolen
	c.expect(http.StatusUnauthorized, http.MethodGet, "/api/students/profile", nil)

	// logging out twice is harmless
	c.expect(http.StatusOK, http.MethodPost, "/api/students/logout", nil)
}

func TestDeletedPrincipalLosesAccess(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	id := c.signupStudent("arun@college.edu")
	c.expect(http.StatusOK, http.MethodPost, "/api/students/login", map[string]string{
		"email": "arun@college.edu", "password": "student-pass",
	})

	if err := a.repos.Students.Delete(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	env := c.expect(http.StatusUnauthorized, http.MethodGet, "/api/students/profile", nil)
	if errorMessage(env) != "Not logged in" {
		t.Errorf("message %q", errorMessage(env))
	}
}

func TestLoginFailures(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	c.signupStudent("arun@college.edu")

	env := c.expect(http.StatusUnauthorized, http.MethodPost, "/api/students/login", map[string]string{
		"email": "arun@college.edu", "password": "wrong-pass",
	})
	if errorMessage(env) != "Invalid credentials" {
		t.Errorf("message %q", errorMessage(env))
	}
	if c.cookie != nil {
		t.Error("failed login must not set a session cookie")
	}

	c.expect(http.StatusUnauthorized, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "nobody@college.edu", "password": "whatever",
	})
}

func TestRequestValidation(t *testing.T) {
	a := newApp(t)
	c := a.client(t)

	env := c.expect(http.StatusBadRequest, http.MethodPost, "/api/students/signup", map[string]string{
		"name": "Arun", "email": "not-an-email", "password": "student-pass",
	})
	if env.Success || env.Error == nil {
		t.Fatalf("expected an error envelope, got %+v", env)
	}

	c.signupStudent("arun@college.edu")
	env = c.expect(http.StatusBadRequest, http.MethodPost, "/api/students/signup", map[string]string{
		"name": "Arun again", "email": "arun@college.edu", "password": "student-pass",
	})
	if errorMessage(env) != "Email already exists" {
		t.Errorf("duplicate signup message %q", errorMessage(env))
	}
}

func TestStudentRegistrationFlow(t *testing.T) {
	a := newApp(t)
	eventID := a.seedEvent(t, "AI Symposium")
	c := a.client(t)
	c.signupStudent("arun@college.edu")
	c.expect(http.StatusOK, http.MethodPost, "/api/students/login", map[string]string{
		"email": "arun@college.edu", "password": "student-pass",
	})

	register := fmt.Sprintf("/api/students/register-event/%d", eventID)
	c.expect(http.StatusOK, http.MethodPost, register, nil)
	env := c.expect(http.StatusBadRequest, http.MethodPost, register, nil)
	if errorMessage(env) != "Already registered" || env.Error.Code != "CONFLICT" {
		t.Errorf("second registration: %q %+v", errorMessage(env), env.Error)
	}

	c.expect(http.StatusNotFound, http.MethodPost, "/api/students/register-event/9999", nil)
	c.expect(http.StatusBadRequest, http.MethodPost, "/api/students/register-event/abc", nil)

	registered := decode[[]map[string]interface{}](t, c.expect(http.StatusOK, http.MethodGet, "/api/students/registered-events", nil))
	if len(registered) != 1 || registered[0]["facultyName"] != "Unassigned" {
		t.Fatalf("registered events %+v", registered)
	}
	if registered[0]["facultyEmail"] != nil {
		t.Errorf("unassigned event must expose a null facultyEmail, got %v", registered[0]["facultyEmail"])
	}

	attendance := decode[struct {
		EventID    int64 `json:"eventId"`
		Attendance *bool `json:"attendance"`
	}](t, c.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/api/students/events/%d/attendance", eventID), nil))
	if attendance.EventID != eventID || attendance.Attendance != nil {
		t.Errorf("attendance %+v", attendance)
	}

	c.expect(http.StatusOK, http.MethodPost, fmt.Sprintf("/api/students/unregister-event/%d", eventID), nil)
	env = c.expect(http.StatusBadRequest, http.MethodPost, fmt.Sprintf("/api/students/unregister-event/%d", eventID), nil)
	if errorMessage(env) != "Not registered for this event" {
		t.Errorf("unregister message %q", errorMessage(env))
	}
}

func TestFacultyLifecycleAndAttendance(t *testing.T) {
	a := newApp(t)
	a.seedAdmin(t, "admin@college.edu", "admin-pass")

	admin := a.client(t)
	admin.expect(http.StatusOK, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "admin@college.edu", "password": "admin-pass",
	})

	faculty := a.client(t)
	registered := decode[struct {
		ID       int64 `json:"id"`
		Approved bool  `json:"approved"`
	}](t, faculty.expect(http.StatusOK, http.MethodPost, "/api/faculty/register", map[string]string{
		"name": "Dr. Priya", "email": "priya@college.edu", "department": "CSE",
	}))
	if registered.Approved {
		t.Fatal("registration must be pending")
	}

	env := faculty.expect(http.StatusUnauthorized, http.MethodPost, "/api/faculty/login", map[string]string{
		"email": "priya@college.edu", "password": "anything",
	})
	if errorMessage(env) != "Not approved yet" {
		t.Errorf("pending login message %q", errorMessage(env))
	}

	pending := decode[[]map[string]interface{}](t, admin.expect(http.StatusOK, http.MethodGet, "/api/admin/unapproved-faculties", nil))
	if len(pending) != 1 {
		t.Fatalf("expected one pending faculty, got %d", len(pending))
	}

	admin.expect(http.StatusOK, http.MethodPut, fmt.Sprintf("/api/admin/approve-faculty/%d", registered.ID), nil)
	if a.mail.count() != 1 {
		t.Fatalf("expected an approval mail, got %d", a.mail.count())
	}
	admin.expect(http.StatusNotFound, http.MethodPut, "/api/admin/approve-faculty/9999", nil)

	faculty.expect(http.StatusOK, http.MethodPost, "/api/faculty/set-password?email=priya%40college.edu&password=faculty-pass", nil)
	faculty.expect(http.StatusBadRequest, http.MethodPost, "/api/faculty/set-password?email=priya%40college.edu&password=other-pass", nil)
	faculty.expect(http.StatusOK, http.MethodPost, "/api/faculty/login", map[string]string{
		"email": "priya@college.edu", "password": "faculty-pass",
	})

	created := decode[struct {
		ID          int64  `json:"id"`
		FacultyName string `json:"facultyName"`
	}](t, admin.expect(http.StatusOK, http.MethodPost, "/api/admin/create-event", map[string]interface{}{
		"name": "Hackathon", "date": "2025-04-01", "venue": "Lab 3", "facultyId": registered.ID,
	}))
	if created.FacultyName != "Dr. Priya" {
		t.Errorf("facultyName %q", created.FacultyName)
	}
	other := a.seedEvent(t, "Someone else's event")

	student := a.client(t)
	studentID := student.signupStudent("arun@college.edu")
	student.expect(http.StatusOK, http.MethodPost, "/api/students/login", map[string]string{
		"email": "arun@college.edu", "password": "student-pass",
	})

	mark := fmt.Sprintf("/api/faculty/events/%d/attendance?studentId=%d&present=true", created.ID, studentID)
	env = faculty.expect(http.StatusBadRequest, http.MethodPost, mark, nil)
	if errorMessage(env) != "Student not registered for this event" {
		t.Errorf("unregistered mark message %q", errorMessage(env))
	}

	student.expect(http.StatusOK, http.MethodPost, fmt.Sprintf("/api/students/register-event/%d", created.ID), nil)

	events := decode[[]map[string]interface{}](t, faculty.expect(http.StatusOK, http.MethodGet, "/api/faculty/events", nil))
	if len(events) != 1 || events[0]["name"] != "Hackathon" {
		t.Fatalf("assigned events %+v", events)
	}

	env = faculty.expect(http.StatusOK, http.MethodPost, mark, nil)
	if env.Message != "Attendance marked as Present" {
		t.Errorf("mark message %q", env.Message)
	}
	faculty.expect(http.StatusBadRequest, http.MethodPost, fmt.Sprintf("/api/faculty/events/%d/attendance?present=true", created.ID), nil)
	faculty.expect(http.StatusBadRequest, http.MethodPost, fmt.Sprintf("/api/faculty/events/%d/attendance?studentId=%d&present=maybe", created.ID, studentID), nil)

	code, env := faculty.do(http.MethodGet, fmt.Sprintf("/api/faculty/events/%d/students", other), nil)
	if code != http.StatusUnauthorized || errorMessage(env) != "Unauthorized access" {
		t.Errorf("foreign event roster: %d %q", code, errorMessage(env))
	}

	attendance := decode[struct {
		Attendance *bool `json:"attendance"`
	}](t, student.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/api/students/events/%d/attendance", created.ID), nil))
	if attendance.Attendance == nil || !*attendance.Attendance {
		t.Errorf("attendance %v, want true", attendance.Attendance)
	}

	sheet := decode[[]struct {
		StudentID  int64 `json:"studentId"`
		Attendance *bool `json:"attendance"`
	}](t, admin.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/api/admin/events/%d/students", created.ID), nil))
	if len(sheet) != 1 || sheet[0].StudentID != studentID || sheet[0].Attendance == nil || !*sheet[0].Attendance {
		t.Errorf("attendance sheet %+v", sheet)
	}
}

func TestAdminStatusCodes(t *testing.T) {
	a := newApp(t)
	a.seedAdmin(t, "admin@college.edu", "admin-pass")
	admin := a.client(t)
	admin.expect(http.StatusOK, http.MethodPost, "/api/admin/login", map[string]string{
		"email": "admin@college.edu", "password": "admin-pass",
	})

	admin.expect(http.StatusBadRequest, http.MethodGet, "/api/admin/events/abc/students", nil)
	admin.expect(http.StatusNotFound, http.MethodGet, "/api/admin/events/9999/students", nil)
	admin.expect(http.StatusNotFound, http.MethodDelete, "/api/admin/events/9999", nil)
	admin.expect(http.StatusNotFound, http.MethodPut, "/api/admin/events/9999/reassign/1", nil)
	admin.expect(http.StatusBadRequest, http.MethodPut, "/api/admin/reject-faculty/1", nil)

	env := admin.expect(http.StatusBadRequest, http.MethodPost, "/api/admin/create-event", map[string]interface{}{"venue": "Hall"})
	if errorMessage(env) != "Event name is required" {
		t.Errorf("create-event message %q", errorMessage(env))
	}
	admin.expect(http.StatusNotFound, http.MethodPost, "/api/admin/create-event", map[string]interface{}{"name": "Expo", "facultyId": 42})

	eventID := a.seedEvent(t, "Expo")
	updated := decode[map[string]interface{}](t, admin.expect(http.StatusOK, http.MethodPut, fmt.Sprintf("/api/admin/events/%d", eventID), map[string]interface{}{
		"venue": "Hall B",
	}))
	if updated["venue"] != "Hall B" || updated["name"] != "Expo" {
		t.Errorf("partial update result %+v", updated)
	}

	admin.expect(http.StatusOK, http.MethodDelete, fmt.Sprintf("/api/admin/events/%d", eventID), nil)
	events := decode[[]map[string]interface{}](t, admin.expect(http.StatusOK, http.MethodGet, "/api/admin/events", nil))
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}

	students := admin.expect(http.StatusOK, http.MethodGet, "/api/admin/students", nil)
	if strings.TrimSpace(string(students.Data)) != "[]" {
		t.Errorf("empty student list must serialize as [], got %s", students.Data)
	}
}

func TestAdminPasswordResetOverHTTP(t *testing.T) {
	a := newApp(t)
	a.seedAdmin(t, "admin@college.edu", "admin-pass")
	c := a.client(t)

	env := c.expect(http.StatusOK, http.MethodPost, "/api/admin/forgot-password", map[string]string{"email": "ghost@college.edu"})
	if env.Message != "If the email exists, a reset link has been sent" {
		t.Errorf("message %q", env.Message)
	}
	if a.mail.count() != 0 {
		t.Error("no mail expected for an unknown address")
	}

	c.expect(http.StatusOK, http.MethodPost, "/api/admin/forgot-password", map[string]string{"email": "admin@college.edu"})
	if a.mail.count() != 1 {
		t.Fatalf("expected one reset mail, got %d", a.mail.count())
	}

	c.expect(http.StatusBadRequest, http.MethodPost, "/api/admin/reset-password", map[string]string{
		"token": "garbage", "newPassword": "new-admin-pass",
	})
}

func TestPublicEndpoints(t *testing.T) {
	a := newApp(t)
	c := a.client(t)

	health := decode[struct {
		Status string `json:"status"`
	}](t, envelope{Data: mustBody(t, a, http.MethodGet, "/api/health")})
	if health.Status != "ok" {
		t.Errorf("health status %q", health.Status)
	}

	env := c.expect(http.StatusOK, http.MethodPost, "/api/contact", map[string]string{
		"name": "Visitor", "email": "visitor@example.com", "message": "Hello",
	})
	if env.Message != "Message sent successfully!" {
		t.Errorf("contact message %q", env.Message)
	}
	if a.mail.count() != 1 {
		t.Errorf("expected the contact mail, got %d", a.mail.count())
	}
	c.expect(http.StatusBadRequest, http.MethodPost, "/api/contact", map[string]string{"name": "Visitor"})

	bad := c.expect(http.StatusBadRequest, http.MethodPost, "/api/contact", map[string]string{
		"name": "Eve\r\nBcc: list@example.com", "email": "eve@example.com", "message": "Hi",
	})
	if bad.Error == nil || bad.Error.Message != "name must not contain line breaks" {
		t.Errorf("unexpected contact rejection %+v", bad.Error)
	}
	if a.mail.count() != 1 {
		t.Errorf("header-breaking name was mailed, count %d", a.mail.count())
	}
}

// mustBody returns the raw body of a request that must succeed
func mustBody(t *testing.T, a *app, method, path string) json.RawMessage {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: status %d", method, path, w.Code)
	}
	return w.Body.Bytes()
}
