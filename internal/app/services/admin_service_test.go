package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/pkg/apperrors"
	"github.com/act/eventportal/internal/pkg/optional"
)

func TestAdminAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root@college.edu", "admin123")
	ctx := context.Background()

	profile, err := env.admin.Authenticate(ctx, "root@college.edu", "admin123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if profile.Email != "root@college.edu" {
		t.Errorf("unexpected profile %+v", profile)
	}

	_, err = env.admin.Authenticate(ctx, "root@college.edu", "nope")
	assertErr(t, err, apperrors.ErrInvalidCredentials, "Invalid credentials")

	_, err = env.admin.Authenticate(ctx, "ghost@college.edu", "admin123")
	assertErr(t, err, apperrors.ErrInvalidCredentials, "Invalid credentials")
}

func TestAdminUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "root@college.edu", "admin123")
	ctx := context.Background()

	err := env.admin.UpdatePassword(ctx, admin.ID, "wrong", "newpass1")
	assertErr(t, err, apperrors.ErrBadRequest, "Current password incorrect")

	if err := env.admin.UpdatePassword(ctx, admin.ID, "admin123", "newpass1"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if _, err := env.admin.Authenticate(ctx, "root@college.edu", "newpass1"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

func TestAdminUpdateProfileRejectsTakenEmail(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "one@college.edu", "admin123")
	env.seedAdmin(t, "two@college.edu", "admin123")

	_, err := env.admin.UpdateProfile(context.Background(), admin.ID, dto.UpdateAdminRequest{Username: "x", Email: "two@college.edu"})
	assertErr(t, err, apperrors.ErrEmailAlreadyExists, "Email already exists")
}

func TestAdminProfileOfDeletedPrincipal(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.admin.GetProfile(context.Background(), 999)
	assertErr(t, err, apperrors.ErrNotAuthenticated, "Not logged in")
}

func TestAdminPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root@college.edu", "admin123")
	ctx := context.Background()

	if err := env.admin.RequestPasswordReset(ctx, "root@college.edu"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	mails := env.mail.messages()
	if len(mails) != 1 || mails[0].To != "root@college.edu" {
		t.Fatalf("expected one reset mail, got %+v", mails)
	}

	idx := strings.Index(mails[0].Body, "token=")
	if idx < 0 {
		t.Fatalf("reset link missing from %q", mails[0].Body)
	}
	token := strings.Fields(mails[0].Body[idx+len("token="):])[0]

	if err := env.admin.ResetPassword(ctx, token, "fresh-pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := env.admin.Authenticate(ctx, "root@college.edu", "fresh-pass"); err != nil {
		t.Errorf("login after reset failed: %v", err)
	}

	err := env.admin.ResetPassword(ctx, token, "again-pass")
	assertErr(t, err, apperrors.ErrBadRequest, "Invalid or expired reset token")
}

func TestAdminPasswordResetUnknownEmailIsSilent(t *testing.T) {
	env := newTestEnv(t)
	if err := env.admin.RequestPasswordReset(context.Background(), "ghost@college.edu"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if n := len(env.mail.messages()); n != 0 {
		t.Errorf("expected no mail, got %d", n)
	}
}

func TestApproveFacultyKeepsPasswordUnsetAndSendsMail(t *testing.T) {
	env := newTestEnv(t)
	f := env.seedFaculty(t, "prof@college.edu", false, "")
	ctx := context.Background()

	if err := env.admin.ApproveFaculty(ctx, f.ID); err != nil {
		t.Fatalf("ApproveFaculty: %v", err)
	}

	stored, err := env.repos.Faculties.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Approved {
		t.Error("faculty not approved")
	}
	if stored.Password != nil {
		t.Error("approval must not set a password")
	}

	mails := env.mail.messages()
	if len(mails) != 1 || mails[0].To != "prof@college.edu" || mails[0].Subject != "Faculty Approval" {
		t.Fatalf("unexpected mail %+v", mails)
	}
	if !strings.Contains(mails[0].Body, "http://localhost:5173/faculty/set-password?email=prof%40college.edu") {
		t.Errorf("set-password link missing: %q", mails[0].Body)
	}

	_, err = env.faculty.Login(ctx, "prof@college.edu", "")
	assertErr(t, err, apperrors.ErrInvalidCredentials, "Password not set yet")

	err = env.admin.ApproveFaculty(ctx, 999)
	assertErr(t, err, apperrors.ErrResourceNotFound, "Faculty not found")
}

func TestApproveFacultySucceedsWhenMailFails(t *testing.T) {
	env := newTestEnv(t)
	env.mail.failWith = errors.New("smtp down")
	f := env.seedFaculty(t, "prof@college.edu", false, "")

	if err := env.admin.ApproveFaculty(context.Background(), f.ID); err != nil {
		t.Fatalf("mail failure must not fail approval: %v", err)
	}
	stored, _ := env.repos.Faculties.GetByID(context.Background(), f.ID)
	if !stored.Approved {
		t.Error("approval was rolled back")
	}
}

func TestRejectFaculty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.seedFaculty(t, "prof@college.edu", false, "")

	if err := env.admin.RejectFaculty(ctx, f.ID, "Incomplete details"); err != nil {
		t.Fatalf("RejectFaculty: %v", err)
	}
	if _, err := env.repos.Faculties.GetByID(ctx, f.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("faculty still present: %v", err)
	}
	mails := env.mail.messages()
	if len(mails) != 1 || mails[0].Body != "Reason: Incomplete details" {
		t.Errorf("unexpected mail %+v", mails)
	}

	err := env.admin.RejectFaculty(ctx, f.ID, "again")
	assertErr(t, err, apperrors.ErrResourceNotFound, "Faculty not found")
}

func TestRejectFacultyUnassignsOwnedEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedFaculty(t, "owner@college.edu", true, "pw1234")
	other := env.seedFaculty(t, "other@college.edu", true, "pw1234")
	owned := env.seedEvent(t, "Expo", &owner.ID)
	kept := env.seedEvent(t, "Hackathon", &other.ID)

	if err := env.admin.RejectFaculty(ctx, owner.ID, "Duplicate account"); err != nil {
		t.Fatalf("RejectFaculty: %v", err)
	}
	if _, err := env.repos.Faculties.GetByID(ctx, owner.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("faculty still present: %v", err)
	}

	ev, err := env.repos.Events.GetByID(ctx, owned.ID)
	if err != nil {
		t.Fatalf("owned event removed: %v", err)
	}
	if ev.FacultyID != nil {
		t.Errorf("event still assigned to %d", *ev.FacultyID)
	}
	if ev, _ := env.repos.Events.GetByID(ctx, kept.ID); ev == nil || !ev.OwnedBy(other.ID) {
		t.Error("another faculty's event was touched")
	}
	if mails := env.mail.messages(); len(mails) != 1 || mails[0].To != "owner@college.edu" {
		t.Errorf("unexpected mail %+v", mails)
	}
}

func TestListFacultiesIncludesAssignedEventCount(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedFaculty(t, "a@college.edu", true, "")
	env.seedFaculty(t, "b@college.edu", false, "")
	env.seedEvent(t, "One", &a.ID)
	env.seedEvent(t, "Two", &a.ID)

	list, err := env.admin.ListFaculties(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 faculties, got %d", len(list))
	}
	if list[0].AssignedEventsCount != 2 || list[1].AssignedEventsCount != 0 {
		t.Errorf("unexpected counts %+v", list)
	}

	pending, err := env.admin.ListUnapprovedFaculties(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Email != "b@college.edu" {
		t.Errorf("unexpected unapproved list %+v", pending)
	}
}

func TestDeleteFacultyWithoutReplacementKeepsOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.seedFaculty(t, "f@college.edu", true, "")
	e := env.seedEvent(t, "Expo", &f.ID)

	err := env.admin.DeleteFaculty(ctx, f.ID, nil)
	assertErr(t, err, apperrors.ErrConflict, "Faculty has assigned events. Provide replacementFacultyId.")

	stored, err := env.repos.Events.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.OwnedBy(f.ID) {
		t.Error("event ownership changed after failed delete")
	}
	if _, err := env.repos.Faculties.GetByID(ctx, f.ID); err != nil {
		t.Error("faculty removed after failed delete")
	}
}

func TestDeleteFacultyWithReplacementReassignsEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.seedFaculty(t, "f@college.edu", true, "")
	r := env.seedFaculty(t, "r@college.edu", true, "")
	e1 := env.seedEvent(t, "One", &f.ID)
	e2 := env.seedEvent(t, "Two", &f.ID)

	if err := env.admin.DeleteFaculty(ctx, f.ID, &r.ID); err != nil {
		t.Fatalf("DeleteFaculty: %v", err)
	}
	for _, id := range []int64{e1.ID, e2.ID} {
		ev, err := env.repos.Events.GetByID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if !ev.OwnedBy(r.ID) {
			t.Errorf("event %d not reassigned", id)
		}
	}
	if _, err := env.repos.Faculties.GetByID(ctx, f.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Error("faculty still exists")
	}
}

func TestDeleteFacultyInvalidReplacement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.seedFaculty(t, "f@college.edu", true, "")
	e := env.seedEvent(t, "Expo", &f.ID)

	err := env.admin.DeleteFaculty(ctx, f.ID, int64Ptr(999))
	assertErr(t, err, apperrors.ErrResourceNotFound, "Replacement faculty not found")

	err = env.admin.DeleteFaculty(ctx, f.ID, &f.ID)
	assertErr(t, err, apperrors.ErrBadRequest, "")

	stored, _ := env.repos.Events.GetByID(ctx, e.ID)
	if !stored.OwnedBy(f.ID) {
		t.Error("failed delete must not change ownership")
	}

	err = env.admin.DeleteFaculty(ctx, 12345, nil)
	assertErr(t, err, apperrors.ErrResourceNotFound, "Faculty not found")
}

func TestDeleteFacultyWithoutEvents(t *testing.T) {
	env := newTestEnv(t)
	f := env.seedFaculty(t, "f@college.edu", true, "")
	if err := env.admin.DeleteFaculty(context.Background(), f.ID, nil); err != nil {
		t.Fatalf("DeleteFaculty: %v", err)
	}
}

func TestDeleteEventRemovesRegistrations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s1 := env.seedStudent(t, "s1@college.edu")
	s2 := env.seedStudent(t, "s2@college.edu")
	e := env.seedEvent(t, "Expo", nil)
	other := env.seedEvent(t, "Other", nil)
	env.register(t, s1.ID, e.ID)
	env.register(t, s2.ID, e.ID)
	env.register(t, s1.ID, other.ID)

	if err := env.admin.DeleteEvent(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	regs, err := env.repos.Registrations.ListByEvent(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 0 {
		t.Errorf("dangling registrations: %d", len(regs))
	}
	if _, err := env.repos.Registrations.Get(ctx, s1.ID, other.ID); err != nil {
		t.Error("registration for another event was removed")
	}

	err = env.admin.DeleteEvent(ctx, e.ID)
	assertErr(t, err, apperrors.ErrResourceNotFound, "Event not found")
}

func TestDeleteStudentRemovesRegistrations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.seedStudent(t, "s@college.edu")
	e := env.seedEvent(t, "Expo", nil)
	env.register(t, s.ID, e.ID)

	if err := env.admin.DeleteStudent(ctx, s.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if _, err := env.repos.Students.GetByID(ctx, s.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Error("student still exists")
	}
	regs, _ := env.repos.Registrations.ListByEvent(ctx, e.ID)
	if len(regs) != 0 {
		t.Error("registrations left behind")
	}

	err := env.admin.DeleteStudent(ctx, s.ID)
	assertErr(t, err, apperrors.ErrResourceNotFound, "Student not found")
}

func TestListEventsShowsUnassigned(t *testing.T) {
	env := newTestEnv(t)
	f := env.seedFaculty(t, "f@college.edu", true, "")
	env.seedEvent(t, "Owned", &f.ID)
	env.seedEvent(t, "Orphan", nil)

	events, err := env.admin.ListEvents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].FacultyName != f.Name {
		t.Errorf("facultyName = %q, want %q", events[0].FacultyName, f.Name)
	}
	if events[1].FacultyName != "Unassigned" || events[1].FacultyID != nil {
		t.Errorf("unassigned event rendered as %+v", events[1])
	}
}

func TestCreateAndUpdateEventPartialSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.seedFaculty(t, "f@college.edu", true, "")

	created, err := env.admin.CreateEvent(ctx, dto.EventInput{
		Name:      optional.Of("Hackathon"),
		Venue:     optional.Of("Lab 1"),
		FacultyID: optional.Of(f.ID),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.FacultyID == nil || *created.FacultyID != f.ID || created.FacultyName != f.Name {
		t.Errorf("unexpected created event %+v", created)
	}

	// absent keys stay untouched
	updated, err := env.admin.UpdateEvent(ctx, created.ID, dto.EventInput{Date: optional.Of("2025-04-01")})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.Name != "Hackathon" || updated.Venue != "Lab 1" || updated.Date != "2025-04-01" {
		t.Errorf("partial update clobbered fields: %+v", updated)
	}
	if updated.FacultyID == nil || *updated.FacultyID != f.ID {
		t.Error("absent facultyId must keep the assignment")
	}

	// explicit null unassigns
	cleared, err := env.admin.UpdateEvent(ctx, created.ID, dto.EventInput{FacultyID: optional.Null[int64]()})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if cleared.FacultyID != nil || cleared.FacultyName != "Unassigned" {
		t.Errorf("explicit null did not unassign: %+v", cleared)
	}
}

func TestCreateEventValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.admin.CreateEvent(ctx, dto.EventInput{Venue: optional.Of("Hall")})
	assertErr(t, err, apperrors.ErrValidationFailed, "Event name is required")

	_, err = env.admin.CreateEvent(ctx, dto.EventInput{Name: optional.Of("X"), FacultyID: optional.Of[int64](77)})
	assertErr(t, err, apperrors.ErrResourceNotFound, "Faculty not found")

	_, err = env.admin.UpdateEvent(ctx, 404, dto.EventInput{Name: optional.Of("Y")})
	assertErr(t, err, apperrors.ErrResourceNotFound, "Event not found")
}

func TestReassignEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.seedFaculty(t, "f@college.edu", true, "")
	e := env.seedEvent(t, "Expo", nil)

	if err := env.admin.ReassignEvent(ctx, e.ID, f.ID); err != nil {
		t.Fatalf("ReassignEvent: %v", err)
	}
	stored, _ := env.repos.Events.GetByID(ctx, e.ID)
	if !stored.OwnedBy(f.ID) {
		t.Error("event not reassigned")
	}

	assertErr(t, env.admin.ReassignEvent(ctx, 999, f.ID), apperrors.ErrResourceNotFound, "Event not found")
	assertErr(t, env.admin.ReassignEvent(ctx, e.ID, 999), apperrors.ErrResourceNotFound, "Faculty not found")
}

func TestListStudentsWithEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s1 := env.seedStudent(t, "s1@college.edu")
	env.seedStudent(t, "s2@college.edu")
	e := env.seedEvent(t, "Expo", nil)
	env.register(t, s1.ID, e.ID)

	students, err := env.admin.ListStudents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(students))
	}
	if len(students[0].RegisteredEvents) != 1 || students[0].RegisteredEvents[0] != "Expo" {
		t.Errorf("unexpected registered events %v", students[0].RegisteredEvents)
	}
	if students[1].RegisteredEvents == nil {
		t.Error("registeredEvents must be an empty list, not null")
	}

	counts, err := env.admin.ListStudentEventCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[0].EventCount != 1 || counts[1].EventCount != 0 {
		t.Errorf("unexpected counts %+v", counts)
	}
}

func TestAdminUpdateStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.seedStudent(t, "s@college.edu")
	env.seedStudent(t, "taken@college.edu")

	updated, err := env.admin.UpdateStudent(ctx, s.ID, dto.AdminUpdateStudentRequest{Name: "New", Email: "new@college.edu", Department: "MECH"})
	if err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	if updated.Name != "New" || updated.Email != "new@college.edu" || updated.Department != "MECH" {
		t.Errorf("unexpected profile %+v", updated)
	}

	_, err = env.admin.UpdateStudent(ctx, s.ID, dto.AdminUpdateStudentRequest{Name: "New", Email: "taken@college.edu"})
	assertErr(t, err, apperrors.ErrEmailAlreadyExists, "Email already exists")

	_, err = env.admin.UpdateStudent(ctx, 999, dto.AdminUpdateStudentRequest{Name: "N", Email: "n@college.edu"})
	assertErr(t, err, apperrors.ErrResourceNotFound, "Student not found")
}

func TestAdminUpdateFaculty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.seedFaculty(t, "f@college.edu", false, "")
	approved := true

	updated, err := env.admin.UpdateFaculty(ctx, f.ID, dto.AdminUpdateFacultyRequest{
		Name: "Dr. F", Email: "f@college.edu", Department: "EEE", Approved: &approved,
	})
	if err != nil {
		t.Fatalf("UpdateFaculty: %v", err)
	}
	if !updated.Approved || updated.Department != "EEE" || updated.AssignedEventsCount != 0 {
		t.Errorf("unexpected faculty %+v", updated)
	}

	_, err = env.admin.UpdateFaculty(ctx, 999, dto.AdminUpdateFacultyRequest{Name: "x", Email: "x@college.edu"})
	assertErr(t, err, apperrors.ErrResourceNotFound, "Faculty not found")
}

func TestAdminListEventStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.seedStudent(t, "s@college.edu")
	e := env.seedEvent(t, "Expo", nil)
	env.register(t, s.ID, e.ID)

	rows, err := env.admin.ListEventStudents(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].StudentID != s.ID || rows[0].Attendance != nil {
		t.Errorf("unexpected rows %+v", rows)
	}

	_, err = env.admin.ListEventStudents(ctx, 999)
	assertErr(t, err, apperrors.ErrResourceNotFound, "Event not found")
}
