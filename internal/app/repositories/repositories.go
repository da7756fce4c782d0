package repositories

import (
	"context"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/db"
	"github.com/act/eventportal/internal/pkg/apperrors"
	"github.com/act/eventportal/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Shared repository errors
var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = apperrors.ErrResourceNotFound
	// ErrEmailTaken is returned when an email unique constraint is violated
	ErrEmailTaken = apperrors.ErrEmailAlreadyExists
	// ErrDuplicate is returned for any other unique constraint violation
	ErrDuplicate = apperrors.ErrConflict
)

// uniqueError maps a unique violation on emailKey to ErrEmailTaken and any other
// unique violation to ErrDuplicate. It returns nil for every other error.
func uniqueError(err error, emailKey string) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, emailKey):
		return ErrEmailTaken
	case dberrors.IsUniqueViolation(err):
		return ErrDuplicate
	}
	return nil
}

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AdminRepository persists administrator accounts
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// FacultyRepository persists faculty members
type FacultyRepository interface {
	Create(ctx context.Context, faculty *models.Faculty) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	GetByEmail(ctx context.Context, email string) (*models.Faculty, error)
	// List returns all faculty, or only those with the given approval state when approved is non-nil
	List(ctx context.Context, approved *bool) ([]*models.Faculty, error)
	Update(ctx context.Context, faculty *models.Faculty) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// StudentRepository persists student accounts
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// EventRepository persists events. Reads populate Event.Faculty when the event is assigned.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	ListByFaculty(ctx context.Context, facultyID int64) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	// ReassignFaculty moves every event owned by fromID to toID and returns how many moved
	ReassignFaculty(ctx context.Context, fromID, toID int64) (int64, error)
	// UnassignFaculty clears faculty_id on every event owned by facultyID and returns how many changed
	UnassignFaculty(ctx context.Context, facultyID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	// CountByFaculty returns the number of events per assigned faculty id
	CountByFaculty(ctx context.Context) (map[int64]int, error)
}

// RegistrationRepository persists student_events rows
type RegistrationRepository interface {
	Create(ctx context.Context, studentID, eventID int64) (*models.StudentEvent, error)
	Get(ctx context.Context, studentID, eventID int64) (*models.StudentEvent, error)
	Delete(ctx context.Context, studentID, eventID int64) error
	DeleteByEvent(ctx context.Context, eventID int64) error
	DeleteByStudent(ctx context.Context, studentID int64) error
	// ListByEvent returns the registrations of an event with Student populated
	ListByEvent(ctx context.Context, eventID int64) ([]*models.StudentEvent, error)
	// ListByStudent returns the registrations of a student with Event (and its Faculty) populated
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentEvent, error)
	UpdateAttendance(ctx context.Context, studentID, eventID int64, present bool) error
	// EventNamesByStudent returns registered event names keyed by student id
	EventNamesByStudent(ctx context.Context) (map[int64][]string, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Admins        AdminRepository
	Faculties     FacultyRepository
	Students      StudentRepository
	Events        EventRepository
	Registrations RegistrationRepository
}

// NewRepositories initializes all repositories over a pool or a transaction
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Admins:        NewAdminRepository(db),
		Faculties:     NewFacultyRepository(db),
		Students:      NewStudentRepository(db),
		Events:        NewEventRepository(db),
		Registrations: NewRegistrationRepository(db),
	}
}

// TxFn runs against repositories bound to a single transaction
type TxFn func(ctx context.Context, repos *Repositories) error

// Transactor runs multi-step writes atomically
type Transactor interface {
	WithinTransaction(ctx context.Context, fn TxFn) error
}

type pgTransactor struct {
	db *db.PostgresDB
}

// NewTransactor returns a Transactor backed by PostgreSQL transactions
func NewTransactor(pg *db.PostgresDB) Transactor {
	return &pgTransactor{db: pg}
}

func (t *pgTransactor) WithinTransaction(ctx context.Context, fn TxFn) error {
	return t.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}
