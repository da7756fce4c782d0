package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/pkg/dberrors"
	"github.com/act/eventportal/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

type registrationRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a PostgreSQL backed RegistrationRepository
func NewRegistrationRepository(db DBTX) RegistrationRepository {
	return &registrationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const registrationKey = "student_events_student_event_key"

func (r *registrationRepository) Create(ctx context.Context, studentID, eventID int64) (*models.StudentEvent, error) {
	sql, args, err := r.sb.Insert("student_events").
		Columns("student_id", "event_id").
		Values(studentID, eventID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create registration query: %w", err)
	}

	reg := &models.StudentEvent{StudentID: studentID, EventID: eventID}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&reg.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, registrationKey) {
			return nil, ErrDuplicate
		}
		logger.Error().Err(err).Int64("studentID", studentID).Int64("eventID", eventID).Msg("Error creating registration")
		return nil, fmt.Errorf("error creating registration: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) Get(ctx context.Context, studentID, eventID int64) (*models.StudentEvent, error) {
	sql, args, err := r.sb.Select("id", "student_id", "event_id", "attendance").
		From("student_events").
		Where(squirrel.Eq{"student_id": studentID, "event_id": eventID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	reg := &models.StudentEvent{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&reg.ID, &reg.StudentID, &reg.EventID, &reg.Attendance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning registration row")
		return nil, fmt.Errorf("error getting registration: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, studentID, eventID int64) error {
	cmdTag, err := r.delete(ctx, squirrel.Eq{"student_id": studentID, "event_id": eventID})
	if err != nil {
		return err
	}
	if cmdTag == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *registrationRepository) DeleteByEvent(ctx context.Context, eventID int64) error {
	_, err := r.delete(ctx, squirrel.Eq{"event_id": eventID})
	return err
}

func (r *registrationRepository) DeleteByStudent(ctx context.Context, studentID int64) error {
	_, err := r.delete(ctx, squirrel.Eq{"student_id": studentID})
	return err
}

func (r *registrationRepository) delete(ctx context.Context, where squirrel.Eq) (int64, error) {
	sql, args, err := r.sb.Delete("student_events").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete registration query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete registration query")
		return 0, fmt.Errorf("error deleting registrations: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.StudentEvent, error) {
	sql, args, err := r.sb.Select(
		"se.id", "se.student_id", "se.event_id", "se.attendance",
		"s.name", "s.email", "s.phone", "s.gender", "s.department",
	).
		From("student_events se").
		Join("students s ON s.id = se.student_id").
		Where(squirrel.Eq{"se.event_id": eventID}).
		OrderBy("se.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list registrations by event query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error listing registrations by event")
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	regs := []*models.StudentEvent{}
	for rows.Next() {
		reg := &models.StudentEvent{Student: &models.Student{}}
		if err := rows.Scan(&reg.ID, &reg.StudentID, &reg.EventID, &reg.Attendance,
			&reg.Student.Name, &reg.Student.Email, &reg.Student.Phone, &reg.Student.Gender, &reg.Student.Department); err != nil {
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		reg.Student.ID = reg.StudentID
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentEvent, error) {
	columns := append([]string{"se.id", "se.student_id", "se.attendance"}, eventWithFacultyColumns...)
	sql, args, err := r.sb.Select(columns...).
		From("student_events se").
		Join("events e ON e.id = se.event_id").
		LeftJoin("faculties f ON f.id = e.faculty_id").
		Where(squirrel.Eq{"se.student_id": studentID}).
		OrderBy("se.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list registrations by student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error listing registrations by student")
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	regs := []*models.StudentEvent{}
	for rows.Next() {
		reg := &models.StudentEvent{}
		event, err := scanEventWithFaculty(prefixedRow{rows: rows, prefix: []any{&reg.ID, &reg.StudentID, &reg.Attendance}})
		if err != nil {
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		reg.EventID = event.ID
		reg.Event = event
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// prefixedRow lets scanEventWithFaculty read rows that carry extra leading columns
type prefixedRow struct {
	rows   pgx.Rows
	prefix []any
}

func (p prefixedRow) Scan(dest ...any) error {
	return p.rows.Scan(append(p.prefix, dest...)...)
}

func (r *registrationRepository) UpdateAttendance(ctx context.Context, studentID, eventID int64, present bool) error {
	sql, args, err := r.sb.Update("student_events").
		Set("attendance", present).
		Where(squirrel.Eq{"student_id": studentID, "event_id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update attendance query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("eventID", eventID).Msg("Error updating attendance")
		return fmt.Errorf("error updating attendance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *registrationRepository) EventNamesByStudent(ctx context.Context) (map[int64][]string, error) {
	sql, args, err := r.sb.Select("se.student_id", "e.name").
		From("student_events se").
		Join("events e ON e.id = se.event_id").
		OrderBy("se.student_id ASC", "se.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build event names query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing event names query")
		return nil, fmt.Errorf("error querying registered event names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64][]string)
	for rows.Next() {
		var studentID int64
		var name string
		if err := rows.Scan(&studentID, &name); err != nil {
			return nil, fmt.Errorf("error scanning event name row: %w", err)
		}
		names[studentID] = append(names[studentID], name)
	}
	return names, rows.Err()
}
