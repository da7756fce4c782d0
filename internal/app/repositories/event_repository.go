package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

type eventRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a PostgreSQL backed EventRepository
func NewEventRepository(db DBTX) EventRepository {
	return &eventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// eventWithFacultyColumns selects an event and its (optional) owning faculty
var eventWithFacultyColumns = []string{
	"e.id", "e.name", "e.description", "e.date", "e.venue", "e.faculty_id",
	"f.name", "f.email", "f.phone", "f.department", "f.gender", "f.approved",
}

func (r *eventRepository) selectEvents() squirrel.SelectBuilder {
	return r.sb.Select(eventWithFacultyColumns...).
		From("events e").
		LeftJoin("faculties f ON f.id = e.faculty_id")
}

// scanEventWithFaculty scans a row produced by eventWithFacultyColumns
func scanEventWithFaculty(row pgx.Row) (*models.Event, error) {
	var (
		event                                  models.Event
		fName, fEmail, fPhone, fDept, fGender *string
		fApproved                              *bool
	)
	err := row.Scan(&event.ID, &event.Name, &event.Description, &event.Date, &event.Venue, &event.FacultyID,
		&fName, &fEmail, &fPhone, &fDept, &fGender, &fApproved)
	if err != nil {
		return nil, err
	}

	if event.FacultyID != nil && fName != nil {
		event.Faculty = &models.Faculty{
			ID:         *event.FacultyID,
			Name:       *fName,
			Email:      deref(fEmail),
			Phone:      deref(fPhone),
			Department: deref(fDept),
			Gender:     deref(fGender),
			Approved:   fApproved != nil && *fApproved,
		}
	}
	return &event, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	sql, args, err := r.sb.Insert("events").
		Columns("name", "description", "date", "venue", "faculty_id").
		Values(event.Name, event.Description, event.Date, event.Venue, event.FacultyID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create event query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create event query")
		return 0, fmt.Errorf("error creating event: %w", err)
	}
	event.ID = id
	return id, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.selectEvents().
		Where(squirrel.Eq{"e.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEventWithFaculty(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}
	return event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*models.Event, error) {
	return r.list(ctx, r.selectEvents().OrderBy("e.id ASC"))
}

func (r *eventRepository) ListByFaculty(ctx context.Context, facultyID int64) ([]*models.Event, error) {
	return r.list(ctx, r.selectEvents().Where(squirrel.Eq{"e.faculty_id": facultyID}).OrderBy("e.id ASC"))
}

func (r *eventRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Event, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event, err := scanEventWithFaculty(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning event row during list")
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]interface{}{
			"name":        event.Name,
			"description": event.Description,
			"date":        event.Date,
			"venue":       event.Venue,
			"faculty_id":  event.FacultyID,
		}).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", event.ID).Msg("Error executing update event query")
		return fmt.Errorf("error updating event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) ReassignFaculty(ctx context.Context, fromID, toID int64) (int64, error) {
	sql, args, err := r.sb.Update("events").
		Set("faculty_id", toID).
		Where(squirrel.Eq{"faculty_id": fromID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build reassign events query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("fromFacultyID", fromID).Int64("toFacultyID", toID).Msg("Error reassigning events")
		return 0, fmt.Errorf("error reassigning events: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *eventRepository) UnassignFaculty(ctx context.Context, facultyID int64) (int64, error) {
	sql, args, err := r.sb.Update("events").
		Set("faculty_id", nil).
		Where(squirrel.Eq{"faculty_id": facultyID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build unassign events query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("facultyID", facultyID).Msg("Error unassigning events")
		return 0, fmt.Errorf("error unassigning events: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error executing delete event query")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) CountByFaculty(ctx context.Context) (map[int64]int, error) {
	sql, args, err := r.sb.Select("faculty_id", "COUNT(*)").
		From("events").
		Where(squirrel.NotEq{"faculty_id": nil}).
		GroupBy("faculty_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing count events query")
		return nil, fmt.Errorf("error counting events: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var facultyID int64
		var count int
		if err := rows.Scan(&facultyID, &count); err != nil {
			return nil, fmt.Errorf("error scanning event count row: %w", err)
		}
		counts[facultyID] = count
	}
	return counts, rows.Err()
}
