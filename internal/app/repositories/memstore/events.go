package memstore

import (
	"context"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/repositories"
)

type eventRepo struct{ s *Store }

// withFaculty returns a detached copy of e with its Faculty relation populated.
// Callers hold at least the read lock.
func (r *eventRepo) withFaculty(e models.Event) *models.Event {
	e.FacultyID = copyInt64(e.FacultyID)
	e.Faculty = nil
	if e.FacultyID != nil {
		if f, ok := r.s.data.faculties[*e.FacultyID]; ok {
			f.Password = nil
			e.Faculty = &f
		}
	}
	return &e
}

func (r *eventRepo) Create(_ context.Context, event *models.Event) (int64, error) {
	defer r.s.lockWrite()()

	if event.FacultyID != nil {
		if _, ok := r.s.data.faculties[*event.FacultyID]; !ok {
			return 0, repositories.ErrNotFound
		}
	}
	event.ID = r.s.data.nextID("events")
	stored := *event
	stored.FacultyID = copyInt64(event.FacultyID)
	stored.Faculty = nil
	r.s.data.events[event.ID] = stored
	return event.ID, nil
}

func (r *eventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.data.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.withFaculty(e), nil
}

func (r *eventRepo) List(_ context.Context) ([]*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := []*models.Event{}
	for _, id := range sortedKeys(r.s.data.events) {
		events = append(events, r.withFaculty(r.s.data.events[id]))
	}
	return events, nil
}

func (r *eventRepo) ListByFaculty(_ context.Context, facultyID int64) ([]*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := []*models.Event{}
	for _, id := range sortedKeys(r.s.data.events) {
		e := r.s.data.events[id]
		if e.OwnedBy(facultyID) {
			events = append(events, r.withFaculty(e))
		}
	}
	return events, nil
}

func (r *eventRepo) Update(_ context.Context, event *models.Event) error {
	defer r.s.lockWrite()()

	if _, ok := r.s.data.events[event.ID]; !ok {
		return repositories.ErrNotFound
	}
	if event.FacultyID != nil {
		if _, ok := r.s.data.faculties[*event.FacultyID]; !ok {
			return repositories.ErrNotFound
		}
	}
	stored := *event
	stored.FacultyID = copyInt64(event.FacultyID)
	stored.Faculty = nil
	r.s.data.events[event.ID] = stored
	return nil
}

func (r *eventRepo) ReassignFaculty(_ context.Context, fromID, toID int64) (int64, error) {
	defer r.s.lockWrite()()

	var moved int64
	for id, e := range r.s.data.events {
		if e.OwnedBy(fromID) {
			e.FacultyID = copyInt64(&toID)
			r.s.data.events[id] = e
			moved++
		}
	}
	return moved, nil
}

func (r *eventRepo) UnassignFaculty(_ context.Context, facultyID int64) (int64, error) {
	defer r.s.lockWrite()()

	var cleared int64
	for id, e := range r.s.data.events {
		if e.OwnedBy(facultyID) {
			e.FacultyID = nil
			r.s.data.events[id] = e
			cleared++
		}
	}
	return cleared, nil
}

func (r *eventRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite()()

	if _, ok := r.s.data.events[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, reg := range r.s.data.registrations {
		if reg.EventID == id {
			return repositories.ErrDuplicate
		}
	}
	delete(r.s.data.events, id)
	return nil
}

func (r *eventRepo) CountByFaculty(_ context.Context) (map[int64]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[int64]int)
	for _, e := range r.s.data.events {
		if e.FacultyID != nil {
			counts[*e.FacultyID]++
		}
	}
	return counts, nil
}

type registrationRepo struct{ s *Store }

func (r *registrationRepo) find(studentID, eventID int64) (int64, models.StudentEvent, bool) {
	for id, reg := range r.s.data.registrations {
		if reg.StudentID == studentID && reg.EventID == eventID {
			return id, reg, true
		}
	}
	return 0, models.StudentEvent{}, false
}

func (r *registrationRepo) Create(_ context.Context, studentID, eventID int64) (*models.StudentEvent, error) {
	defer r.s.lockWrite()()

	if _, _, ok := r.find(studentID, eventID); ok {
		return nil, repositories.ErrDuplicate
	}
	if _, ok := r.s.data.students[studentID]; !ok {
		return nil, repositories.ErrNotFound
	}
	if _, ok := r.s.data.events[eventID]; !ok {
		return nil, repositories.ErrNotFound
	}
	reg := models.StudentEvent{
		ID:        r.s.data.nextID("student_events"),
		StudentID: studentID,
		EventID:   eventID,
	}
	r.s.data.registrations[reg.ID] = reg
	return &reg, nil
}

func (r *registrationRepo) Get(_ context.Context, studentID, eventID int64) (*models.StudentEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, reg, ok := r.find(studentID, eventID)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	reg.Attendance = copyBool(reg.Attendance)
	return &reg, nil
}

func (r *registrationRepo) Delete(_ context.Context, studentID, eventID int64) error {
	defer r.s.lockWrite()()

	id, _, ok := r.find(studentID, eventID)
	if !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.data.registrations, id)
	return nil
}

func (r *registrationRepo) DeleteByEvent(_ context.Context, eventID int64) error {
	defer r.s.lockWrite()()

	for id, reg := range r.s.data.registrations {
		if reg.EventID == eventID {
			delete(r.s.data.registrations, id)
		}
	}
	return nil
}

func (r *registrationRepo) DeleteByStudent(_ context.Context, studentID int64) error {
	defer r.s.lockWrite()()

	for id, reg := range r.s.data.registrations {
		if reg.StudentID == studentID {
			delete(r.s.data.registrations, id)
		}
	}
	return nil
}

func (r *registrationRepo) ListByEvent(_ context.Context, eventID int64) ([]*models.StudentEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	regs := []*models.StudentEvent{}
	for _, id := range sortedKeys(r.s.data.registrations) {
		reg := r.s.data.registrations[id]
		if reg.EventID != eventID {
			continue
		}
		st, ok := r.s.data.students[reg.StudentID]
		if !ok {
			continue
		}
		reg.Attendance = copyBool(reg.Attendance)
		reg.Student = &st
		regs = append(regs, &reg)
	}
	return regs, nil
}

func (r *registrationRepo) ListByStudent(_ context.Context, studentID int64) ([]*models.StudentEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := &eventRepo{s: r.s}
	regs := []*models.StudentEvent{}
	for _, id := range sortedKeys(r.s.data.registrations) {
		reg := r.s.data.registrations[id]
		if reg.StudentID != studentID {
			continue
		}
		e, ok := r.s.data.events[reg.EventID]
		if !ok {
			continue
		}
		reg.Attendance = copyBool(reg.Attendance)
		reg.Event = events.withFaculty(e)
		regs = append(regs, &reg)
	}
	return regs, nil
}

func (r *registrationRepo) UpdateAttendance(_ context.Context, studentID, eventID int64, present bool) error {
	defer r.s.lockWrite()()

	id, reg, ok := r.find(studentID, eventID)
	if !ok {
		return repositories.ErrNotFound
	}
	reg.Attendance = &present
	r.s.data.registrations[id] = reg
	return nil
}

func (r *registrationRepo) EventNamesByStudent(_ context.Context) (map[int64][]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	names := make(map[int64][]string)
	for _, id := range sortedKeys(r.s.data.registrations) {
		reg := r.s.data.registrations[id]
		if e, ok := r.s.data.events[reg.EventID]; ok {
			names[reg.StudentID] = append(names[reg.StudentID], e.Name)
		}
	}
	return names, nil
}
