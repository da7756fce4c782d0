package memstore

import (
	"context"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/repositories"
)

type adminRepo struct{ s *Store }

func (r *adminRepo) Create(_ context.Context, admin *models.Admin) (int64, error) {
	defer r.s.lockWrite()()

	for _, a := range r.s.data.admins {
		if a.Email == admin.Email {
			return 0, repositories.ErrEmailTaken
		}
	}
	admin.ID = r.s.data.nextID("admins")
	r.s.data.admins[admin.ID] = *admin
	return admin.ID, nil
}

func (r *adminRepo) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.data.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *adminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.data.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *adminRepo) Update(_ context.Context, admin *models.Admin) error {
	defer r.s.lockWrite()()

	current, ok := r.s.data.admins[admin.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	for id, a := range r.s.data.admins {
		if id != admin.ID && a.Email == admin.Email {
			return repositories.ErrEmailTaken
		}
	}
	current.Username = admin.Username
	current.Email = admin.Email
	r.s.data.admins[admin.ID] = current
	return nil
}

func (r *adminRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	defer r.s.lockWrite()()

	a, ok := r.s.data.admins[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Password = passwordHash
	r.s.data.admins[id] = a
	return nil
}

type facultyRepo struct{ s *Store }

func (r *facultyRepo) emailTaken(email string, exceptID int64) bool {
	for id, f := range r.s.data.faculties {
		if id != exceptID && f.Email == email {
			return true
		}
	}
	return false
}

func (r *facultyRepo) Create(_ context.Context, faculty *models.Faculty) (int64, error) {
	defer r.s.lockWrite()()

	if r.emailTaken(faculty.Email, 0) {
		return 0, repositories.ErrEmailTaken
	}
	faculty.ID = r.s.data.nextID("faculties")
	stored := *faculty
	stored.Password = copyString(faculty.Password)
	r.s.data.faculties[faculty.ID] = stored
	return faculty.ID, nil
}

func (r *facultyRepo) GetByID(_ context.Context, id int64) (*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.data.faculties[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	f.Password = copyString(f.Password)
	return &f, nil
}

func (r *facultyRepo) GetByEmail(_ context.Context, email string) (*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, f := range r.s.data.faculties {
		if f.Email == email {
			f.Password = copyString(f.Password)
			return &f, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *facultyRepo) List(_ context.Context, approved *bool) ([]*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	faculties := []*models.Faculty{}
	for _, id := range sortedKeys(r.s.data.faculties) {
		f := r.s.data.faculties[id]
		if approved != nil && f.Approved != *approved {
			continue
		}
		f.Password = copyString(f.Password)
		faculties = append(faculties, &f)
	}
	return faculties, nil
}

func (r *facultyRepo) Update(_ context.Context, faculty *models.Faculty) error {
	defer r.s.lockWrite()()

	current, ok := r.s.data.faculties[faculty.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.emailTaken(faculty.Email, faculty.ID) {
		return repositories.ErrEmailTaken
	}
	current.Name = faculty.Name
	current.Email = faculty.Email
	current.Phone = faculty.Phone
	current.Department = faculty.Department
	current.Gender = faculty.Gender
	current.Approved = faculty.Approved
	r.s.data.faculties[faculty.ID] = current
	return nil
}

func (r *facultyRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	defer r.s.lockWrite()()

	f, ok := r.s.data.faculties[id]
	if !ok {
		return repositories.ErrNotFound
	}
	f.Password = &passwordHash
	r.s.data.faculties[id] = f
	return nil
}

func (r *facultyRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite()()

	if _, ok := r.s.data.faculties[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, e := range r.s.data.events {
		if e.FacultyID != nil && *e.FacultyID == id {
			// mirrors the events.faculty_id foreign key
			return repositories.ErrDuplicate
		}
	}
	delete(r.s.data.faculties, id)
	return nil
}

type studentRepo struct{ s *Store }

func (r *studentRepo) emailTaken(email string, exceptID int64) bool {
	for id, st := range r.s.data.students {
		if id != exceptID && st.Email == email {
			return true
		}
	}
	return false
}

func (r *studentRepo) Create(_ context.Context, student *models.Student) (int64, error) {
	defer r.s.lockWrite()()

	if r.emailTaken(student.Email, 0) {
		return 0, repositories.ErrEmailTaken
	}
	student.ID = r.s.data.nextID("students")
	r.s.data.students[student.ID] = *student
	return student.ID, nil
}

func (r *studentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.data.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &st, nil
}

func (r *studentRepo) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, st := range r.s.data.students {
		if st.Email == email {
			return &st, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *studentRepo) List(_ context.Context) ([]*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	students := []*models.Student{}
	for _, id := range sortedKeys(r.s.data.students) {
		st := r.s.data.students[id]
		students = append(students, &st)
	}
	return students, nil
}

func (r *studentRepo) Update(_ context.Context, student *models.Student) error {
	defer r.s.lockWrite()()

	current, ok := r.s.data.students[student.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.emailTaken(student.Email, student.ID) {
		return repositories.ErrEmailTaken
	}
	current.Name = student.Name
	current.Email = student.Email
	current.Phone = student.Phone
	current.Gender = student.Gender
	current.Department = student.Department
	r.s.data.students[student.ID] = current
	return nil
}

func (r *studentRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	defer r.s.lockWrite()()

	st, ok := r.s.data.students[id]
	if !ok {
		return repositories.ErrNotFound
	}
	st.Password = passwordHash
	r.s.data.students[id] = st
	return nil
}

func (r *studentRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lockWrite()()

	if _, ok := r.s.data.students[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, reg := range r.s.data.registrations {
		if reg.StudentID == id {
			// mirrors the student_events.student_id foreign key
			return repositories.ErrDuplicate
		}
	}
	delete(r.s.data.students, id)
	return nil
}
