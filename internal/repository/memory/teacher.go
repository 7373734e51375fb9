// Package memory provides in-process implementations of the repositories,
// used for single-node deployments and tests.
package memory

import (
	"context"
	"sync"
	"teacherpin/internal/models"
	"teacherpin/internal/repository"
	"time"
)

type teacherEntry struct {
	mu      sync.Mutex
	teacher models.Teacher
}

type teacherRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byUserID   map[string]*teacherEntry
	emailIndex map[string]string // normalized email -> user ID, active records only
	now        func() time.Time
}

// NewTeacherRepository creates an in-memory teacher repository
func NewTeacherRepository() repository.TeacherRepository {
	return &teacherRepository{
		byUserID:   make(map[string]*teacherEntry),
		emailIndex: make(map[string]string),
		now:        time.Now,
	}
}

func (r *teacherRepository) Create(_ context.Context, teacher *models.Teacher) error {
	email := repository.NormalizeEmail(teacher.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if teacher.IsActive {
		if _, exists := r.emailIndex[email]; exists {
			return repository.ErrEmailExists
		}
	}
	if _, exists := r.byUserID[teacher.UserID]; exists {
		return repository.ErrConflict
	}

	r.nextID++
	teacher.ID = r.nextID
	teacher.Email = email
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = r.now()
	}

	r.byUserID[teacher.UserID] = &teacherEntry{teacher: cloneTeacher(teacher)}
	if teacher.IsActive {
		r.emailIndex[email] = teacher.UserID
	}
	return nil
}

func (r *teacherRepository) GetByUserID(_ context.Context, userID string) (*models.Teacher, error) {
	entry := r.entry(userID)
	if entry == nil {
		return nil, repository.ErrTeacherNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.teacher.IsActive {
		return nil, repository.ErrTeacherNotFound
	}
	t := cloneTeacher(&entry.teacher)
	return &t, nil
}

func (r *teacherRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	r.mu.RLock()
	userID, ok := r.emailIndex[repository.NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrTeacherNotFound
	}
	return r.GetByUserID(ctx, userID)
}

func (r *teacherRepository) Mutate(_ context.Context, userID string, fn func(t *models.Teacher) error) (*models.Teacher, error) {
	entry := r.entry(userID)
	if entry == nil {
		return nil, repository.ErrTeacherNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.teacher.IsActive {
		return nil, repository.ErrTeacherNotFound
	}

	working := cloneTeacher(&entry.teacher)
	if err := fn(&working); err != nil {
		return nil, err
	}

	// Identity fields are owned by the repository.
	working.ID = entry.teacher.ID
	working.UserID = entry.teacher.UserID
	working.Email = entry.teacher.Email
	working.CreatedAt = entry.teacher.CreatedAt
	working.IsActive = entry.teacher.IsActive

	entry.teacher = working
	out := cloneTeacher(&working)
	return &out, nil
}

func (r *teacherRepository) Deactivate(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byUserID[userID]
	if !ok {
		return repository.ErrTeacherNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.teacher.IsActive {
		return repository.ErrTeacherNotFound
	}
	entry.teacher.IsActive = false
	delete(r.emailIndex, entry.teacher.Email)
	return nil
}

func (r *teacherRepository) entry(userID string) *teacherEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUserID[userID]
}

func cloneTeacher(t *models.Teacher) models.Teacher {
	out := *t
	if t.LockedUntil != nil {
		lockedUntil := *t.LockedUntil
		out.LockedUntil = &lockedUntil
	}
	return out
}
