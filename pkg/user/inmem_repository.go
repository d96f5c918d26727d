package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// records is the map-backed state shared by the in-memory and file stores.
// Callers hold the owning store's lock.
type records struct {
	byID    map[uuid.UUID]User
	byEmail map[string]uuid.UUID
}

func newRecords() records {
	return records{
		byID:    make(map[uuid.UUID]User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r records) create(p CreateParams, now time.Time) (User, error) {
	if _, exists := r.byEmail[p.Email]; exists {
		return User{}, ErrEmailTaken
	}
	u := newUser(p, now)
	r.put(u)
	return u, nil
}

func (r records) get(id uuid.UUID) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r records) getByEmail(email string) (User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.get(id)
}

func (r records) update(id uuid.UUID, fn UpdateFunc, now time.Time) (before, after User, err error) {
	before, err = r.get(id)
	if err != nil {
		return User{}, User{}, err
	}
	next, err := fn(before)
	if err != nil {
		return User{}, User{}, err
	}
	after = settle(before, next, now)
	r.put(after)
	return before, after, nil
}

func (r records) put(u User) {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
}

func (r records) remove(u User) {
	delete(r.byID, u.ID)
	delete(r.byEmail, u.Email)
}

// InMemRepository implements Repository using in-memory storage
type InMemRepository struct {
	mu      sync.RWMutex
	records records
}

// NewInMemRepository creates a new in-memory user repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{records: newRecords()}
}

func (r *InMemRepository) Create(ctx context.Context, params CreateParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records.create(params, time.Now().UTC())
}

func (r *InMemRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records.get(id)
}

func (r *InMemRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records.getByEmail(email)
}

func (r *InMemRepository) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, after, err := r.records.update(id, fn, time.Now().UTC())
	return after, err
}
