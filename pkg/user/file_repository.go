package user

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const dataFileName = "users.json"

// FileRepository implements Repository using a JSON file. Every write is
// flushed to disk before the call returns; a failed flush rolls the change back.
type FileRepository struct {
	dataDir string
	mu      sync.RWMutex
	records records
}

// userData represents the structure of data stored in the JSON file
type userData struct {
	Users []User `json:"users"`
}

// NewFileRepository creates a new file-based user repository
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileRepository{
		dataDir: dataDir,
		records: newRecords(),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

func (r *FileRepository) Create(ctx context.Context, params CreateParams) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.records.create(params, time.Now().UTC())
	if err != nil {
		return User{}, err
	}
	if err := r.save(); err != nil {
		r.records.remove(u)
		return User{}, err
	}
	return u, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records.get(id)
}

func (r *FileRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records.getByEmail(email)
}

func (r *FileRepository) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before, after, err := r.records.update(id, fn, time.Now().UTC())
	if err != nil {
		return User{}, err
	}
	if err := r.save(); err != nil {
		r.records.put(before)
		return User{}, err
	}
	return after, nil
}

// load reads user data from file
func (r *FileRepository) load() error {
	filePath := filepath.Join(r.dataDir, dataFileName)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var stored userData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	for _, u := range stored.Users {
		r.records.put(u)
	}
	return nil
}

// save writes user data to file atomically
func (r *FileRepository) save() error {
	users := make([]User, 0, len(r.records.byID))
	for _, u := range r.records.byID {
		users = append(users, u)
	}

	jsonData, err := json.MarshalIndent(userData{Users: users}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, dataFileName+".tmp")
	if err := os.WriteFile(tempFile, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, filepath.Join(r.dataDir, dataFileName)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
