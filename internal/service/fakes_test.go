package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pawfinder/web/internal/catalog"
	"pawfinder/web/internal/models"
	"pawfinder/web/internal/repository"
	"pawfinder/web/internal/security"
)

var (
	testLog    = zerolog.New(io.Discard)
	testHasher = security.NewHasher(security.Argon2Params{Time: 1, Memory: 1024, Threads: 1})
	errDown    = errors.New("connection refused")
)

type memUsers struct {
	mu     sync.Mutex
	byID   map[string]models.User
	err    error
	writes int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]models.User{}}
}

func (m *memUsers) Create(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrUserExists
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = user
	m.writes++
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) Update(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range m.byID {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrUserExists
		}
	}
	user.UpdatedAt = time.Now()
	m.byID[user.ID] = user
	m.writes++
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memSessions struct {
	mu   sync.Mutex
	byID map[string]models.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]models.Session{}}
}

func (m *memSessions) Create(_ context.Context, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[session.ID] = session
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memSessions) ReplaceUser(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.byID {
		if s.User.ID == user.ID {
			s.User = user
			m.byID[id] = s
		}
	}
	return nil
}

type favoriteRow struct {
	userID   string
	animalID int64
}

// memFavorites keeps rows in insertion order; ListAnimalIDs returns newest first.
type memFavorites struct {
	mu   sync.Mutex
	rows []favoriteRow
	err  error
}

func (m *memFavorites) Add(_ context.Context, userID string, animalID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, r := range m.rows {
		if r.userID == userID && r.animalID == animalID {
			return nil
		}
	}
	m.rows = append(m.rows, favoriteRow{userID: userID, animalID: animalID})
	return nil
}

func (m *memFavorites) Remove(_ context.Context, userID string, animalID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.userID != userID || r.animalID != animalID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memFavorites) Exists(_ context.Context, userID string, animalID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, r := range m.rows {
		if r.userID == userID && r.animalID == animalID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFavorites) ListAnimalIDs(_ context.Context, userID string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := []int64{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].userID == userID {
			ids = append(ids, m.rows[i].animalID)
		}
	}
	return ids, nil
}

type fakeCatalog struct {
	animals map[int64]catalog.Animal
	listed  []catalog.Animal
	listErr error
	getErr  map[int64]error
	lastQ   catalog.ListQuery
}

func (f *fakeCatalog) ListAnimals(_ context.Context, q catalog.ListQuery) ([]catalog.Animal, error) {
	f.lastQ = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeCatalog) GetAnimal(_ context.Context, id int64) (catalog.Animal, error) {
	if err, ok := f.getErr[id]; ok {
		return catalog.Animal{}, err
	}
	a, ok := f.animals[id]
	if !ok {
		return catalog.Animal{}, catalog.ErrNotFound
	}
	return a, nil
}

func withPhoto(id int64, name string) catalog.Animal {
	return catalog.Animal{ID: id, Name: name, Photos: []catalog.Photo{{Medium: "https://img.test/" + name + ".jpg"}}}
}
