package services

import (
	"database/sql"
	"sync"
	"time"

	"ghostsapi/internal/models"
	"ghostsapi/internal/repositories"
)

// in-memory stand-ins for the persistence layer, shared by the service tests

type fakeActionTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*models.ActionToken
}

func newFakeActionTokenRepo() *fakeActionTokenRepo {
	return &fakeActionTokenRepo{rows: map[string]*models.ActionToken{}}
}

func (r *fakeActionTokenRepo) WithTx(tx *sql.Tx) repositories.ActionTokenRepository { return r }

func (r *fakeActionTokenRepo) Create(t *models.ActionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	cp := *t
	r.rows[t.Token] = &cp
	return nil
}

func (r *fakeActionTokenRepo) GetValid(token, kind string, now time.Time) (*models.ActionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[token]
	if !ok || row.Used || row.Kind != kind || !row.ExpiresAt.After(now) {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeActionTokenRepo) ConsumeValid(token, kind string, now time.Time) (*models.ActionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[token]
	if !ok || row.Used || row.Kind != kind || !row.ExpiresAt.After(now) {
		return nil, nil
	}
	row.Used = true
	cp := *row
	return &cp, nil
}

func (r *fakeActionTokenRepo) byKind(kind string) []*models.ActionToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ActionToken
	for _, row := range r.rows {
		if row.Kind == kind {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int]*models.User{}}
}

func (r *fakeUserRepo) WithTx(tx *sql.Tx) repositories.UserRepository { return r }

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for id := 1; id <= r.nextID && len(out) < limit; id++ {
		if u, ok := r.byID[id]; ok {
			if offset > 0 {
				offset--
				continue
			}
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[user.ID]; ok {
		u.Firstname = user.Firstname
		u.Lastname = user.Lastname
		u.Phone = user.Phone
		u.Role = user.Role
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) SetVerified(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.IsVerified = true
	}
	return nil
}

func (r *fakeUserRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(fn func(tx *sql.Tx) error) error { return fn(nil) }

type sentEmail struct {
	kind string
	to   string
	link string
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (s *fakeEmailService) record(kind, to, link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{kind: kind, to: to, link: link})
}

func (s *fakeEmailService) last() *sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return nil
	}
	cp := s.sent[len(s.sent)-1]
	return &cp
}

func (s *fakeEmailService) SendWelcomeEmail(email, name, link string) error {
	s.record("welcome", email, link)
	return nil
}

func (s *fakeEmailService) SendVerificationEmail(email, name, link string) error {
	s.record("verification", email, link)
	return nil
}

func (s *fakeEmailService) SendPasswordResetEmail(email, name, link string) error {
	s.record("reset", email, link)
	return nil
}

func (s *fakeEmailService) SendPasswordChangedEmail(email, name, link string) error {
	s.record("changed", email, link)
	return nil
}
