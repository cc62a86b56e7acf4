// Package storetest provides an in-memory store that mirrors the Postgres
// repositories closely enough for service and handler tests, including the
// unique constraints on tenant keys and per-tenant emails.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-ats/pkg/domain"
	"github.com/tendant/simple-ats/pkg/repository"
)

// Store holds every table in memory behind one mutex, which plays the role
// of the database's serialization of commits.
type Store struct {
	mu       sync.Mutex
	tenants  map[uuid.UUID]domain.Tenant
	users    map[uuid.UUID]domain.User
	creds    map[uuid.UUID]domain.UserPassword
	sessions map[uuid.UUID]domain.Session

	// BeforeCreate runs before CreateTenantWithAdmin takes the lock.
	BeforeCreate func()
	// FailCreate, when set, aborts CreateTenantWithAdmin after the tenant
	// insert, before anything is visible.
	FailCreate error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tenants:  make(map[uuid.UUID]domain.Tenant),
		users:    make(map[uuid.UUID]domain.User),
		creds:    make(map[uuid.UUID]domain.UserPassword),
		sessions: make(map[uuid.UUID]domain.Session),
	}
}

// Counts reports the number of tenants, users and credentials stored.
func (s *Store) Counts() (tenants, users, creds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tenants), len(s.users), len(s.creds)
}

// Credential returns a copy of a stored credential.
func (s *Store) Credential(userID uuid.UUID) (domain.UserPassword, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.creds[userID]
	return c, ok
}

// User returns a copy of a stored user.
func (s *Store) User(userID uuid.UUID) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return u, ok
}

// Session returns a copy of a stored session.
func (s *Store) Session(id uuid.UUID) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Provisioning returns the provisioning repository view.
func (s *Store) Provisioning() *Provisioning { return &Provisioning{s} }

// Tenants returns the tenants repository view.
func (s *Store) Tenants() *Tenants { return &Tenants{s} }

// Users returns the users repository view.
func (s *Store) Users() *Users { return &Users{s} }

// Credentials returns the credentials repository view.
func (s *Store) Credentials() *Credentials { return &Credentials{s} }

// Sessions returns the sessions repository view.
func (s *Store) Sessions() *Sessions { return &Sessions{s} }

// Provisioning mirrors repository.ProvisioningRepository.
type Provisioning struct{ s *Store }

// TenantKeyExists mirrors the repository method.
func (p *Provisioning) TenantKeyExists(_ context.Context, key string) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.keyTaken(key), nil
}

// CreateTenantWithAdmin inserts all rows or none.
func (p *Provisioning) CreateTenantWithAdmin(_ context.Context, tenant *domain.Tenant, admin *domain.User, cred *domain.UserPassword) error {
	if p.s.BeforeCreate != nil {
		p.s.BeforeCreate()
	}

	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if p.s.keyTaken(tenant.Key) {
		return &domain.ConflictError{Field: "tenantId", Value: tenant.Key}
	}
	if p.s.FailCreate != nil {
		return p.s.FailCreate
	}
	if admin != nil {
		for _, u := range p.s.users {
			if u.TenantID == admin.TenantID && u.Email == admin.Email {
				return &domain.ConflictError{Field: "adminEmail", Value: admin.Email}
			}
		}
	}

	p.s.tenants[tenant.ID] = *tenant
	if admin != nil {
		p.s.users[admin.ID] = *admin
		p.s.creds[cred.UserID] = *cred
	}
	return nil
}

func (s *Store) keyTaken(key string) bool {
	for _, t := range s.tenants {
		if t.Key == key {
			return true
		}
	}
	return false
}

// Tenants mirrors repository.TenantsRepository.
type Tenants struct{ s *Store }

// GetByID mirrors the repository method.
func (t *Tenants) GetByID(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tenant, ok := t.s.tenants[id]
	if !ok || tenant.DeletedAt != nil {
		return nil, domain.ErrTenantNotFound
	}
	return &tenant, nil
}

// GetByKey mirrors the repository method.
func (t *Tenants) GetByKey(_ context.Context, key string) (*domain.Tenant, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, tenant := range t.s.tenants {
		if tenant.Key == key && tenant.DeletedAt == nil {
			return &tenant, nil
		}
	}
	return nil, domain.ErrTenantNotFound
}

// List mirrors the repository method.
func (t *Tenants) List(_ context.Context, filter repository.TenantFilter) ([]*domain.Tenant, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	q := strings.ToLower(filter.Query)
	var matched []*domain.Tenant
	for _, tenant := range t.s.tenants {
		if tenant.DeletedAt != nil {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(tenant.Name), q) && !strings.Contains(tenant.Key, q) {
			continue
		}
		tenant := tenant
		matched = append(matched, &tenant)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

// SetActive mirrors the repository method.
func (t *Tenants) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tenant, ok := t.s.tenants[id]
	if !ok || tenant.DeletedAt != nil {
		return domain.ErrTenantNotFound
	}
	tenant.Active = active
	tenant.UpdatedAt = time.Now()
	t.s.tenants[id] = tenant
	if !active {
		now := time.Now()
		for sid, session := range t.s.sessions {
			if session.TenantID == id && session.RevokedAt == nil {
				session.RevokedAt = &now
				t.s.sessions[sid] = session
			}
		}
	}
	return nil
}

// Users mirrors repository.UsersRepository.
type Users struct{ s *Store }

// GetByID mirrors the repository method.
func (u *Users) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

// GetByTenantAndEmail mirrors the repository method.
func (u *Users) GetByTenantAndEmail(_ context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.TenantID == tenantID && user.Email == email && user.DeletedAt == nil {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// IncrementFailedLoginAttempts mirrors the repository method.
func (u *Users) IncrementFailedLoginAttempts(_ context.Context, userID uuid.UUID, lockout time.Duration, maxAttempts int) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[userID]
	if !ok {
		return nil
	}
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= maxAttempts {
		until := time.Now().Add(lockout)
		user.LockedUntil = &until
	}
	u.s.users[userID] = user
	return nil
}

// ResetFailedLoginAttempts mirrors the repository method.
func (u *Users) ResetFailedLoginAttempts(_ context.Context, userID uuid.UUID) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[userID]
	if !ok {
		return nil
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	u.s.users[userID] = user
	return nil
}

// Credentials mirrors repository.CredentialsRepository.
type Credentials struct{ s *Store }

// GetByUserID mirrors the repository method.
func (c *Credentials) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.UserPassword, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cred, ok := c.s.creds[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &cred, nil
}

// ConsumeTemporary mirrors the repository method.
func (c *Credentials) ConsumeTemporary(_ context.Context, userID uuid.UUID) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cred, ok := c.s.creds[userID]
	if !ok || !cred.Temporary || cred.ConsumedAt != nil {
		return false, nil
	}
	now := time.Now()
	cred.ConsumedAt = &now
	c.s.creds[userID] = cred
	return true, nil
}

// Replace mirrors the repository method.
func (c *Credentials) Replace(_ context.Context, userID uuid.UUID, hash string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cred, ok := c.s.creds[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	cred.PasswordHash = hash
	cred.Temporary = false
	cred.ConsumedAt = nil
	cred.PasswordUpdatedAt = time.Now()
	c.s.creds[userID] = cred
	return nil
}

// Sessions mirrors repository.SessionsRepository.
type Sessions struct{ s *Store }

// Create mirrors the repository method.
func (ss *Sessions) Create(_ context.Context, session *domain.Session) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	ss.s.sessions[session.ID] = *session
	return nil
}

// GetByID mirrors the repository method.
func (ss *Sessions) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	session, ok := ss.s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// RevokeByTokenHash mirrors the repository method.
func (ss *Sessions) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	now := time.Now()
	for id, session := range ss.s.sessions {
		if session.TokenHash == tokenHash && session.RevokedAt == nil {
			session.RevokedAt = &now
			ss.s.sessions[id] = session
		}
	}
	return nil
}

// RevokeAllByUserID mirrors the repository method.
func (ss *Sessions) RevokeAllByUserID(_ context.Context, userID uuid.UUID) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	now := time.Now()
	for id, session := range ss.s.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
			ss.s.sessions[id] = session
		}
	}
	return nil
}

// UpdateLastSeen mirrors the repository method.
func (ss *Sessions) UpdateLastSeen(_ context.Context, id uuid.UUID) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	session, ok := ss.s.sessions[id]
	if !ok || session.RevokedAt != nil {
		return nil
	}
	now := time.Now()
	session.LastSeenAt = &now
	ss.s.sessions[id] = session
	return nil
}
