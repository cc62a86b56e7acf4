// Package provisioning creates tenants and their bootstrap administrators.
package provisioning

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tendant/simple-ats/internal/metrics"
	"github.com/tendant/simple-ats/pkg/auth"
	"github.com/tendant/simple-ats/pkg/domain"
	"github.com/tendant/simple-ats/pkg/repository"
	"go.uber.org/zap"
)

// Provisioning results recorded in metrics.
const (
	resultSuccess  = "success"
	resultInvalid  = "invalid"
	resultConflict = "conflict"
	resultError    = "error"
)

// Listing bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Store persists a tenant and its administrator as one unit.
type Store interface {
	TenantKeyExists(ctx context.Context, key string) (bool, error)
	CreateTenantWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User, cred *domain.UserPassword) error
}

// TenantStore reads and updates existing tenants.
type TenantStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	List(ctx context.Context, filter repository.TenantFilter) ([]*domain.Tenant, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// generateTemporaryPassword is replaced in tests to simulate entropy failures.
var generateTemporaryPassword = auth.GenerateTemporaryPassword

// Config holds provisioning settings.
type Config struct {
	TempPasswordLength    int
	StrictEmailValidation bool
	BlockDisposableEmail  bool
}

// Request is a provisioning request.
type Request struct {
	Name       string  `json:"name" validate:"required,max=200"`
	TenantID   string  `json:"tenantId" validate:"required,tenantkey"`
	Industry   *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	AdminEmail *string `json:"adminEmail,omitempty"`
}

// CreationResult is what a successful provisioning returns. TemporaryPassword
// is the only copy of the plaintext; it is never persisted or logged.
type CreationResult struct {
	Tenant            *domain.Tenant
	AdminUser         *domain.User
	TemporaryPassword string
	AdminCreated      bool
}

// ListOptions narrows a tenant listing.
type ListOptions struct {
	Limit  int
	Offset int
	Query  string
}

// ListResult is a page of tenants.
type ListResult struct {
	Tenants []*domain.Tenant
	Total   int
	Limit   int
	Offset  int
}

// Service provisions and manages tenants.
type Service struct {
	store    Store
	tenants  TenantStore
	cfg      Config
	validate *validator.Validate
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewService creates a provisioning service. logger and m may be nil.
func NewService(store Store, tenants TenantStore, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Service {
	if cfg.TempPasswordLength == 0 {
		cfg.TempPasswordLength = auth.DefaultTemporaryPasswordLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		tenants:  tenants,
		cfg:      cfg,
		validate: newValidator(),
		logger:   logger.Named("provisioning"),
		metrics:  m,
	}
}

// Provision validates req and creates the tenant and, when an admin email is
// given, a tenant_admin user with a one-time temporary password. Either
// everything is stored or nothing is.
func (s *Service) Provision(ctx context.Context, req Request) (*CreationResult, error) {
	req.Name = auth.SanitizeName(req.Name)
	req.Industry = auth.SanitizeOptional(req.Industry)

	var adminEmail string
	if req.AdminEmail != nil {
		adminEmail = strings.TrimSpace(*req.AdminEmail)
	}

	verr := &domain.ValidationError{}
	if err := s.validate.Struct(req); err != nil {
		converted := validationError(err)
		var ve *domain.ValidationError
		if !errors.As(converted, &ve) {
			return nil, converted
		}
		verr = ve
	}
	if _, bad := verr.Fields["tenantId"]; !bad && auth.IsReservedTenantKey(req.TenantID) {
		verr.Add("tenantId", "is reserved")
	}
	if adminEmail != "" {
		if err := auth.ValidateEmail(adminEmail, s.cfg.StrictEmailValidation, s.cfg.BlockDisposableEmail); err != nil {
			verr.Add("adminEmail", strings.TrimPrefix(err.Error(), domain.ErrInvalidEmail.Error()+": "))
		}
	}
	if verr.HasErrors() {
		s.metrics.Provisioning(resultInvalid)
		s.logger.Info("provisioning rejected", zap.String("tenant_key", req.TenantID), zap.Error(verr))
		return nil, verr
	}

	return s.create(ctx, req.Name, req.TenantID, req.Industry, adminEmail, domain.RoleTenantAdmin)
}

// BootstrapPlatformAdmin provisions the reserved platform tenant with a
// platform_admin user.
func (s *Service) BootstrapPlatformAdmin(ctx context.Context, email string) (*CreationResult, error) {
	email = strings.TrimSpace(email)
	if err := auth.ValidateEmail(email, s.cfg.StrictEmailValidation, false); err != nil {
		return nil, domain.NewValidationError("email", strings.TrimPrefix(err.Error(), domain.ErrInvalidEmail.Error()+": "))
	}
	return s.create(ctx, "Platform", domain.PlatformTenantKey, nil, email, domain.RolePlatformAdmin)
}

func (s *Service) create(ctx context.Context, name, key string, industry *string, adminEmail string, role domain.Role) (*CreationResult, error) {
	exists, err := s.store.TenantKeyExists(ctx, key)
	if err != nil {
		return nil, s.persistenceFailure("check tenant key", key, err)
	}
	if exists {
		s.metrics.Provisioning(resultConflict)
		s.logger.Info("tenant key taken", zap.String("tenant_key", key))
		return nil, &domain.ConflictError{Field: "tenantId", Value: key}
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.New(),
		Name:      name,
		Key:       key,
		Industry:  industry,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	result := &CreationResult{Tenant: tenant}

	var admin *domain.User
	var cred *domain.UserPassword
	if adminEmail != "" {
		password, err := generateTemporaryPassword(s.cfg.TempPasswordLength)
		if err != nil {
			return nil, s.failure("generate temporary password", key, err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, s.failure("hash temporary password", key, err)
		}

		email := auth.NormalizeEmail(adminEmail)
		admin = &domain.User{
			ID:        uuid.New(),
			TenantID:  tenant.ID,
			Email:     email,
			Name:      auth.EmailLocalPart(email),
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		cred = &domain.UserPassword{
			UserID:            admin.ID,
			PasswordHash:      hash,
			Temporary:         true,
			PasswordUpdatedAt: now,
		}

		result.AdminUser = admin
		result.TemporaryPassword = password
		result.AdminCreated = true
	}

	if err := s.store.CreateTenantWithAdmin(ctx, tenant, admin, cred); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			s.metrics.Provisioning(resultConflict)
			s.logger.Info("provisioning conflict", zap.String("tenant_key", key), zap.String("field", conflict.Field))
			return nil, conflict
		}
		return nil, s.persistenceFailure("create tenant", key, err)
	}

	fields := []zap.Field{
		zap.String("tenant_key", tenant.Key),
		zap.String("tenant_id", tenant.ID.String()),
		zap.Bool("admin_created", result.AdminCreated),
	}
	if admin != nil {
		fields = append(fields, zap.String("admin_user_id", admin.ID.String()), zap.String("role", string(admin.Role)))
	}
	s.logger.Info("tenant provisioned", fields...)
	s.metrics.Provisioning(resultSuccess)

	return result, nil
}

func (s *Service) persistenceFailure(op, key string, err error) error {
	return &domain.PersistenceError{Op: op, Err: s.failure(op, key, err)}
}

// failure records an unexpected provisioning error and returns it unchanged.
func (s *Service) failure(op, key string, err error) error {
	s.metrics.Provisioning(resultError)
	s.logger.Error("provisioning failed", zap.String("op", op), zap.String("tenant_key", key), zap.Error(err))
	return err
}

// List returns a page of tenants, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	tenants, total, err := s.tenants.List(ctx, repository.TenantFilter{
		Query:  strings.TrimSpace(opts.Query),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list tenants", Err: err}
	}
	if tenants == nil {
		tenants = []*domain.Tenant{}
	}

	return &ListResult{Tenants: tenants, Total: total, Limit: opts.Limit, Offset: opts.Offset}, nil
}

// Get returns one tenant.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrTenantNotFound) {
		return nil, &domain.PersistenceError{Op: "get tenant", Err: err}
	}
	return tenant, err
}

// SetActive deactivates or reactivates a tenant. The tenant identifier is
// never changed. The platform tenant cannot be deactivated.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.Tenant, error) {
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant.Key == domain.PlatformTenantKey && !active {
		return nil, domain.NewValidationError("active", "the platform tenant cannot be deactivated")
	}

	if err := s.tenants.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "set tenant active", Err: err}
	}

	s.logger.Info("tenant status changed", zap.String("tenant_key", tenant.Key), zap.Bool("active", active))
	return s.Get(ctx, id)
}
