package main

import (
	"database/sql"
	"fmt"

	"github.com/tendant/simple-ats/internal/config"
	"github.com/tendant/simple-ats/internal/logging"
	"github.com/tendant/simple-ats/internal/metrics"
	"github.com/tendant/simple-ats/pkg/auth"
	"github.com/tendant/simple-ats/pkg/authz"
	"github.com/tendant/simple-ats/pkg/provisioning"
	"github.com/tendant/simple-ats/pkg/repository"
	"go.uber.org/zap"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	tenants  *repository.TenantsRepository
	users    *repository.UsersRepository
	creds    *repository.CredentialsRepository
	sessions *repository.SessionsRepository
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := repository.NewDB(repository.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		metrics:  metrics.New(),
		tenants:  repository.NewTenantsRepository(db),
		users:    repository.NewUsersRepository(db),
		creds:    repository.NewCredentialsRepository(db),
		sessions: repository.NewSessionsRepository(db),
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
	_ = a.logger.Sync()
}

func (a *app) provisioningService() *provisioning.Service {
	store := repository.NewProvisioningRepository(a.db, a.tenants, a.users, a.creds)
	return provisioning.NewService(store, a.tenants, provisioning.Config{
		TempPasswordLength:    a.cfg.Provisioning.TempPasswordLength,
		StrictEmailValidation: a.cfg.Provisioning.StrictEmailValidation,
		BlockDisposableEmail:  a.cfg.Provisioning.BlockDisposableEmail,
	}, a.logger, a.metrics)
}

func (a *app) passwordService() *auth.PasswordService {
	return auth.NewPasswordService(a.tenants, a.users, a.creds, auth.NewPasswordPolicy(a.cfg.PasswordPolicy))
}

func (a *app) sessionService() *auth.SessionService {
	return auth.NewSessionService(auth.SessionConfig{
		TTL:       a.cfg.Session.TTL,
		JWTSecret: []byte(a.cfg.Session.JWTSecret),
		Issuer:    a.cfg.Session.JWTIssuer,
	}, a.sessions)
}

func (a *app) enforcer() (*authz.Enforcer, error) {
	return authz.NewDefault()
}
