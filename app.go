package main

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomify-client/api"
	"roomify-client/config"
	"roomify-client/services"
)

// app wires the client-side stores and services for one CLI invocation.
type app struct {
	cfg *config.Config
	log *zap.Logger

	db      *gorm.DB
	storage services.LocalStorage
	client  *api.Client

	draft     *services.BookingDraftStore
	stopDraft func()

	user    *services.UserSession
	admin   *services.AdminSession
	catalog *services.CatalogService
	profile *services.ProfileService
	dash    *services.AdminService
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if cfg.StorageDriver == config.StorageMemory {
		a.storage = services.NewMemoryStorage()
	} else {
		db, err := cfg.OpenStorageDB()
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		a.db = db
		a.storage = services.NewGormStorage(db)
	}

	a.client = api.NewClient(cfg.APIBaseURL, cfg.AssetBaseURL, cfg.HTTPTimeout, log)

	a.draft = services.NewBookingDraftStore(log)
	stop, err := services.PersistDraft(a.draft, a.storage)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("restore draft: %w", err)
	}
	a.stopDraft = stop

	userPolicy, err := services.ParseRehydratePolicy(cfg.UserRehydrate)
	if err != nil {
		a.Close()
		return nil, err
	}
	adminPolicy, err := services.ParseRehydratePolicy(cfg.AdminRehydrate)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.user = services.NewUserSession(a.storage, a.client, userPolicy, log)
	a.admin = services.NewAdminSession(a.storage, a.client, adminPolicy, log)
	a.catalog = services.NewCatalogService(a.client, a.draft, log)
	a.profile = services.NewProfileService(a.client, a.user, a.storage, log)
	a.dash = services.NewAdminService(a.client, a.admin, log)

	return a, nil
}

func (a *app) Close() {
	if a.stopDraft != nil {
		a.stopDraft()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// requireUser restores the guest session, failing when there is none.
func (a *app) requireUser(ctx context.Context) error {
	if a.user.Hydrate(ctx) {
		return nil
	}
	if err := a.user.LastError(); err != nil {
		return fmt.Errorf("not logged in: %w", err)
	}
	return fmt.Errorf("not logged in (run: roomify login)")
}

// requireAdmin restores the admin session, failing unless it is an admin.
func (a *app) requireAdmin(ctx context.Context) error {
	a.admin.Hydrate(ctx)
	if !a.admin.IsAdmin() {
		return fmt.Errorf("%w (run: roomify admin login)", services.ErrAdminRequired)
	}
	return nil
}

func parseID(s, what string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id: %q", what, s)
	}
	return uint(id), nil
}

func money(v float64) string {
	return "Rp " + strconv.FormatFloat(v, 'f', 0, 64)
}
