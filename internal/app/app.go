// Package app 组装依赖：存储后端、缓存、service、HTTP 模块。两个 cmd 共用。
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/core/cache"
	"talentdesk/internal/core/config"
	"talentdesk/internal/core/database"
	"talentdesk/internal/core/validate"
	"talentdesk/internal/domain"
	"talentdesk/internal/repo"
	"talentdesk/internal/repo/jsonfile"
	"talentdesk/internal/service"
	"talentdesk/internal/transport/http/handler"
	"talentdesk/internal/transport/http/router"
)

type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Candidates    *service.CandidateService
	Assignments   *service.AssignmentService
	Meetings      *service.MeetingService
	Notifications *service.NotificationService
	Audit         *service.AuditService
}

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	Store    domain.Store
	Services Services
	JWT      *auth.JWTer
	Registry *router.Registry

	closers []func() error
}

// New 打开存储并装配；失败时已打开的资源会被关闭
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}
	st, err := a.openStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = st
	a.wire(time.Now)

	if cfg.Seed.AdminEmail != "" {
		created, err := a.Services.Users.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminName, cfg.Seed.AdminPassword)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		if !created {
			l.Debug("admin already present, seed skipped")
		}
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) (domain.Store, error) {
	cfg := a.Cfg
	switch cfg.Store.Backend {
	case config.BackendJSON:
		js, err := jsonfile.Open(cfg.Store.DataDir)
		if err != nil {
			return domain.Store{}, err
		}
		a.Log.Info("store opened", zap.String("backend", "json"), zap.String("dir", cfg.Store.DataDir))
		return js.Repos(), nil
	case config.BackendGorm:
		db, err := a.openDB()
		if err != nil {
			return domain.Store{}, err
		}
		st := repo.NewGormStore(db)
		if c := a.openCache(ctx); c != nil {
			ttl := time.Duration(cfg.Redis.CandidateTTLSec) * time.Second
			st.Candidates = repo.NewCachedCandidateRepo(st.Candidates, c, ttl, a.Log)
		}
		return st, nil
	}
	return domain.Store{}, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func (a *App) openDB() (*gorm.DB, error) {
	c := a.Cfg.DB
	db, err := database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		Username:           c.Username,
		Password:           c.Password,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
		Log:                a.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)
	a.Log.Info("database connected", zap.String("driver", c.Driver))

	if c.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		a.Log.Info("automigrate done")
	}
	return db, nil
}

// openCache redis 不可达时降级为不缓存
func (a *App) openCache(ctx context.Context) *cache.Cache {
	r := a.Cfg.Redis
	if r.Addr == "" {
		return nil
	}
	c := cache.New(r.Addr, r.Password, r.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		a.Log.Warn("redis unreachable, candidate cache disabled", zap.String("addr", r.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	a.closers = append(a.closers, c.Close)
	a.Log.Info("redis connected", zap.String("addr", r.Addr))
	return c
}

func (a *App) wire(now service.Clock) {
	cfg, l, st := a.Cfg, a.Log, a.Store
	v := validate.New()
	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	audit := service.NewAuditService(st.Audit, l, now)
	notes := service.NewNotificationService(st.Notifications, l, now)
	vis := service.NewVisibility(st.Candidates, st.Assignments)

	a.Services = Services{
		Auth:          service.NewAuthService(st.Users, a.JWT, v, l, now),
		Users:         service.NewUserService(st.Users, v, audit, l),
		Candidates:    service.NewCandidateService(st.Candidates, vis, v, audit, l),
		Assignments:   service.NewAssignmentService(st, notes, audit, l, now),
		Meetings:      service.NewMeetingService(st, vis, notes, audit, v, l),
		Notifications: notes,
		Audit:         audit,
	}

	s := a.Services
	a.Registry = router.NewRegistry(
		handler.NewAuthHandler(s.Auth),
		handler.NewUserHandler(s.Users),
		handler.NewCandidateHandler(s.Candidates),
		handler.NewAssignmentHandler(s.Assignments),
		handler.NewMeetingHandler(s.Meetings),
		handler.NewNotificationHandler(s.Notifications),
		handler.NewAuditHandler(s.Audit),
	)
}

func (a *App) deps() router.Deps {
	return router.Deps{Log: a.Log, JWT: a.JWT, Users: a.Store.Users, Limits: a.Cfg.Limits, Registry: a.Registry}
}

func (a *App) APIEngine() *gin.Engine { return router.NewAPIEngine(a.deps()) }

func (a *App) AdminEngine() *gin.Engine { return router.NewAdminEngine(a.deps()) }

// Close 逆序释放
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
