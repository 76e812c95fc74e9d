// HRMS API server.
//
// @title           HRMS API
// @version         1.0
// @description     Personnel records service with token auth and role-based access control.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/peopleops/hrms-api/docs"
	"github.com/peopleops/hrms-api/internal/api"
	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/ports"
	"github.com/peopleops/hrms-api/internal/core/service"
	mongorepo "github.com/peopleops/hrms-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/peopleops/hrms-api/internal/infrastructure/db/redis"
	"github.com/peopleops/hrms-api/internal/infrastructure/queue"
	"github.com/peopleops/hrms-api/internal/pkg/config"
	"github.com/peopleops/hrms-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongorepo.NewUserRepository(db)
	orgRepo := mongorepo.NewOrganizationRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	if err := bootstrap(ctx, cfg, userRepo, orgRepo, log); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	auditRepo := mongorepo.NewAuditRepository(db)
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  time.Duration(cfg.TokenTTLSeconds) * time.Second,
		Audit:     dispatcher,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// bootstrap seeds the default organization and, when the users collection
// is empty, a first admin account so the API is usable out of the box.
func bootstrap(
	ctx context.Context,
	cfg *config.Config,
	userRepo ports.UserRepository,
	orgRepo ports.OrganizationRepository,
	log zerolog.Logger,
) error {
	org, err := orgRepo.Default(ctx)
	if err != nil {
		return err
	}

	_, total, err := userRepo.List(ctx, ports.ListUsersFilter{Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	if cfg.BootstrapAdminPassword == "" {
		log.Warn().Msg("no users exist and BOOTSTRAP_ADMIN_PASSWORD is unset, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		OrgID:          org.ID,
		OrgName:        org.Name,
		Email:          cfg.BootstrapAdminEmail,
		Username:       "admin",
		PasswordHash:   string(hash),
		FullName:       "System Administrator",
		EmployeeCode:   "ADM-1001",
		EmploymentType: domain.EmploymentFullTime,
		Role:           domain.RoleAdmin,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Info().Str("email", admin.Email).Msg("bootstrap admin created")
	return nil
}
