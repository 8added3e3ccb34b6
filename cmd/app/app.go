package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"artshare/internal/apiclient"
	"artshare/internal/config"
	"artshare/internal/database"
	handlers "artshare/internal/handler"
	"artshare/internal/repository"
	"artshare/internal/router"
	"artshare/internal/service"
	"artshare/internal/session"
)

// sessionRepository picks the session persistence for cfg. A database that
// cannot be reached degrades to memory so pages keep working.
func sessionRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SessionRepository, *database.DB) {
	if cfg.Session.Store == config.SessionStoreMemory {
		return repository.NewMemorySessionRepository(), nil
	}

	db, err := database.ConnectDB(ctx, cfg, logger)
	if err != nil {
		logger.Warn("session database unavailable, sessions will not survive a restart",
			zap.String("store", cfg.Session.Store),
			zap.Error(err))
		return repository.NewMemorySessionRepository(), nil
	}
	return repository.NewSessionRepository(db.DB), db
}

// App wires the page server. The returned closer releases the session
// database.
func App(ctx context.Context, cfg *config.Config, logger *zap.Logger) (http.Handler, func() error, error) {
	repo, db := sessionRepository(ctx, cfg, logger)
	closer := func() error { return nil }
	if db != nil {
		closer = db.CloseDB
	}

	sessions := session.NewStore(repo, cfg.Session.TTL, logger.Named("session"))

	// enabling dependencies
	client := apiclient.NewClient(cfg.APIBaseURL, nil)
	services := service.NewService(
		apiclient.NewAuthAPI(client),
		apiclient.NewArtworkAPI(client),
		sessions,
		cfg,
	)

	handler, err := handlers.NewHandlers(services, sessions, repo, cfg, logger.Named("http"))
	if err != nil {
		_ = closer()
		return nil, nil, err
	}

	return router.New(handler, sessions, cfg, logger.Named("http")), closer, nil
}
