package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"artview/internal/api/v1/handler"
	"artview/internal/config"
	"artview/internal/httpclient"
	"artview/internal/imaging"
	"artview/internal/middleware"
	"artview/internal/replicate"
	"artview/internal/repository"
	"artview/internal/service"
	"artview/internal/session"
	"artview/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	// 1. Open DB connection and run migrations
	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to open database")
		return nil, nil, err
	}
	logger.Info().Str("path", cfg.DatabasePath).Msg("Database ready")

	// 2. Initialize the provider client
	providerHTTP := httpclient.New(httpclient.Options{
		Timeout: time.Duration(cfg.ProviderTimeoutSec) * time.Second,
	})
	replicateClient := replicate.New(replicate.Options{
		APIToken:   cfg.ReplicateAPIToken,
		BaseURL:    cfg.ReplicateBaseURL,
		HTTPClient: providerHTTP,
		Logger:     logger,
	})

	// 3. Initialize the optional S3 image sink
	maxStreamBytes := int64(cfg.MaxStreamMB) << 20
	var imageStore storage.ImageStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Options{
			Endpoint:      cfg.S3URL,
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			MaxBytes:      maxStreamBytes,
			Logger:        logger,
		})
		if err != nil {
			db.Close()
			logger.Error().Err(err).Msg("Failed to initialize S3 store")
			return nil, nil, err
		}
		imageStore = s3Store
	}

	// 4. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 5. Initialize repositories & services & handlers
	accountRepo := repository.NewAccountRepo(db)
	sessionRepo := repository.NewSessionRepo(db)

	accountSvc := service.NewAccountService(accountRepo, logger)
	placementSvc := service.NewPlacementService(replicateClient, imageStore, maxStreamBytes, logger)
	upscaleSvc := service.NewUpscaleService(replicateClient, logger)
	checkoutSvc := service.NewCheckoutService(cfg.StripeSecretKey, cfg.BaseURL, accountSvc, logger)
	sessionStore := session.NewStore(sessionRepo, logger)
	normalizer := imaging.NewNormalizer(logger)

	placementHandler := handler.NewPlacementHandler(placementSvc, accountSvc, validate)
	upscaleHandler := handler.NewUpscaleHandler(upscaleSvc, validate)
	accountHandler := handler.NewAccountHandler(accountSvc, validate)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc, validate)
	sessionHandler := handler.NewSessionHandler(sessionStore)
	uploadHandler := handler.NewUploadHandler(normalizer)

	// 6. Create ServeMux router
	mux := http.NewServeMux()

	// Create a subrouter for API v1 with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	placementHandler.RegisterRoutes(apiV1Mux)
	upscaleHandler.RegisterRoutes(apiV1Mux)
	accountHandler.RegisterRoutes(apiV1Mux)
	checkoutHandler.RegisterRoutes(apiV1Mux)
	sessionHandler.RegisterRoutes(apiV1Mux)
	uploadHandler.RegisterRoutes(apiV1Mux)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect /api/* to /v1/* for backward compatibility. 308 keeps
	// the method and body intact across the redirect; 301 would turn
	// the POSTs into GETs.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusPermanentRedirect)
	})

	// 7. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.Logger(logger)(c.Handler(mux)), db, nil
}
