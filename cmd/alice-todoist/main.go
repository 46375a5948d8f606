package main

// @title           Alice Todoist Bridge API
// @version         1.0
// @description     Voice-skill webhook that adds Todoist tasks and links Todoist accounts over OAuth.

// @contact.name   Custodia Labs OSS
// @contact.url    https://github.com/custodia-labs/alice-todoist/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Platform-supplied Todoist token. Format: "Bearer {token}"

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/custodia-labs/alice-todoist/docs"
	"github.com/custodia-labs/alice-todoist/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/alice-todoist/internal/adapters/driven/redis"
	"github.com/custodia-labs/alice-todoist/internal/adapters/driven/secrets"
	"github.com/custodia-labs/alice-todoist/internal/adapters/driven/todoist"
	httpadapter "github.com/custodia-labs/alice-todoist/internal/adapters/driving/http"
	"github.com/custodia-labs/alice-todoist/internal/config"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
	"github.com/custodia-labs/alice-todoist/internal/core/services"
	"github.com/custodia-labs/alice-todoist/internal/logger"
)

var version = "dev"

// cleanupInterval is how often expired rows are purged from PostgreSQL.
const cleanupInterval = 5 * time.Minute

func main() {
	log.Printf("alice-todoist %s starting", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(os.Stdout, logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "alice-todoist",
		Version: version,
	})
	slog.SetDefault(appLogger)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// ===== Token Store (Redis if configured, otherwise PostgreSQL) =====
	var store driven.TokenStore
	if cfg.UsesRedis() {
		log.Println("Connecting to Redis...")
		client, err := redisadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		store = redisadapter.NewTokenStore(client)
		log.Println("Using Redis token store")
	} else {
		log.Println("Connecting to PostgreSQL...")
		pgStore, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.DefaultOptions())
		if err != nil {
			log.Fatalf("Failed to open PostgreSQL token store: %v", err)
		}
		defer pgStore.Close()

		go runCleanup(ctx, pgStore, appLogger)
		store = pgStore
		log.Println("Using PostgreSQL token store")
	}

	if cfg.TokenEncryptionSecret != "" {
		enc, err := secrets.NewEncryptorFromSecret(cfg.TokenEncryptionSecret)
		if err != nil {
			log.Fatalf("Failed to initialize token encryption: %v", err)
		}
		store = secrets.NewEncryptingStore(store, enc)
		log.Println("Token store encryption enabled")
	}

	// ===== Todoist =====
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	taskClient := todoist.NewClient(todoist.ClientConfig{
		APIBase:    cfg.TodoistAPIBase,
		UserAgent:  "alice-todoist/" + version,
		HTTPClient: httpClient,
		Logger:     appLogger,
	})
	provider := todoist.NewOAuthProvider(todoist.OAuthConfig{
		ClientID:     cfg.TodoistClientID,
		ClientSecret: cfg.TodoistClientSecret,
		RedirectURI:  cfg.TodoistRedirectURI,
		AuthURL:      cfg.TodoistAuthURL,
		TokenURL:     cfg.TodoistTokenURL,
		HTTPClient:   httpClient,
	})

	// ===== Services =====
	linkingService := services.NewLinkingService(services.LinkingServiceConfig{
		Store:          store,
		Provider:       provider,
		BaseURL:        cfg.PublicBaseURL,
		StateTTL:       cfg.StateTTL,
		StateRetention: cfg.StateRetention,
		Logger:         appLogger,
	})
	skillService := services.NewSkillService(services.SkillServiceConfig{
		Linking: linkingService,
		Tasks:   taskClient,
		Logger:  appLogger,
	})

	server := httpadapter.NewServer(
		httpadapter.Config{
			Host:    cfg.Host,
			Port:    cfg.Port,
			Version: version,
			Logger:  appLogger,
		},
		skillService,
		linkingService,
		store,
	)

	log.Printf("API server starting on %s (public base %s)", cfg.Addr(), cfg.PublicBaseURL)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runCleanup purges expired PostgreSQL rows until ctx is cancelled.
func runCleanup(ctx context.Context, store *postgres.TokenStore, l *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx)
			if err != nil {
				l.Warn("token cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				l.Debug("expired tokens purged", "count", n)
			}
		}
	}
}
