package main // Entry point package

import (
	"log"  // Logging library
	"time" // Token TTL arithmetic

	"github.com/joho/godotenv"                          // Optional .env loader for local development
	"github.com/labstack/echo/v4"                       // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"     // Echo's built-in request logging and panic recovery

	"github.com/ashkhen/user-accounts-service/internal/auth"       // Token codec, authenticator, session resolver
	"github.com/ashkhen/user-accounts-service/internal/config"     // Internal config loader
	"github.com/ashkhen/user-accounts-service/internal/database"   // MySQL pool and embedded migrations
	"github.com/ashkhen/user-accounts-service/internal/handler"    // HTTP handlers
	appmw "github.com/ashkhen/user-accounts-service/internal/middleware" // Session, role and cache middleware
	"github.com/ashkhen/user-accounts-service/internal/queue"      // Security event consumer
	"github.com/ashkhen/user-accounts-service/internal/repository" // DB repositories
	"github.com/ashkhen/user-accounts-service/internal/router"     // Internal router setup
	"github.com/ashkhen/user-accounts-service/internal/service"    // Event publisher and ledger pruner
	"github.com/ashkhen/user-accounts-service/internal/utils"      // Request validator
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	if err := database.Migrate(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName); err != nil {
		log.Fatalf("database migrate failed: %v", err)
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	revocations := repository.NewRevocationRepo(db)

	codec := auth.NewTokenCodec(cfg.JWTSecret, time.Duration(cfg.AccessTTLMin)*time.Minute)
	authenticator := auth.NewAuthenticator(users, revocations, codec)
	resolver := auth.NewResolver(codec, users, revocations)

	// The ledger only grows on logout; the cron job trims rows whose
	// tokens have expired anyway.
	pruner := service.NewRevocationPruner(revocations, cfg.PruneCron)
	if err := pruner.Start(); err != nil {
		log.Fatalf("invalid PRUNE_CRON spec %q: %v", cfg.PruneCron, err)
	}
	defer pruner.Stop()

	// Audit trail consumer; reconnects on its own for as long as the
	// process lives.
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth event consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient() // nil disables response caching
	cache := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()               // Create Echo instance
	e.Validator = utils.NewValidator()
	e.Use(echomw.Logger())        // Request logging
	e.Use(echomw.Recover())       // Panic recovery

	router.RegisterRoutes(e) // Health check
	router.RegisterAPI(e,
		handler.NewAuthHandler(cfg, authenticator, resolver),
		handler.NewUserHandler(cfg, users),
		handler.NewRoleHandler(roles),
		resolver,
		cache,
	)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
