package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/VinniciusRRosario/PMCsoftware/modules/api"
	"github.com/VinniciusRRosario/PMCsoftware/modules/auth"
	"github.com/VinniciusRRosario/PMCsoftware/modules/cache"
	"github.com/VinniciusRRosario/PMCsoftware/modules/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/modules/client"
	"github.com/VinniciusRRosario/PMCsoftware/modules/dashboard"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
	"github.com/VinniciusRRosario/PMCsoftware/modules/order"
	"github.com/VinniciusRRosario/PMCsoftware/modules/realtime"
	"github.com/VinniciusRRosario/PMCsoftware/modules/relay"
)

func main() {
	shutdownTimeout := getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	httpAddr := getEnv("HTTP_ADDR", ":3000")
	dbDriver := getEnv("DB_DRIVER", database.DriverSQLite)
	redisAddr := getEnv("REDIS_ADDR", "")
	redisPassword := getEnv("REDIS_PASSWORD", "")
	kafkaBrokers := splitList(getEnv("KAFKA_BROKERS", ""))

	log.Println("=== PMC Back-Office ===")
	log.Printf("HTTP Address: %s", httpAddr)
	log.Printf("Database Driver: %s", dbDriver)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Plugins start before every module and stop after them.
	dbPlugin := database.NewPluginModule(database.Config{
		Driver:       dbDriver,
		DSN:          getEnv("DB_DSN", ""),
		MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 0),
		MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 0),
	}, logger)
	if err := app.RegisterPlugin(dbPlugin, "database"); err != nil {
		log.Fatalf("Failed to register database plugin: %v", err)
	}

	if redisAddr != "" {
		cachePlugin := cache.NewPluginModule(cache.Config{
			Addr:     redisAddr,
			Password: redisPassword,
			TTL:      getEnvDuration("CACHE_TTL", time.Minute),
		}, logger)
		if err := app.RegisterPlugin(cachePlugin, "cache"); err != nil {
			log.Fatalf("Failed to register cache plugin: %v", err)
		}
		log.Printf("Redis: %s (cache, token revocation, sign-in throttling)", redisAddr)
	} else {
		log.Println("Redis: disabled (in-memory revocation, no cache)")
	}

	realtimeModule := realtime.NewModule(logger)

	// Independent modules first, then dependent modules
	app.Register(catalog.NewModule(logger))
	app.Register(client.NewModule(logger))
	app.Register(order.NewModule(logger))
	app.Register(dashboard.NewModule(getEnvInt("LOW_STOCK_THRESHOLD", 0), logger))
	app.Register(auth.NewModule(auth.Config{
		Tokens: auth.TokenConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", ""),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		BcryptCost:    getEnvInt("BCRYPT_COST", auth.DefaultBcryptCost),
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Throttle: auth.ThrottleConfig{
			MaxFailures: getEnvInt("SIGNIN_MAX_FAILURES", 5),
			Window:      getEnvDuration("SIGNIN_WINDOW", 15*time.Minute),
		},
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}, logger))
	app.Register(realtimeModule)

	if len(kafkaBrokers) > 0 {
		app.Register(relay.NewModule(relay.Config{
			Brokers: kafkaBrokers,
			Topic:   getEnv("KAFKA_TOPIC", "pmc.orders"),
		}, logger))
		log.Printf("Kafka relay: %s", strings.Join(kafkaBrokers, ","))
	}

	app.Register(api.NewModule(api.Config{
		Addr:           httpAddr,
		AllowOrigins:   getEnv("CORS_ALLOW_ORIGINS", "*"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
	}, realtimeModule, logger))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(httpAddr)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(addr string) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("REST API: http://localhost%s/api/v1", addr)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/sign-in                    - Sign in and get tokens")
	log.Println("  POST   /api/v1/auth/refresh                    - Rotate the token pair")
	log.Println("  GET    /health                                 - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/auth/session                    - Current session")
	log.Println("  POST   /api/v1/auth/sign-out                   - Revoke tokens")
	log.Println("  *      /api/v1/products[/:id[/stock]]          - Product catalog")
	log.Println("  *      /api/v1/clients[/:id]                   - Client registry")
	log.Println("  *      /api/v1/orders[/:id[/finish]]           - Order ledger")
	log.Println("  POST   /api/v1/orders/items/:itemId/production - Confirm production")
	log.Println("  GET    /api/v1/dashboard                       - Dashboard snapshot")
	log.Println("  GET    /ws?token=<access token>                - Realtime notifications")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid float value for %s: %s, using default: %g", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
