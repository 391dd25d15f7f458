package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"pos-service/handlers"
	"pos-service/internal/auth"
	"pos-service/internal/cart"
	"pos-service/internal/categories"
	"pos-service/internal/items"
	"pos-service/internal/orders"
	"pos-service/internal/stores/kafka"
	"pos-service/internal/stores/postgres"
	"pos-service/internal/stores/redis"
	"pos-service/internal/users"

	"github.com/joho/godotenv"
)

const serviceName = "pos-service"

func main() {
	setupSlog()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Warn("no .env file loaded", slog.String("Error", err.Error()))
		}
	}

	if err := startApp(); err != nil {
		log.Fatal(err)
	}
}

func setupSlog() {
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)
}

func startApp() error {
	slog.Info("migrating tables")
	db, err := postgres.OpenDB()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	slog.Info("initializing stores")
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewConf(redisAddr, serviceName)
	defer rdb.Close()

	cartStore, err := cart.NewStore(rdb)
	if err != nil {
		return fmt.Errorf("creating cart store: %w", err)
	}

	uConf, err := users.NewConf(db)
	if err != nil {
		return fmt.Errorf("creating users conf: %w", err)
	}
	ctConf, err := categories.NewConf(db)
	if err != nil {
		return fmt.Errorf("creating categories conf: %w", err)
	}
	itConf, err := items.NewConf(db)
	if err != nil {
		return fmt.Errorf("creating items conf: %w", err)
	}
	oConf, err := orders.NewConf(db)
	if err != nil {
		return fmt.Errorf("creating orders conf: %w", err)
	}

	checkout, err := orders.NewCheckout(&oConf, &itConf, &oConf)
	if err != nil {
		return fmt.Errorf("creating checkout: %w", err)
	}

	// Event publishing is optional. Without brokers the service runs but
	// does not emit order events.
	var k *kafka.Conf
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		k, err = kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			return fmt.Errorf("connecting to kafka: %w", err)
		}
		defer k.Close()
	} else {
		slog.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	keys, err := loadKeys()
	if err != nil {
		return fmt.Errorf("loading auth keys: %w", err)
	}

	h := handlers.NewHandler(uConf, ctConf, itConf, oConf, cartStore, checkout, k, keys)

	prefix := os.Getenv("ENDPOINT_PREFIX")
	if prefix == "" {
		prefix = "/api/v1"
	}
	r, err := handlers.API(prefix, h)
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("starting server", slog.String("Port", port))
	return r.Run(":" + port)
}

func loadKeys() (*auth.Keys, error) {
	privatePath := os.Getenv("JWT_PRIVATE_KEY_PATH")
	if privatePath == "" {
		privatePath = "private.pem"
	}
	publicPath := os.Getenv("JWT_PUBLIC_KEY_PATH")
	if publicPath == "" {
		publicPath = "pubkey.pem"
	}

	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("reading private key %s: %w", privatePath, err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key %s: %w", publicPath, err)
	}
	return auth.NewKeys(privatePEM, publicPEM)
}
