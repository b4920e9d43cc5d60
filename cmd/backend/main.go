package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"clearwater/cmd"
	"clearwater/monitoring"
	"clearwater/schema/migrations"
	"clearwater/services"
	"clearwater/services/auth"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Config struct {
	PostgresUri string `env:"DB_URI,notEmpty,required"`
	Logfile     string `env:"LOGFILE,notEmpty" envDefault:"clearwater_backend.log"`

	Port        int `env:"PORT" envDefault:"8000"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9090"`

	// PublicApiUrl is the externally reachable base url, used by the frontend
	// build and echoed in logs so misconfiguration is visible at startup.
	PublicApiUrl string `env:"PUBLIC_API_URL,notEmpty,required"`

	JwtSecret string `env:"JWT_SECRET,notEmpty,required"`
}

func main() {
	cmd.LoadEnvFile()

	var config Config
	if err := env.Parse(&config); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	logFile, err := os.OpenFile(config.Logfile, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer logFile.Close()

	cmd.InitLogging(logFile)

	db := cmd.OpenDB(config.PostgresUri)

	migrations.RunMigrations(db)

	tokens, err := auth.NewJwtAuth(config.JwtSecret)
	if err != nil {
		log.Fatalf("error initializing auth: %v", err)
	}

	backend := services.NewBackend(db, tokens)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(monitoring.HandlerMetrics)

	r.Mount("/api/v1", backend.Routes())

	monitoring.ExposeBackendMetrics(config.MetricsPort)

	slog.Info("starting server", "port", config.Port, "public_api_url", config.PublicApiUrl)
	err = http.ListenAndServe(fmt.Sprintf(":%d", config.Port), r)
	if err != nil {
		log.Fatalf("listen and serve returned error: %v", err.Error())
	}
}
