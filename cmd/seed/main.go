package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"clearwater/cmd"
	"clearwater/schema/migrations"
	"clearwater/seed"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	PostgresUri string `env:"DB_URI,notEmpty,required"`
	Logfile     string `env:"LOGFILE,notEmpty" envDefault:"clearwater_seed.log"`

	AdminEmail string `env:"ADMIN_EMAIL,notEmpty,required"`
	AdminName  string `env:"ADMIN_NAME" envDefault:"Site Admin"`
	// AdminPassword is hashed before storage and must never be logged.
	AdminPassword string `env:"ADMIN_PASSWORD,notEmpty,required"`
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

	ctx := context.Background()
	seeder := seed.NewSeeder(db)

	if err := seeder.SeedAdmin(ctx, config.AdminEmail, config.AdminName, config.AdminPassword); err != nil {
		log.Fatalf("error seeding admin account: %v", err)
	}

	if err := seeder.Run(ctx, seed.DefaultData()); err != nil {
		log.Fatalf("error seeding reference data: %v", err)
	}

	slog.Info("seed complete")
}
