package main

import (
	"flag"
	"log"

	"clearwater/cmd"
	"clearwater/schema/migrations"
)

func main() {
	dbUri := flag.String("db", "", "Database URI")
	flag.Parse()

	if *dbUri == "" {
		log.Fatal("-db flag must be specified")
	}

	db := cmd.OpenDB(*dbUri)

	migrations.RunMigrations(db)
}
