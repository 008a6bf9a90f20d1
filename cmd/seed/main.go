// Command seed inserts the rows of a YAML fixture that are not in the database yet.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"ats-backend/internal/config"
	"ats-backend/internal/database"
	"ats-backend/internal/seed"
)

//go:embed fixtures.yaml
var defaultFixture []byte

func main() {
	file := flag.String("file", "", "fixture to load, the bundled demo data when empty")
	flag.Parse()

	var src io.Reader = bytes.NewReader(defaultFixture)
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatalf("Failed to open fixture: %v", err)
		}
		defer f.Close()
		src = f
	}

	fixture, err := seed.Load(src)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.GetMainDB(cfg)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	res, err := seed.Apply(context.Background(), db.DB, fixture)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	fmt.Printf("Inserted %d skills, %d users, %d jobs, %d candidates\n", res.Skills, res.Users, res.Jobs, res.Candidates)
}
