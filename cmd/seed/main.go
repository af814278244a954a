// Seeds categories and tags out-of-band. Posts can only reference categories
// and tags that already exist, so this runs before any content is created:
//
//	seed -categories Tech,Life -tags js,go
package main

import (
	"database/sql"
	"flag"
	"log"
	"strings"

	"github.com/ManuelBanchero/roadmap-sh-projects/internal/config"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/database"
)

func main() {
	categories := flag.String("categories", "", "comma-separated category names to create")
	tags := flag.String("tags", "", "comma-separated tag names to create")
	flag.Parse()

	if *categories == "" && *tags == "" {
		log.Fatal("Nothing to seed: pass -categories and/or -tags")
	}

	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	database.CreateTables(db)

	seedNames(db, "categories", splitNames(*categories))
	seedNames(db, "tags", splitNames(*tags))
}

func splitNames(raw string) []string {
	names := []string{}
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func seedNames(db *sql.DB, table string, names []string) {
	for _, name := range names {
		// table is one of the two fixed names above, never user input.
		result, err := db.Exec(
			`INSERT INTO `+table+` (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name,
		)
		if err != nil {
			log.Fatalf("Failed to seed %s %q: %v", table, name, err)
		}

		if affected, _ := result.RowsAffected(); affected == 0 {
			log.Printf("%s %q already exists, skipped", table, name)
		} else {
			log.Printf("Created %s %q", table, name)
		}
	}
}
