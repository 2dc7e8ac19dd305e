// Command modelgen regenerates the gorm row models from a migrated database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

var defaultTables = []string{"game_states", "game_events", "game_credentials"}

func main() {
	var dsn, out, tables string
	flag.StringVar(&dsn, "dsn", os.Getenv("RESURGENT_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.StringVar(&tables, "tables", strings.Join(defaultTables, ","), "comma separated tables to generate")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or RESURGENT_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:       out,
		ModelPkgPath:  "model",
		Mode:          gen.WithoutContext,
		FieldNullable: true,
	})
	g.UseDB(db)

	// schema_migrations belongs to the migrator, not to the repositories.
	var generated []string
	for _, table := range strings.Split(tables, ",") {
		table = strings.TrimSpace(table)
		if table == "" || table == "schema_migrations" {
			continue
		}
		g.GenerateModel(table)
		generated = append(generated, table)
	}
	if len(generated) == 0 {
		log.Fatal("no tables to generate")
	}
	g.Execute()

	fmt.Printf("generated gorm models for %s at %s\n", strings.Join(generated, ", "), out)
}
