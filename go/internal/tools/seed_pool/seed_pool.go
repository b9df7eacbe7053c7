package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/draftleague/go/internal/dbconfig"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/sqlutil"
	"github.com/mcdev12/draftleague/go/internal/store/postgres"
)

// Entry mirrors one record of the pool JSON file
type Entry struct {
	Name       string `json:"name"`
	PointValue *int   `json:"point_value"`
	Generation *int   `json:"generation"`
	Banned     bool   `json:"banned"`
}

func main() {
	// 1) Resolve the season and load the JSON snapshot
	seasonID, err := uuid.Parse(os.Getenv("SEASON_ID"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "SEASON_ID must be a UUID: %v\n", err)
		os.Exit(1)
	}
	path := os.Getenv("POOL_FILE")
	if path == "" {
		path = "go/internal/assets/pool.json"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig and make sure the schema exists
	ctx := context.Background()
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.New(pool).Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	// 3) Upsert and count
	var (
		total    = len(entries)
		inserted int
		skipped  int
		errs     int
	)

	for _, e := range entries {
		status := models.CandidateStatusAvailable
		if e.Banned {
			status = models.CandidateStatusBanned
		}
		cmdTag, err := pool.Exec(ctx, `
            INSERT INTO candidates (id, season_id, name, point_value, generation, status)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (season_id, lower(name)) DO NOTHING
        `,
			uuid.New(), seasonID, e.Name, sqlutil.ToSqlInt32(e.PointValue), sqlutil.ToSqlInt32(e.Generation), string(status),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting %s: %v\n", e.Name, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Pool seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		total, inserted, skipped, errs,
	)
}
