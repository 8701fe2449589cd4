package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/cropclimate/internal/log"
	"github.com/chrissnell/cropclimate/internal/storage/climatedb"
	"github.com/chrissnell/cropclimate/migrations"
	"github.com/chrissnell/cropclimate/pkg/migrate"
)

func main() {
	var (
		dbDSN    = flag.String("dsn", "", "PostgreSQL connection string (required)")
		seed     = flag.Uint64("seed", 1, "Random seed; the same seed loads the same rows")
		truncate = flag.Bool("truncate", false, "Empty the base tables before loading")
		withMig  = flag.Bool("migrate", false, "Apply the cropdb migrations and refresh the materialized views after loading")
		dryRun   = flag.Bool("dry-run", false, "Generate the dataset and print row counts without connecting")
		debug    = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	data := newGenerator(*seed).generate()
	summarize(data)

	if *dryRun {
		fmt.Println("DRY RUN complete - nothing loaded")
		return
	}

	if *dbDSN == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -dsn <postgres dsn> [-truncate] [-migrate]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlx.ConnectContext(ctx, "postgres", *dbDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, migrations.BaseTables); err != nil {
		log.Fatalf("Failed to create base tables: %v", err)
	}

	if *truncate {
		if _, err := db.ExecContext(ctx, data.truncateSQL()); err != nil {
			log.Fatalf("Failed to truncate base tables: %v", err)
		}
		log.Info("base tables truncated")
	}

	started := time.Now()
	if err := load(ctx, db, data); err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	log.Infow("dataset loaded", "rows", data.rowCount(), "duration", time.Since(started))

	if err := verify(ctx, db, data, *truncate); err != nil {
		log.Fatalf("Verification failed: %v", err)
	}

	if *withMig {
		if err := migrateAndRefresh(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	fmt.Println("Seed completed successfully")
}

// load copies every table in a single transaction
func load(ctx context.Context, db *sqlx.DB, data dataset) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range data {
		if err := copyTable(ctx, tx, t); err != nil {
			return err
		}
		log.Debugf("copied %s", t)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func copyTable(ctx context.Context, tx *sqlx.Tx, t table) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(t.name, t.columns...))
	if err != nil {
		return fmt.Errorf("failed to start COPY into %s: %w", t.name, err)
	}
	defer stmt.Close()

	for _, row := range t.rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to copy row into %s: %w", t.name, err)
		}
	}

	// flush the buffered rows
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to finish COPY into %s: %w", t.name, err)
	}
	return nil
}

// verify checks the row counts. Without truncation the tables may already hold
// older rows, so the count only has to cover what was loaded.
func verify(ctx context.Context, db *sqlx.DB, data dataset, exact bool) error {
	for _, t := range data {
		var n int
		// table names come from the generated dataset
		if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+t.name); err != nil {
			return fmt.Errorf("failed to count %s: %w", t.name, err)
		}
		if n < len(t.rows) || (exact && n != len(t.rows)) {
			return fmt.Errorf("%s has %d rows, loaded %d", t.name, n, len(t.rows))
		}
	}
	return nil
}

func migrateAndRefresh(ctx context.Context, db *sqlx.DB) error {
	migrator := migrate.NewMigrator(db.DB, migrate.NewFSProvider(migrations.CropDB(), "", migrate.DriverPostgres))
	if err := migrator.MigrateUp(); err != nil {
		return err
	}

	// views that already existed still hold the previous data
	for _, view := range climatedb.MaterializedViews {
		if _, err := db.ExecContext(ctx, "REFRESH MATERIALIZED VIEW "+view); err != nil {
			return fmt.Errorf("error refreshing %s: %w", view, err)
		}
	}
	log.Infow("materialized views refreshed", "views", len(climatedb.MaterializedViews))
	return nil
}

// summarize prints row counts and the mean crop yield of the generated data
func summarize(data dataset) {
	for _, t := range data {
		fmt.Printf("  %s\n", t)
		if t.name != "crop_data" {
			continue
		}
		yields := make([]float64, len(t.rows))
		for i, row := range t.rows {
			yields[i] = row[4].(float64)
		}
		mean, std := stat.MeanStdDev(yields, nil)
		fmt.Printf("    yield_kg_per_acre mean %.1f, stddev %.1f\n", mean, std)
	}
	fmt.Printf("Total: %d rows\n", data.rowCount())
}
