package config

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chrissnell/cropclimate/migrations"
	"github.com/chrissnell/cropclimate/pkg/migrate"
)

// ErrNoConfig is returned when the database holds no saved configuration
var ErrNoConfig = errors.New("no configuration found")

const defaultConfigName = "default"

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens dbPath, creating the file if needed, and brings
// its schema up to date.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrate.NewFSProvider(migrations.Config(), "", migrate.DriverSQLite))
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate config database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	query := `
		SELECT d.host, d.port, d.user, d.password, d.dbname, d.sslmode, d.connect_timeout_seconds,
		       sc.listen_addr, sc.http_port, sc.tls_cert, sc.tls_key,
		       a.query_source, a.extreme_preset
		FROM configs c
		LEFT JOIN database_configs d ON d.config_id = c.id
		LEFT JOIN server_configs sc ON sc.config_id = c.id
		LEFT JOIN analytics_configs a ON a.config_id = c.id
		WHERE c.name = ?
	`

	var (
		host, user, password, dbname, sslmode sql.NullString
		listenAddr, cert, key                 sql.NullString
		querySource, extremePreset            sql.NullString
		port, connectTimeout, httpPort        sql.NullInt64
	)

	err := s.db.QueryRow(query, defaultConfigName).Scan(
		&host, &port, &user, &password, &dbname, &sslmode, &connectTimeout,
		&listenAddr, &httpPort, &cert, &key,
		&querySource, &extremePreset,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query configuration: %w", err)
	}

	config := &ConfigData{
		Database: DatabaseData{
			Host:                  host.String,
			Port:                  int(port.Int64),
			User:                  user.String,
			Password:              password.String,
			DBName:                dbname.String,
			SSLMode:               sslmode.String,
			ConnectTimeoutSeconds: int(connectTimeout.Int64),
		},
		Server: ServerData{
			ListenAddr: listenAddr.String,
			HTTPPort:   int(httpPort.Int64),
			Cert:       cert.String,
			Key:        key.String,
		},
		Analytics: AnalyticsData{
			QuerySource:   querySource.String,
			ExtremePreset: extremePreset.String,
		},
	}
	config.ApplyDefaults()

	return config, nil
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.upsertConfig(tx, defaultConfigName)
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	db := configData.Database
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO database_configs
			(config_id, host, port, user, password, dbname, sslmode, connect_timeout_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		configID, db.Host, db.Port, nullString(db.User), nullString(db.Password),
		db.DBName, nullString(db.SSLMode), nullInt(db.ConnectTimeoutSeconds),
	)
	if err != nil {
		return fmt.Errorf("failed to save database config: %w", err)
	}

	srv := configData.Server
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO server_configs (config_id, listen_addr, http_port, tls_cert, tls_key)
		VALUES (?, ?, ?, ?, ?)`,
		configID, nullString(srv.ListenAddr), nullInt(srv.HTTPPort), nullString(srv.Cert), nullString(srv.Key),
	)
	if err != nil {
		return fmt.Errorf("failed to save server config: %w", err)
	}

	a := configData.Analytics
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO analytics_configs (config_id, query_source, extreme_preset)
		VALUES (?, ?, ?)`,
		configID, orDefault(a.QuerySource, DefaultQuerySource), orDefault(a.ExtremePreset, DefaultExtremePreset),
	)
	if err != nil {
		return fmt.Errorf("failed to save analytics config: %w", err)
	}

	return tx.Commit()
}

// upsertConfig keeps the row id stable so child rows are not cascaded away
func (s *SQLiteProvider) upsertConfig(tx *sql.Tx, name string) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO configs (name, created_at, updated_at) VALUES (?, datetime('now'), datetime('now'))
		ON CONFLICT(name) DO UPDATE SET updated_at = datetime('now')`, name)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRow("SELECT id FROM configs WHERE name = ?", name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Helper functions for handling nullable fields
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
