package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Database  DatabaseData  `json:"database"`
	Server    ServerData    `json:"server"`
	Analytics AnalyticsData `json:"analytics"`
}

// DatabaseData describes the PostgreSQL analytics database
type DatabaseData struct {
	Host                  string `json:"host"`
	Port                  int    `json:"port"`
	User                  string `json:"user,omitempty"`
	Password              string `json:"password,omitempty"`
	DBName                string `json:"dbname"`
	SSLMode               string `json:"sslmode,omitempty"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds,omitempty"`
}

// ServerData holds the HTTP listener settings
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	HTTPPort   int    `json:"http_port,omitempty"`
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
}

// AnalyticsData selects how the analytical queries are answered
type AnalyticsData struct {
	// QuerySource is "views" (materialized views) or "base" (base tables)
	QuerySource string `json:"query_source,omitempty"`
	// ExtremePreset names the extreme-condition band set, "optimized" or "baseline"
	ExtremePreset string `json:"extreme_preset,omitempty"`
}

// Defaults
const (
	DefaultListenAddr    = "0.0.0.0"
	DefaultHTTPPort      = 8080
	DefaultDatabasePort  = 5432
	DefaultSSLMode       = "require"
	DefaultQuerySource   = "views"
	DefaultExtremePreset = "optimized"
)

var (
	querySources   = map[string]bool{"views": true, "base": true}
	extremePresets = map[string]bool{"optimized": true, "baseline": true}
	sslModes       = map[string]bool{
		"disable": true, "allow": true, "prefer": true,
		"require": true, "verify-ca": true, "verify-full": true,
	}
)

// ApplyDefaults fills every unset field with its default
func (c *ConfigData) ApplyDefaults() {
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDatabasePort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultSSLMode
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = DefaultHTTPPort
	}
	if c.Analytics.QuerySource == "" {
		c.Analytics.QuerySource = DefaultQuerySource
	}
	if c.Analytics.ExtremePreset == "" {
		c.Analytics.ExtremePreset = DefaultExtremePreset
	}
}

// Validate reports every problem with the configuration at once
func (c *ConfigData) Validate() error {
	var errs []error

	if c.Database.Host == "" {
		errs = append(errs, errors.New("database host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database name is required"))
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database port %d is out of range", c.Database.Port))
	}
	if c.Database.SSLMode != "" && !sslModes[c.Database.SSLMode] {
		errs = append(errs, fmt.Errorf("unknown database sslmode %q", c.Database.SSLMode))
	}
	if c.Database.ConnectTimeoutSeconds < 0 {
		errs = append(errs, errors.New("database connect timeout cannot be negative"))
	}
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server port %d is out of range", c.Server.HTTPPort))
	}
	if (c.Server.Cert == "") != (c.Server.Key == "") {
		errs = append(errs, errors.New("server cert and key must be set together"))
	}
	if !querySources[c.Analytics.QuerySource] {
		errs = append(errs, fmt.Errorf("unknown query source %q", c.Analytics.QuerySource))
	}
	if !extremePresets[c.Analytics.ExtremePreset] {
		errs = append(errs, fmt.Errorf("unknown extreme preset %q", c.Analytics.ExtremePreset))
	}

	return errors.Join(errs...)
}

// DSN renders the database settings as a PostgreSQL connection URL
func (d DatabaseData) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.DBName,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}

	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	if d.ConnectTimeoutSeconds > 0 {
		q.Set("connect_timeout", strconv.Itoa(d.ConnectTimeoutSeconds))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Redacted returns the DSN with the password masked, for logging
func (d DatabaseData) Redacted() string {
	if d.Password == "" {
		return d.DSN()
	}
	d.Password = "xxxxx"
	return d.DSN()
}
