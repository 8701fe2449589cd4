package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
// JSON is a subset of YAML, so the same provider reads config.json files,
// including the flat rds_*/server_* layout.
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", y.filename, err)
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	var yamlConfig ConfigYAML
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	// Flat keys first so the structured sections win
	config := &ConfigData{
		Database: DatabaseData{
			Host:     yamlConfig.RDSHost,
			Port:     int(yamlConfig.RDSPort),
			User:     yamlConfig.RDSUser,
			Password: yamlConfig.RDSPassword,
			DBName:   yamlConfig.RDSDB,
		},
		Server: ServerData{
			ListenAddr: yamlConfig.ServerHost,
			HTTPPort:   int(yamlConfig.ServerPort),
		},
	}

	if db := yamlConfig.Database; db != nil {
		setString(&config.Database.Host, db.Host)
		setInt(&config.Database.Port, int(db.Port))
		setString(&config.Database.User, db.User)
		setString(&config.Database.Password, db.Password)
		setString(&config.Database.DBName, db.DBName)
		setString(&config.Database.SSLMode, db.SSLMode)
		setInt(&config.Database.ConnectTimeoutSeconds, int(db.ConnectTimeout))
	}

	if srv := yamlConfig.Server; srv != nil {
		setString(&config.Server.ListenAddr, srv.ListenAddr)
		setInt(&config.Server.HTTPPort, int(srv.Port))
		setString(&config.Server.Cert, srv.Cert)
		setString(&config.Server.Key, srv.Key)
	}

	if a := yamlConfig.Analytics; a != nil {
		config.Analytics = AnalyticsData{
			QuerySource:   a.QuerySource,
			ExtremePreset: a.ExtremePreset,
		}
	}

	config.ApplyDefaults()
	return config, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// YAML-specific structs with proper YAML tags for parsing the file format
type ConfigYAML struct {
	Database  *DatabaseYAML  `yaml:"database,omitempty"`
	Server    *ServerYAML    `yaml:"server,omitempty"`
	Analytics *AnalyticsYAML `yaml:"analytics,omitempty"`

	// config.json layout
	RDSHost     string  `yaml:"rds_host,omitempty"`
	RDSUser     string  `yaml:"rds_user,omitempty"`
	RDSPassword string  `yaml:"rds_password,omitempty"`
	RDSPort     FlexInt `yaml:"rds_port,omitempty"`
	RDSDB       string  `yaml:"rds_db,omitempty"`
	ServerHost  string  `yaml:"server_host,omitempty"`
	ServerPort  FlexInt `yaml:"server_port,omitempty"`
}

type DatabaseYAML struct {
	Host           string  `yaml:"host,omitempty"`
	Port           FlexInt `yaml:"port,omitempty"`
	User           string  `yaml:"user,omitempty"`
	Password       string  `yaml:"password,omitempty"`
	DBName         string  `yaml:"dbname,omitempty"`
	SSLMode        string  `yaml:"sslmode,omitempty"`
	ConnectTimeout FlexInt `yaml:"connect-timeout-seconds,omitempty"`
}

type ServerYAML struct {
	ListenAddr string  `yaml:"listen-addr,omitempty"`
	Port       FlexInt `yaml:"port,omitempty"`
	Cert       string  `yaml:"cert,omitempty"`
	Key        string  `yaml:"key,omitempty"`
}

type AnalyticsYAML struct {
	QuerySource   string `yaml:"query-source,omitempty"`
	ExtremePreset string `yaml:"extreme-preset,omitempty"`
}

// FlexInt accepts both 5432 and "5432"
type FlexInt int

// UnmarshalYAML implements yaml.Unmarshaler
func (f *FlexInt) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	if value.Value == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not an integer", value.Line, value.Value)
	}
	*f = FlexInt(n)
	return nil
}
