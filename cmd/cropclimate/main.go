package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/chrissnell/cropclimate/internal/app"
	"github.com/chrissnell/cropclimate/internal/log"
	"github.com/chrissnell/cropclimate/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML/JSON: config.yaml, config.json\n\t\t\t  SQLite: config.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML/JSON files, 'sqlite' for SQLite databases, 'env' for environment variables only")
	envFile := flag.String("env-file", ".env", "Optional .env file with CROPCLIMATE_* overrides")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cropclimate %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	cfgData, err := loadConfig(*cfgFile, *cfgBackend, *envFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		log.Sync()
		os.Exit(1)
	}

	// Create and run the application
	application := app.New(cfgData, version)
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func loadConfig(cfgFile, cfgBackend, envFile string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	lookup, err := config.EnvLookup(envFile)
	if err != nil {
		return nil, err
	}

	var provider config.ConfigProvider

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	case "env":
		provider = config.NewEnvProvider(lookup)
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml', 'sqlite' or 'env'", cfgBackend)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	// Environment overrides whatever the file says
	if err := config.ApplyEnv(cfgData, lookup); err != nil {
		return nil, err
	}
	cfgData.ApplyDefaults()

	if err := cfgData.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfgData, nil
}
