// Package main renders the effective service configuration as a YAML file
// that can be fed back through CONFIG_FILE.
// It can be run with: go run ./scripts/generate_config [environment]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type serverDoc struct {
	Environment     string   `yaml:"environment"`
	Port            string   `yaml:"port"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	Version         string   `yaml:"version"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

type databaseDoc struct {
	URL            string `yaml:"url"`
	MaxConnections int    `yaml:"max_connections"`
	QueryTimeout   string `yaml:"query_timeout"`
	RunMigrations  bool   `yaml:"run_migrations"`
}

// configDoc mirrors config.Config with durations spelled as strings so the
// output stays readable and round-trips through viper.
type configDoc struct {
	Server   serverDoc            `yaml:"server"`
	Database databaseDoc          `yaml:"database"`
	Tracing  config.TracingConfig `yaml:"tracing"`
}

func renderConfig(cfg *config.Config) ([]byte, error) {
	doc := configDoc{
		Server: serverDoc{
			Environment:     string(cfg.Server.Environment),
			Port:            cfg.Server.Port,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			Version:         cfg.Server.Version,
			ShutdownTimeout: cfg.Server.ShutdownTimeout.String(),
		},
		Database: databaseDoc{
			URL:            cfg.Database.URL,
			MaxConnections: cfg.Database.MaxConnections,
			QueryTimeout:   cfg.Database.QueryTimeout.String(),
			RunMigrations:  cfg.Database.RunMigrations,
		},
		Tracing: cfg.Tracing,
	}
	return yaml.Marshal(&doc)
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment and defaults")
	}
	logger.InitLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	yamlData, err := renderConfig(cfg)
	if err != nil {
		fmt.Printf("Error marshaling YAML: %v\n", err)
		os.Exit(1)
	}

	env := string(cfg.Server.Environment)
	if len(os.Args) > 1 {
		env = os.Args[1]
	}

	if err := os.MkdirAll("config", 0755); err != nil {
		fmt.Printf("Error creating config directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join("config", fmt.Sprintf("config.%s.yaml", env))
	if err := os.WriteFile(filename, yamlData, 0644); err != nil {
		fmt.Printf("Error writing config file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated %s\n", filename)
}
