package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config struct {
	Journal   JournalConfig   `mapstructure:"journal"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
}

type JournalConfig struct {
	DataDirectory string `mapstructure:"data_directory" validate:"required"`
	FileName      string `mapstructure:"file_name" validate:"required"`
}

type CatalogConfig struct {
	BaseURL       string        `mapstructure:"base_url" validate:"required,url"`
	PageSize      int           `mapstructure:"page_size" validate:"min=1,max=100"`
	RetryAttempts uint          `mapstructure:"retry_attempts" validate:"max=10"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Concurrency   int           `mapstructure:"concurrency" validate:"min=1"`
	StrictDetails bool          `mapstructure:"strict_details"`
}

type TemplatesConfig struct {
	MarkdownDirectory string `mapstructure:"markdown_directory"`
}

type OutputsConfig struct {
	ExportDirectory string `mapstructure:"export_directory" validate:"required"`
}

// JournalTemplatePath is the user override of the journal export template.
func (c TemplatesConfig) JournalTemplatePath() string {
	return filepath.Join(c.MarkdownDirectory, "journal.md.go.tmpl")
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pokejournal")
	}

	v.SetDefault("journal.data_directory", filepath.Join("~", ".pokejournal"))
	v.SetDefault("journal.file_name", "journal_entries.json")
	v.SetDefault("catalog.base_url", "https://pokeapi.co/api/v2")
	v.SetDefault("catalog.page_size", 20)
	v.SetDefault("catalog.retry_attempts", 0)
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.concurrency", 8)
	v.SetDefault("catalog.strict_details", false)
	v.SetDefault("templates.markdown_directory", filepath.Join("assets", "templates"))
	v.SetDefault("outputs.export_directory", "exports")

	if err := v.BindEnv("journal.data_directory", "POKEJOURNAL_DATA_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind POKEJOURNAL_DATA_DIR environment variable: %w", err)
	}
	if err := v.BindEnv("catalog.base_url", "POKEJOURNAL_CATALOG_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind POKEJOURNAL_CATALOG_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	dataDirectory, err := homedir.Expand(cfg.Journal.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("homedir.Expand(%s) > %w", cfg.Journal.DataDirectory, err)
	}
	cfg.Journal.DataDirectory = dataDirectory
	cfg.Catalog.BaseURL = strings.TrimSuffix(cfg.Catalog.BaseURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
