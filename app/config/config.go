package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from an optional YAML
// file and overridable through the environment.
type Config struct {
	DB       *sql.DB        `yaml:"-"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Timeline TimelineConfig `yaml:"timeline"`
}

type ServerConfig struct {
	Listen   string `yaml:"listen"`
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// TimelineConfig tunes the status sweep and the now-line indicator.
type TimelineConfig struct {
	SweepIntervalSeconds int     `yaml:"sweep_interval_seconds"`
	LineTop              float64 `yaml:"line_top"`
	DedupeMode           string  `yaml:"dedupe_mode"`
}

var AppConfig *Config

// Load reads the YAML config at path (ignored when the file is absent),
// applies environment overrides and fills in defaults.
func Load(path string) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Listen:   ":4008",
			Timezone: "Europe/Paris",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "cockpit",
			SSLMode: "disable",
		},
		Timeline: TimelineConfig{
			SweepIntervalSeconds: 15,
			LineTop:              100,
			DedupeMode:           "midnight",
		},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Failed to parse %s: %v", path, err)
		}
		log.Printf("Loaded configuration from %s", path)
	} else if !os.IsNotExist(err) {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	if v := os.Getenv("COCKPIT_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("COCKPIT_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("COCKPIT_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("COCKPIT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("COCKPIT_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}

	AppConfig = cfg
	return cfg
}

// SweepInterval returns the status sweep period as a duration.
func (c *Config) SweepInterval() time.Duration {
	if c.Timeline.SweepIntervalSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Timeline.SweepIntervalSeconds) * time.Second
}

// InitDB opens the PostgreSQL connection described by the loaded
// configuration and fails fast when it is unreachable.
func InitDB() {
	if AppConfig == nil {
		Load("config.yaml")
	}
	d := AppConfig.Database

	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s connect_timeout=10",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
	if d.Password != "" {
		psqlInfo += " password=" + d.Password
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Printf("Database connection failed: %v", err)
		log.Println("Check database settings in config.yaml or COCKPIT_DB_* environment variables")
		log.Fatal("Cannot establish database connection")
	}

	AppConfig.DB = db
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
