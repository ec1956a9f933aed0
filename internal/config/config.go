package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Firebase FirebaseConfig `yaml:"firebase"`
	Slack    SlackConfig    `yaml:"slack"`
	Mission  MissionConfig  `yaml:"mission"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig selects the gorm dialect. DSN wins over the discrete fields.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	CredentialsJSON string `yaml:"credentials_json"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type MissionConfig struct {
	Timezone        string        `yaml:"timezone"`
	BatchSize       int           `yaml:"batch_size"`
	FailureCooldown time.Duration `yaml:"failure_cooldown"`
}

type ScheduleConfig struct {
	Enabled        bool   `yaml:"enabled"`
	CreateMissions string `yaml:"create_missions"`
	FailedMissions string `yaml:"failed_missions"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 8000, CORSOrigins: []string{"*"}},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{Driver: "postgres", Port: 5432, Name: "postgres"},
		Firebase: FirebaseConfig{ProjectID: "notiyou"},
		Mission:  MissionConfig{Timezone: "UTC", BatchSize: 500, FailureCooldown: 10 * time.Minute},
		Schedule: ScheduleConfig{CreateMissions: "0 0 * * *", FailedMissions: "* * * * *"},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/notiyou/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.DSN, "DATABASE_URL")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASSWORD")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	envOverride(&c.Firebase.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	envOverride(&c.Firebase.CredentialsJSON, "FIREBASE_CREDENTIALS_JSON")
	envOverride(&c.Slack.WebhookURL, "SLACK_WEBHOOK_URL")
	envOverride(&c.Mission.Timezone, "MISSION_TIMEZONE")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	if v, err := strconv.ParseBool(os.Getenv("SCHEDULE_ENABLED")); err == nil {
		c.Schedule.Enabled = v
	}

	if c.Mission.BatchSize <= 0 {
		c.Mission.BatchSize = 500
	}
	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Location resolves Mission.Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Mission.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch c.Database.Driver {
	case "postgres", "":
		return gorm.Open(postgres.Open(c.postgresDSN()), gcfg)
	case "mysql":
		sqlDB, err := c.openMySQL()
		if err != nil {
			return nil, err
		}
		return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
	case "sqlite":
		path := c.Database.DSN
		if path == "" {
			path = c.Database.Name
		}
		return gorm.Open(sqlite.Open(path), gcfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

func (c *Config) postgresDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=require",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
}

func (c *Config) openMySQL() (*sql.DB, error) {
	cfg := gomysql.NewConfig()
	if c.Database.DSN != "" {
		parsed, err := gomysql.ParseDSN(c.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		cfg = parsed
	} else {
		cfg.User = c.Database.User
		cfg.Passwd = c.Database.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
		cfg.DBName = c.Database.Name
	}
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return sqlDB, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
