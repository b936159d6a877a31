package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBLogLevel string `mapstructure:"DB_LOG_LEVEL"`

	MySQLHost string `mapstructure:"MYSQL_HOST"`
	MySQLPort string `mapstructure:"MYSQL_PORT"`
	MySQLDB   string `mapstructure:"MYSQL_DB"`
	MySQLUser string `mapstructure:"MYSQL_USER"`
	MySQLPass string `mapstructure:"MYSQL_PASS"`

	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	IdempTTLSecs int `mapstructure:"IDEMPOTENCY_TTL_SECONDS"`

	LogLevel       string `mapstructure:"LOG_LEVEL"`
	AdminSecretKey string `mapstructure:"ADMIN_SECRET_KEY"`
	BcryptCost     int    `mapstructure:"BCRYPT_COST"`
}

var keys = map[string]any{
	"APP_PORT":                "8080",
	"DB_DRIVER":               DriverMySQL,
	"DB_LOG_LEVEL":            "warn",
	"MYSQL_HOST":              "mysql",
	"MYSQL_PORT":              "3306",
	"MYSQL_DB":                "loanledger",
	"MYSQL_USER":              "loanledger",
	"MYSQL_PASS":              "loanledger",
	"POSTGRES_DSN":            "",
	"SQLITE_PATH":             "loanledger.db",
	"REDIS_ADDR":              "redis:6379",
	"REDIS_DB":                0,
	"REDIS_PASSWORD":          "",
	"IDEMPOTENCY_TTL_SECONDS": 300,
	"LOG_LEVEL":               "info",
	"ADMIN_SECRET_KEY":        "",
	"BCRYPT_COST":             10,
}

// Load reads the environment, optionally seeded from envFile (missing file is
// not an error).
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, d := range keys {
		v.SetDefault(k, d)
		_ = v.BindEnv(k)
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	return c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("invalid BCRYPT_COST %d", c.BcryptCost)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
