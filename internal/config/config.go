package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"app_port"`

	MySQLHost string `mapstructure:"mysql_host"`
	MySQLPort string `mapstructure:"mysql_port"`
	MySQLDB   string `mapstructure:"mysql_db"`
	MySQLUser string `mapstructure:"mysql_user"`
	MySQLPass string `mapstructure:"mysql_pass"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`

	IdempTTLSecs   int    `mapstructure:"idempotency_ttl_seconds"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// Load reads defaults, an optional config file named by LENDING_DESK_CONFIG,
// then environment variables (APP_PORT, MYSQL_HOST, ...), later sources winning.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app_port", "8080")
	v.SetDefault("mysql_host", "mysql")
	v.SetDefault("mysql_port", "3306")
	v.SetDefault("mysql_db", "lending")
	v.SetDefault("mysql_user", "lending")
	v.SetDefault("mysql_pass", "lending")
	v.SetDefault("redis_addr", "redis:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("idempotency_ttl_seconds", 300)
	v.SetDefault("migrations_path", "migrations")

	if path := os.Getenv("LENDING_DESK_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) mysqlConfig() *mysqldrv.Config {
	mc := mysqldrv.NewConfig()
	mc.User = c.MySQLUser
	mc.Passwd = c.MySQLPass
	mc.Net = "tcp"
	mc.Addr = c.mysqlAddr()
	mc.DBName = c.MySQLDB
	mc.MultiStatements = true
	return mc
}

func (c *Config) MySQLDSN() string {
	mc := c.mysqlConfig()
	// parseTime needed for DATETIME
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4,utf8"}
	return mc.FormatDSN()
}

// MigrateURL is the golang-migrate form of the same DSN; its mysql driver hands
// everything after the scheme to the driver's DSN parser.
func (c *Config) MigrateURL() string {
	return "mysql://" + c.mysqlConfig().FormatDSN()
}
