package config

import (
	dbutils "github.com/tendant/db-utils/db"
)

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"IDM_PG_HOST" env-default:"localhost" env-description:"PostgreSQL host"`
	Port     uint16 `env:"IDM_PG_PORT" env-default:"5432" env-description:"PostgreSQL port"`
	Database string `env:"IDM_PG_DATABASE" env-default:"account_db" env-description:"PostgreSQL database name"`
	User     string `env:"IDM_PG_USER" env-default:"account" env-description:"PostgreSQL user"`
	Password string `env:"IDM_PG_PASSWORD" env-default:"pwd" env-description:"PostgreSQL password"`
}

// ToDbConfig converts the config to a db-utils DbConfig
func (d DatabaseConfig) ToDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}
