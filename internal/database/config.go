package database

import (
	"net/url"
	"os"
)

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
}

func NewDBConfigFromEnv() DBConfig {
	return DBConfig{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		DBName:   os.Getenv("DB_NAME"),
	}
}

// Valid reports whether all required connection parameters are present.
// Password may legitimately be empty for trust-auth local setups.
func (c DBConfig) Valid() bool {
	return c.User != "" && c.Host != "" && c.Port != "" && c.DBName != ""
}

// TargetDSN builds a correct DSN (URL encoded).
func (c DBConfig) TargetDSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.DBName,
	}
	// sslmode=disable for local development
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}
