package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	POS          POSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VORTEX_APP_ENV" default:"dev"`
	Port         string `envconfig:"VORTEX_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VORTEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VORTEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VORTEX_DB_DSN"`
	Driver string `envconfig:"VORTEX_DB_DRIVER" default:"postgres"`

	// SQLitePath is used when Driver is sqlite; kept separate from DSN so a
	// postgres DSN in the environment does not leak into dev setups.
	SQLitePath string `envconfig:"VORTEX_DB_SQLITE_PATH" default:"vortex.db"`

	Host     string `envconfig:"VORTEX_DB_HOST"`
	Port     int    `envconfig:"VORTEX_DB_PORT" default:"5432"`
	User     string `envconfig:"VORTEX_DB_USER"`
	Password string `envconfig:"VORTEX_DB_PASSWORD"`
	Name     string `envconfig:"VORTEX_DB_NAME"`
	SSLMode  string `envconfig:"VORTEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VORTEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VORTEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VORTEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VORTEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type POSConfig struct {
	CompanyName string `envconfig:"VORTEX_POS_COMPANY_NAME" default:"TECH STORE S.A."`
	TaxID       string `envconfig:"VORTEX_POS_TAX_ID" default:"RIF: J-12345678-0"`
	ReceiptDir  string `envconfig:"VORTEX_POS_RECEIPT_DIR" default:"facturas"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VORTEX_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.SQLitePath == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvDBSQLitePath)
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	hostValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if hostValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
