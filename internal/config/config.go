package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver    string // postgres / mysql / sqlite
	DatabaseURL string // あれば最優先（postgres）

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	MySQLDSN   string
	SQLitePath string

	JWTSecret      string        // JWT署名シークレット
	AccessTokenTTL time.Duration // アクセストークンの有効期限

	TaxRatePercent decimal.Decimal // 税率（%）

	// 通知メール（AWS SES）。SenderEmailが空ならログ出力のみ
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SenderEmail        string
}

const devJWTSecret = "dev_secret_change_me"

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Loadは環境変数から設定を読む。.envの読み込みはmain側で行う
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}

	ttl, err := durationDefault("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}

	taxRate, err := decimalDefault("TAX_RATE_PERCENT", decimal.NewFromInt(16))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "artstore"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		MySQLDSN:   os.Getenv("MYSQL_DSN"),
		SQLitePath: getenv("SQLITE_PATH", "artstore.db"),

		JWTSecret:      getenv("JWT_SECRET", devJWTSecret),
		AccessTokenTTL: ttl,

		TaxRatePercent: taxRate,

		AWSRegion:          getenv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
	}

	//必須チェック
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	case "mysql":
		if cfg.MySQLDSN == "" {
			return Config{}, fmt.Errorf("MYSQL_DSN is required when DB_DRIVER=mysql")
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres, mysql or sqlite: %q", cfg.DBDriver)
	}
	if cfg.IsProd() && cfg.JWTSecret == devJWTSecret {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TaxRatePercent.IsNegative() || cfg.TaxRatePercent.GreaterThan(decimal.NewFromInt(100)) {
		return Config{}, fmt.Errorf("TAX_RATE_PERCENT must be between 0 and 100")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func decimalDefault(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be number: %w", key, err)
	}
	return d, nil
}
