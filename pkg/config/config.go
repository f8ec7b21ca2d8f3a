package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTP
	Logger   Logger
	Postgres Postgres
	Zoho     Zoho
	Kafka    Kafka
	Jobs     Jobs
}

type HTTP struct {
	Port           int      `env:"HTTP_PORT" envDefault:"8080"`
	APIPrefix      string   `env:"HTTP_API_PREFIX" envDefault:"/api/v1"`
	AllowedOrigins []string `env:"ORIGINS" envDefault:"*" envSeparator:","`
	APIKeyEnabled  bool     `env:"HTTP_API_KEY_ENABLED" envDefault:"false"`
	APIKey         string   `env:"HTTP_API_KEY" envDefault:"dev"`
}

type Logger struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Postgres struct {
	DSN     string `env:"POSTGRES_DSN"`
	MaxConn int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
}

type Zoho struct {
	ClientID       string        `env:"ZOHO_CLIENT_ID"`
	ClientSecret   string        `env:"ZOHO_CLIENT_SECRET"`
	RefreshToken   string        `env:"ZOHO_REFRESH_TOKEN" envDefault:""` // seeds an empty token store
	OrganizationID string        `env:"ZOHO_ORGANIZATION_ID"`
	AccountsURL    string        `env:"ZOHO_ACCOUNTS_URL" envDefault:"https://accounts.zoho.com"`
	APIURL         string        `env:"ZOHO_API_URL" envDefault:"https://invoice.zoho.com/api/v3"`
	RedirectURI    string        `env:"ZOHO_REDIRECT_URI" envDefault:"http://localhost:8000/callback"`
	Scope          string        `env:"ZOHO_SCOPE" envDefault:"ZohoInvoice.fullaccess.all"`
	Timeout        time.Duration `env:"ZOHO_HTTP_TIMEOUT" envDefault:"10s"`
}

type Kafka struct {
	Brokers             []string `env:"KAFKA_BROKERS" envDefault:""`
	InvoiceCreatedTopic string   `env:"KAFKA_INVOICE_CREATED_TOPIC" envDefault:"invoice.created"`
}

type Jobs struct {
	TokenWarmupInterval time.Duration `env:"JOB_TOKEN_WARMUP_INTERVAL" envDefault:"0s"`
}

func New(envPath string) (Config, error) {
	return parse[Config](envPath)
}

// NewZoho loads only the Zoho settings. Used by tools that do not run the HTTP service.
func NewZoho(envPath string) (Zoho, error) {
	return parse[Zoho](envPath)
}

func parse[T any](envPath string) (T, error) {
	var zero T

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return zero, err
	}

	c, err := env.ParseAsWithOptions[T](env.Options{
		RequiredIfNoDef: true,
	})
	if err != nil {
		return zero, err
	}

	return c, nil
}
