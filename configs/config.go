package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		BaseURL  string `koanf:"base_url"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Iyzico struct {
		APIKey    string        `koanf:"api_key"`
		SecretKey string        `koanf:"secret_key"`
		BaseURL   string        `koanf:"base_url"`
		Currency  string        `koanf:"currency"`
		Locale    string        `koanf:"locale"`
		Timeout   time.Duration `koanf:"timeout"`
	} `koanf:"iyzico"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Session struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"session"`

	Security struct {
		JWTSecret       string        `koanf:"jwt_secret"`
		Issuer          string        `koanf:"issuer"`
		Audience        string        `koanf:"audience"`
		TTL             time.Duration `koanf:"ttl"`
		OpsClientID     string        `koanf:"ops_client_id"`
		OpsClientSecret string        `koanf:"ops_client_secret"`
	} `koanf:"security"`
}

// CallbackURL is where the gateway redirects/posts the buyer after payment.
func (c Config) CallbackURL() string {
	return strings.TrimRight(c.App.BaseURL, "/") + "/v1/payment/callback"
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix STOREFRONT_, nested with __)
	// e.g. STOREFRONT_IYZICO__API_KEY, STOREFRONT_REDIS__PASSWORD
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOREFRONT_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.App.BaseURL == "" {
		return fmt.Errorf("app.base_url required")
	}
	if c.Iyzico.APIKey == "" || c.Iyzico.SecretKey == "" {
		return fmt.Errorf("iyzico.api_key and iyzico.secret_key required")
	}
	if c.Iyzico.BaseURL == "" {
		return fmt.Errorf("iyzico.base_url required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	return nil
}
