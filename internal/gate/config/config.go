package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from the optional config file
// and environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the network port the gateway will bind to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// MaxConns bounds concurrent client connections.
	MaxConns int `koanf:"max_conns" validate:"required,gte=1"`

	// UpstreamURL is the base URL of the local IPFS daemon's HTTP gateway.
	UpstreamURL string `koanf:"upstream_url" validate:"required,http_url"`

	// UpstreamTimeout bounds one proxied fetch, streaming included.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout" validate:"required"`

	// DenylistURL is the external denylist feed.
	DenylistURL string `koanf:"denylist_url" validate:"required,http_url"`

	// DenylistTimeout bounds one denylist fetch.
	DenylistTimeout time.Duration `koanf:"denylist_timeout" validate:"required"`

	// SyncInterval is the fixed denylist re-sync cadence.
	SyncInterval time.Duration `koanf:"sync_interval" validate:"required"`

	// OverrideFile is the operator-maintained block list.
	OverrideFile string `koanf:"override_file" validate:"required"`

	// DenylistFile is the local denylist snapshot, written only by the sync job.
	DenylistFile string `koanf:"denylist_file" validate:"required"`

	// AuditDB is the bbolt audit trail database path.
	AuditDB string `koanf:"audit_db" validate:"required"`

	// CacheWindow is the access-decision cache staleness window.
	CacheWindow time.Duration `koanf:"cache_window" validate:"required"`

	// Jurisdiction selects the compliance profile active at startup.
	Jurisdiction string `koanf:"jurisdiction" validate:"required,country_code"`

	// NoticeMemo bounds the in-memory receipt memo for submitted notices.
	NoticeMemo int `koanf:"notice_memo" validate:"required,gte=1"`
}

// DEFAULT_APP_CONFIG defines the default gateway configuration: a local IPFS
// daemon on the standard gateway port, the official denylist feed, and the
// reference 300s blocklist cache window with a 24h sync cadence.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:             "prod",
	LogLevel:        "info",
	Port:            8081,
	MaxConns:        512,
	UpstreamURL:     "http://127.0.0.1:8080",
	UpstreamTimeout: 120 * time.Second,
	DenylistURL:     "https://raw.githubusercontent.com/ipfs/infra/master/ipfs/gateway/denylist.conf",
	DenylistTimeout: 30 * time.Second,
	SyncInterval:    24 * time.Hour,
	OverrideFile:    "/etc/cid-gate/blacklist.txt",
	DenylistFile:    "/var/lib/cid-gate/denylist-official.txt",
	AuditDB:         "/var/lib/cid-gate/audit.db",
	CacheWindow:     300 * time.Second,
	Jurisdiction:    "US",
	NoticeMemo:      256,
}

var countryCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

// validCountryCode validates the two-letter uppercase jurisdiction code
// shape. Whether the code maps to a registered profile is decided by the
// jurisdiction registry at startup, not here.
func validCountryCode(fl validator.FieldLevel) bool {
	return countryCodeRe.MatchString(fl.Field().String())
}

// envLoader loads environment variables with the prefix "GATE_",
// lowercasing keys and stripping the prefix. Can be swapped in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "GATE_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "GATE_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// fileLoader merges an optional YAML config file named by GATE_CONFIG.
// A missing variable means no file is consulted.
var fileLoader = func(k *koanf.Koanf) error {
	path := os.Getenv("GATE_CONFIG")
	if path == "" {
		return nil
	}
	return k.Load(file.Provider(path), yaml.Parser())
}

// defaultLoader loads default configuration values using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "country_code" validator.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("country_code", validCountryCode)
}

// Load parses the config file (if any) and environment variables and returns
// an AppConfig instance. It applies default values and runs validation
// automatically. Precedence: defaults < file < environment.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := fileLoader(k); err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Jurisdiction = strings.ToUpper(cfg.Jurisdiction)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
