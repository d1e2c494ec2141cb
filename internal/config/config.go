// Package config loads bakesync configuration from a YAML file, BAKESYNC_*
// environment variables and command line flags (in increasing priority).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	clientsync "github.com/iudanet/bakesync/internal/client/sync"
	"github.com/iudanet/bakesync/internal/logging"
	"github.com/iudanet/bakesync/internal/validation"
)

// EnvPrefix is the prefix of environment overrides, e.g. BAKESYNC_SERVER_URL
const EnvPrefix = "BAKESYNC"

// Sync содержит настройки цикла и планировщика
type Sync struct {
	Debounce            time.Duration `mapstructure:"debounce"`
	MaxWait             time.Duration `mapstructure:"max_wait"`
	Interval            time.Duration `mapstructure:"interval"`
	BackoffBase         time.Duration `mapstructure:"backoff_base"`
	BackoffMax          time.Duration `mapstructure:"backoff_max"`
	CycleTimeout        time.Duration `mapstructure:"cycle_timeout"`
	ConflictBackoff     time.Duration `mapstructure:"conflict_backoff"`
	TombstoneTTL        time.Duration `mapstructure:"tombstone_ttl"`
	MaxRetries          uint64        `mapstructure:"max_retries"`
	MaxConflictAttempts int           `mapstructure:"max_conflict_attempts"`
}

// Engine returns the sync engine settings
func (s Sync) Engine() clientsync.Config {
	return clientsync.Config{
		MaxConflictAttempts: s.MaxConflictAttempts,
		ConflictBackoff:     s.ConflictBackoff,
		TombstoneTTL:        s.TombstoneTTL,
	}
}

// Scheduler returns the scheduler settings
func (s Sync) Scheduler() clientsync.SchedulerConfig {
	return clientsync.SchedulerConfig{
		Debounce:     s.Debounce,
		MaxWait:      s.MaxWait,
		Interval:     s.Interval,
		BackoffBase:  s.BackoffBase,
		BackoffMax:   s.BackoffMax,
		MaxRetries:   s.MaxRetries,
		CycleTimeout: s.CycleTimeout,
	}
}

// Client содержит настройки клиента
type Client struct {
	ServerURL  string         `mapstructure:"server_url"`
	DBPath     string         `mapstructure:"db_path"`
	Token      string         `mapstructure:"token"`
	Passphrase string         `mapstructure:"passphrase"` // пусто - документ хранится открытым JSON
	Log        logging.Config `mapstructure:"log"`
	Sync       Sync           `mapstructure:"sync"`
	Timeout    time.Duration  `mapstructure:"timeout"`
}

// DefaultClient returns the client defaults
func DefaultClient() Client {
	engine := clientsync.DefaultConfig()
	sched := clientsync.DefaultSchedulerConfig()

	// CLI печатает результат в stdout, журнал по умолчанию только предупреждения
	log := logging.DefaultConfig()
	log.Level = "warn"

	return Client{
		ServerURL: "http://localhost:8080",
		DBPath:    "bakesync.db",
		Timeout:   30 * time.Second,
		Log:       log,
		Sync: Sync{
			Debounce:            sched.Debounce,
			MaxWait:             sched.MaxWait,
			Interval:            sched.Interval,
			BackoffBase:         sched.BackoffBase,
			BackoffMax:          sched.BackoffMax,
			CycleTimeout:        sched.CycleTimeout,
			MaxRetries:          sched.MaxRetries,
			MaxConflictAttempts: engine.MaxConflictAttempts,
			ConflictBackoff:     engine.ConflictBackoff,
			TombstoneTTL:        engine.TombstoneTTL,
		},
	}
}

// Validate checks the client settings
func (c Client) Validate() error {
	var errs []error
	if err := validateURL(c.ServerURL); err != nil {
		errs = append(errs, err)
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.Passphrase != "" {
		if err := validation.ValidatePassphrase(c.Passphrase); err != nil {
			errs = append(errs, err)
		}
	}

	s := c.Sync
	positive := map[string]time.Duration{
		"sync.debounce":         s.Debounce,
		"sync.max_wait":         s.MaxWait,
		"sync.backoff_base":     s.BackoffBase,
		"sync.backoff_max":      s.BackoffMax,
		"sync.cycle_timeout":    s.CycleTimeout,
		"sync.conflict_backoff": s.ConflictBackoff,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", key))
		}
	}
	if s.Interval < 0 {
		errs = append(errs, errors.New("sync.interval must not be negative"))
	}
	if s.TombstoneTTL < 0 {
		errs = append(errs, errors.New("sync.tombstone_ttl must not be negative"))
	}
	if s.MaxWait > 0 && s.MaxWait < s.Debounce {
		errs = append(errs, errors.New("sync.max_wait must not be shorter than sync.debounce"))
	}
	if s.BackoffMax > 0 && s.BackoffMax < s.BackoffBase {
		errs = append(errs, errors.New("sync.backoff_max must not be shorter than sync.backoff_base"))
	}
	if s.MaxConflictAttempts < 1 {
		errs = append(errs, errors.New("sync.max_conflict_attempts must be at least 1"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}

// Server содержит настройки эталонного бэкенда документов
type Server struct {
	Addr            string         `mapstructure:"addr"`
	DBPath          string         `mapstructure:"db_path"`
	JWTSecret       string         `mapstructure:"jwt_secret"`
	Log             logging.Config `mapstructure:"log"`
	TokenTTL        time.Duration  `mapstructure:"token_ttl"`
	RateWindow      time.Duration  `mapstructure:"rate_window"`
	ShutdownTimeout time.Duration  `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64          `mapstructure:"max_body_size"`
	RateLimit       int            `mapstructure:"rate_limit"`
}

// DefaultServer returns the server defaults
func DefaultServer() Server {
	return Server{
		Addr:            ":8080",
		DBPath:          "bakesync-server.db",
		TokenTTL:        24 * time.Hour,
		MaxBodySize:     16 << 20,
		RateLimit:       120,
		RateWindow:      time.Minute,
		ShutdownTimeout: 10 * time.Second,
		Log:             logging.DefaultConfig(),
	}
}

// minSecretLen минимальная длина секрета HS256
const minSecretLen = 32

// Validate checks the server settings
func (c Server) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if len(c.JWTSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("jwt_secret must be at least %d bytes", minSecretLen))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.MaxBodySize <= 0 {
		errs = append(errs, errors.New("max_body_size must be positive"))
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		errs = append(errs, errors.New("rate_limit and rate_window must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}

// LoadClient reads the client configuration. file may be empty; flags may
// be nil. Flag names use dashes (server-url) and map to keys with
// underscores (server_url).
func LoadClient(file string, flags *pflag.FlagSet) (*Client, error) {
	cfg := DefaultClient()
	if err := load(file, flags, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	return &cfg, nil
}

// LoadServer reads the server configuration
func LoadServer(file string, flags *pflag.FlagSet) (*Server, error) {
	cfg := DefaultServer()
	if err := load(file, flags, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return &cfg, nil
}

func load(file string, flags *pflag.FlagSet, out any) error {
	v := viper.New()

	// Значения по умолчанию регистрируем, чтобы AutomaticEnv видел все ключи
	keys := map[string]struct{}{}
	registerDefaults(v, "", reflect.ValueOf(out).Elem(), keys)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := keys[key]; !ok {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// registerDefaults walks the mapstructure tags of val and registers every
// leaf as a viper default ("sync.debounce" for nested structs).
func registerDefaults(v *viper.Viper, prefix string, val reflect.Value, keys map[string]struct{}) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + tag
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			registerDefaults(v, key+".", val.Field(i), keys)
			continue
		}
		v.SetDefault(key, val.Field(i).Interface())
		keys[key] = struct{}{}
	}
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url has no host: %q", raw)
	}
	return nil
}

func sortedKeys(m map[string]time.Duration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
