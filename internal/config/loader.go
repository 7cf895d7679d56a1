package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolves one environment variable. It has the shape of
// os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from the process environment, applies defaults
// and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom is Load with an explicit variable source. Every unparsable or
// missing required variable is reported, not just the first.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	l := envLoader{lookup: lookup}
	l.fill(reflect.ValueOf(cfg).Elem())
	if err := errors.Join(l.errs...); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

type envLoader struct {
	lookup LookupFunc
	errs   []error
}

// get returns the first non-empty value among names. An empty variable
// counts as unset.
func (l *envLoader) get(names ...string) string {
	for _, name := range names {
		if name == "" {
			continue
		}
		if v, ok := l.lookup(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// fill walks the struct, recursing into nested sections, and sets every
// field carrying an env tag.
func (l *envLoader) fill(v reflect.Value) {
	t := v.Type()
	for i := range t.NumField() {
		field, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct && field.Type != timeType {
			l.fill(fv)
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}

		value := l.get(name, field.Tag.Get("envAlt"))
		if value == "" {
			if field.Tag.Get("required") == "true" {
				l.errs = append(l.errs, fmt.Errorf("required environment variable %s is not set", name))
				continue
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := parseInto(fv, value); err != nil {
			l.errs = append(l.errs, fmt.Errorf("invalid value for %s=%q: %w", name, value, err))
		}
	}
}

// parseInto converts value to the kind of field and stores it.
func parseInto(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	problems = append(problems, c.Server.problems()...)
	problems = append(problems, c.Database.problems()...)
	if c.Redis.Enabled() && c.Redis.KeyPrefix == "" {
		problems = append(problems, "REDIS_KEY_PREFIX must not be empty when REDIS_URL is set")
	}
	problems = append(problems, c.Import.problems()...)
	problems = append(problems, c.Rate.problems()...)
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		problems = append(problems, "SECURITY_API_KEYS must be set when SECURITY_REQUIRE_API_KEY is true")
	}
	problems = append(problems, c.Logging.problems()...)

	if len(problems) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func (s ServerConfig) problems() []string {
	var p []string
	if s.Port <= 0 || s.Port > 65535 {
		p = append(p, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", s.Port))
	}
	if s.ReadTimeout < 0 {
		p = append(p, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if s.ShutdownTimeout <= 0 {
		p = append(p, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	return p
}

// problems checks pool sizes only when a database is configured.
func (d DatabaseConfig) problems() []string {
	if !d.Enabled() {
		return nil
	}
	var p []string
	if d.MaxConns <= 0 {
		p = append(p, "DB_MAX_CONNS must be positive")
	}
	if d.MinConns < 0 {
		p = append(p, "DB_MIN_CONNS must be non-negative")
	}
	if d.MaxConns < d.MinConns {
		p = append(p, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", d.MaxConns, d.MinConns))
	}
	return p
}

func (i ImportConfig) problems() []string {
	var p []string
	positive := []struct {
		name string
		ok   bool
	}{
		{"IMPORT_PREVIEW_COUNT", i.PreviewCount > 0},
		{"IMPORT_MAX_FILE_SIZE", i.MaxFileSize > 0},
		{"IMPORT_SESSION_TTL", i.SessionTTL > 0},
		{"IMPORT_MAX_CONCURRENT", i.MaxConcurrent > 0},
		{"IMPORT_MAX_WAIT_TIME", i.MaxWaitTime > 0},
		{"IMPORT_TIMEOUT", i.Timeout > 0},
		{"IMPORT_JANITOR_INTERVAL", i.JanitorInterval > 0},
	}
	for _, c := range positive {
		if !c.ok {
			p = append(p, c.name+" must be positive")
		}
	}
	if i.FuzzyThreshold <= 0 || i.FuzzyThreshold > 1 {
		p = append(p, fmt.Sprintf("IMPORT_FUZZY_THRESHOLD (%g) must be in (0, 1]", i.FuzzyThreshold))
	}
	return p
}

func (r RateLimitConfig) problems() []string {
	if !r.Enabled {
		return nil
	}
	var p []string
	if r.RequestsPerMinute <= 0 {
		p = append(p, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if r.UploadLimit <= 0 {
		p = append(p, "RATE_LIMIT_UPLOAD must be positive when rate limiting is enabled")
	}
	return p
}

func (l LoggingConfig) problems() []string {
	var p []string
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		p = append(p, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", l.Level))
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		p = append(p, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", l.Format))
	}
	return p
}

// String renders the config for logging with credentials removed from
// connection URLs.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Addr: %s}, Database: {URL: %s, MaxConns: %d, MinConns: %d}, "+
		"Redis: {URL: %s, KeyPrefix: %q}, Import: {PreviewCount: %d, MaxFileSize: %d, MaxConcurrent: %d, SessionTTL: %s}, "+
		"Rate: {Enabled: %t, RequestsPerMinute: %d}, Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(),
		redactURL(c.Database.URL), c.Database.MaxConns, c.Database.MinConns,
		redactURL(c.Redis.URL), c.Redis.KeyPrefix,
		c.Import.PreviewCount, c.Import.MaxFileSize, c.Import.MaxConcurrent, c.Import.SessionTTL,
		c.Rate.Enabled, c.Rate.RequestsPerMinute,
		c.Logging.Level, c.Logging.Format,
	)
}

// redactURL keeps scheme, host and path of a connection URL and drops
// user info and query parameters.
func redactURL(raw string) string {
	if raw == "" {
		return "[UNSET]"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "[INVALID]"
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}
