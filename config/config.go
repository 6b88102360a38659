package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/graphprops"
	"github.com/zero-day-ai/graphprops/graph"
	"github.com/zero-day-ai/graphprops/normalize"
	"github.com/zero-day-ai/graphprops/store/memstore"
	"github.com/zero-day-ai/graphprops/store/redisstore"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config represents a graphprops.yaml configuration file.
type Config struct {
	// Store selects the backend: "memory" (default) or "redis".
	Store string `yaml:"store,omitempty"`

	Codec     *CodecConfig     `yaml:"codec,omitempty"`
	Normalize *NormalizeConfig `yaml:"normalize,omitempty"`
	Redis     *RedisConfig     `yaml:"redis,omitempty"`
	Log       *LogConfig       `yaml:"log,omitempty"`
}

// CodecConfig tunes property flattening and wire decoding.
type CodecConfig struct {
	// Delimiter joins path segments into flat keys.
	// Default: "."
	Delimiter string `yaml:"delimiter,omitempty"`

	// DetectDates turns ISO-8601 strings read from the store into dates.
	// Default: true
	DetectDates *bool `yaml:"detect_dates,omitempty"`
}

// GetDelimiter returns the configured delimiter or the default value.
func (c *CodecConfig) GetDelimiter() string {
	if c == nil || c.Delimiter == "" {
		return "."
	}
	return c.Delimiter
}

// GetDetectDates returns whether date detection is enabled.
func (c *CodecConfig) GetDetectDates() bool {
	if c == nil || c.DetectDates == nil {
		return true
	}
	return *c.DetectDates
}

// NormalizeConfig bounds the dictionary normalizer.
type NormalizeConfig struct {
	// MaxPasses caps the number of normalization passes.
	// Default: 0 (derived from the input's dictionary depth)
	MaxPasses int `yaml:"max_passes,omitempty"`
}

// GetMaxPasses returns the configured pass limit, or 0 when the limit should
// be derived from the input.
func (n *NormalizeConfig) GetMaxPasses() int {
	if n == nil || n.MaxPasses < 0 {
		return 0
	}
	return n.MaxPasses
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	// URL is the Redis connection string.
	// Default: "redis://localhost:6379"
	URL string `yaml:"url,omitempty"`

	// Prefix namespaces every key.
	// Default: "graphprops"
	Prefix string `yaml:"prefix,omitempty"`

	// ConnectTimeout, ReadTimeout and WriteTimeout are Go duration strings
	// (e.g., "5s"). Defaults: 5s, 3s, 3s.
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`
	ReadTimeout    string `yaml:"read_timeout,omitempty"`
	WriteTimeout   string `yaml:"write_timeout,omitempty"`
}

// GetURL returns the connection string or the default value.
func (r *RedisConfig) GetURL() string {
	if r == nil || r.URL == "" {
		return "redis://localhost:6379"
	}
	return r.URL
}

// GetPrefix returns the key prefix or the default value.
func (r *RedisConfig) GetPrefix() string {
	if r == nil || r.Prefix == "" {
		return redisstore.DefaultPrefix
	}
	return r.Prefix
}

// GetConnectTimeout parses the connect timeout.
// Returns the default value if not set or invalid.
func (r *RedisConfig) GetConnectTimeout() time.Duration {
	if r == nil {
		return 5 * time.Second
	}
	return parseDuration(r.ConnectTimeout, 5*time.Second)
}

// GetReadTimeout parses the read timeout.
// Returns the default value if not set or invalid.
func (r *RedisConfig) GetReadTimeout() time.Duration {
	if r == nil {
		return 3 * time.Second
	}
	return parseDuration(r.ReadTimeout, 3*time.Second)
}

// GetWriteTimeout parses the write timeout.
// Returns the default value if not set or invalid.
func (r *RedisConfig) GetWriteTimeout() time.Duration {
	if r == nil {
		return 3 * time.Second
	}
	return parseDuration(r.WriteTimeout, 3*time.Second)
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json".
	// Default: text
	Format string `yaml:"format,omitempty"`
}

// GetLevel returns the parsed level or slog.LevelInfo.
func (l *LogConfig) GetLevel() slog.Level {
	if l == nil || l.Level == "" {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetFormat returns "json" or "text".
func (l *LogConfig) GetFormat() string {
	if l != nil && strings.EqualFold(l.Format, "json") {
		return "json"
	}
	return "text"
}

// GetStore returns the backend name or StoreMemory.
func (c *Config) GetStore() string {
	if c == nil || c.Store == "" {
		return StoreMemory
	}
	return strings.ToLower(c.Store)
}

// Logger builds a logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var lc *LogConfig
	if c != nil {
		lc = c.Log
	}
	opts := &slog.HandlerOptions{Level: lc.GetLevel()}
	if lc.GetFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// CodecOptions returns the graphprops options for this configuration.
func (c *Config) CodecOptions(logger *slog.Logger) []graphprops.Option {
	var cc *CodecConfig
	if c != nil {
		cc = c.Codec
	}
	return []graphprops.Option{
		graphprops.WithLogger(logger),
		graphprops.WithDelimiter(cc.GetDelimiter()),
		graphprops.WithDateDetection(cc.GetDetectDates()),
	}
}

// NormalizeOptions returns the normalizer options for this configuration.
func (c *Config) NormalizeOptions(logger *slog.Logger) []normalize.Option {
	var nc *NormalizeConfig
	if c != nil {
		nc = c.Normalize
	}
	return []normalize.Option{
		normalize.WithLogger(logger),
		normalize.MaxPasses(nc.GetMaxPasses()),
	}
}

// RedisOptions returns the Redis store options for this configuration.
func (c *Config) RedisOptions(logger *slog.Logger) redisstore.Options {
	var rc *RedisConfig
	if c != nil {
		rc = c.Redis
	}
	return redisstore.Options{
		URL:            rc.GetURL(),
		Prefix:         rc.GetPrefix(),
		ConnectTimeout: rc.GetConnectTimeout(),
		ReadTimeout:    rc.GetReadTimeout(),
		WriteTimeout:   rc.GetWriteTimeout(),
		Logger:         logger,
	}
}

// OpenStore opens the configured backend.
func (c *Config) OpenStore(logger *slog.Logger) (graph.Store, error) {
	switch c.GetStore() {
	case StoreMemory:
		return memstore.New(memstore.WithLogger(logger)), nil
	case StoreRedis:
		return redisstore.New(c.RedisOptions(logger))
	}
	return nil, fmt.Errorf("unknown store %q (want %q or %q)", c.Store, StoreMemory, StoreRedis)
}

// Load reads and parses a configuration file from the given path.
// If the path is a directory, it looks for graphprops.yaml or graphprops.yml
// in that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range []string{"graphprops.yaml", "graphprops.yml"} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no graphprops.yaml or graphprops.yml found in %s", path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration YAML.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
