// Package config loads the harvester configuration from the crawler JSON file,
// .env files and HARVESTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is used when HARVESTER_CONFIG is not set.
	DefaultConfigPath = "scrapper_config.json"
	// MaxArticlesLimit is the largest accepted total_articles_to_find_and_parse.
	MaxArticlesLimit = 200

	envPrefix     = "HARVESTER"
	configPathEnv = "HARVESTER_CONFIG"

	keySeedURLs    = "seed_urls"
	keyMaxArticles = "total_articles_to_find_and_parse"
)

// Validation errors.
var (
	ErrInvalidSeedURL         = errors.New("invalid seed url")
	ErrInvalidArticleCount    = errors.New("invalid number of articles")
	ErrArticleCountOutOfRange = errors.New("number of articles out of range")
)

// Config is the validated harvester configuration.
type Config struct {
	SeedURLs    []string
	MaxArticles int

	ProviderID     string
	ArticleBaseURL string
	Timezone       string
	HTTPTimeout    time.Duration

	AssetsPath     string
	ArchivePath    string
	PublishersFile string

	FetchAllSeeds      bool
	SkipFailedArticles bool

	LogLevel       string
	LogDevelopment bool
	LogOutputPaths []string
}

// Load reads .env files, then the crawler config named by HARVESTER_CONFIG
// (or DefaultConfigPath).
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	path := strings.TrimSpace(os.Getenv(configPathEnv))
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFile(path)
}

// loadEnvFiles loads .env.local then .env; missing files are ignored.
func loadEnvFiles() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// LoadFile reads and validates the crawler config at path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read crawler config %s: %w", path, err)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider_id", "k1news")
	v.SetDefault("article_base_url", "https://k1news.ru/news/")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("http_timeout", "15s")
	v.SetDefault("assets_path", "tmp/articles")
	v.SetDefault("archive_path", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("fetch_all_seeds", false)
	v.SetDefault("skip_failed_articles", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("log_output_paths", []string{})
}

func fromViper(v *viper.Viper) (*Config, error) {
	seeds, err := validateSeedURLs(v.Get(keySeedURLs))
	if err != nil {
		return nil, err
	}
	maxArticles, err := validateArticleCount(v.Get(keyMaxArticles))
	if err != nil {
		return nil, err
	}

	timeout := v.GetDuration("http_timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("http_timeout must be positive, got %q", v.GetString("http_timeout"))
	}

	tz := strings.TrimSpace(v.GetString("timezone"))
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}

	return &Config{
		SeedURLs:           seeds,
		MaxArticles:        maxArticles,
		ProviderID:         strings.TrimSpace(v.GetString("provider_id")),
		ArticleBaseURL:     strings.TrimSpace(v.GetString("article_base_url")),
		Timezone:           tz,
		HTTPTimeout:        timeout,
		AssetsPath:         strings.TrimSpace(v.GetString("assets_path")),
		ArchivePath:        strings.TrimSpace(v.GetString("archive_path")),
		PublishersFile:     strings.TrimSpace(v.GetString("publishers_file")),
		FetchAllSeeds:      v.GetBool("fetch_all_seeds"),
		SkipFailedArticles: v.GetBool("skip_failed_articles"),
		LogLevel:           v.GetString("log_level"),
		LogDevelopment:     v.GetBool("log_development"),
		LogOutputPaths:     v.GetStringSlice("log_output_paths"),
	}, nil
}

// Location returns the zone article dates are read in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Provider builds the provider description the crawler runs against.
func (c *Config) Provider() providers.Provider {
	return providers.Provider{
		ID:             c.ProviderID,
		Name:           c.ProviderID,
		ArticleBaseURL: c.ArticleBaseURL,
		Location:       c.Location(),
	}
}

// validateSeedURLs requires a non-empty list of strings starting with https://.
func validateSeedURLs(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list", ErrInvalidSeedURL, keySeedURLs)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidSeedURL, keySeedURLs)
	}

	seeds := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok || !strings.HasPrefix(s, "https://") {
			return nil, fmt.Errorf("%w: %s[%d] = %v", ErrInvalidSeedURL, keySeedURLs, i, item)
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}

// validateArticleCount requires a whole number in 1..MaxArticlesLimit. JSON
// numbers arrive as float64; 10.0 is accepted, 10.5 is not.
func validateArticleCount(raw any) (int, error) {
	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s = %v is not an integer", ErrInvalidArticleCount, keyMaxArticles, v)
		}
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s = %v", ErrArticleCountOutOfRange, keyMaxArticles, v)
		}
		n = int(v)
	default:
		return 0, fmt.Errorf("%w: %s = %v is not an integer", ErrInvalidArticleCount, keyMaxArticles, raw)
	}

	if n <= 0 {
		return 0, fmt.Errorf("%w: %s = %d", ErrInvalidArticleCount, keyMaxArticles, n)
	}
	if n > MaxArticlesLimit {
		return 0, fmt.Errorf("%w: %s = %d exceeds %d", ErrArticleCountOutOfRange, keyMaxArticles, n, MaxArticlesLimit)
	}
	return n, nil
}
