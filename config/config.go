package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SitemapURL string `yaml:"sitemap_url"`
	Collection string `yaml:"collection"`
	// Reset drops and recreates the collection on every run.
	Reset bool `yaml:"reset"`

	HTTP       HTTPConfig       `yaml:"http"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type HTTPConfig struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	ProxyURL  string        `yaml:"proxy_url"`

	// MaxBodySize caps a response body in bytes. Zero means unlimited.
	MaxBodySize int `yaml:"max_body_size"`
}

type ExtractionConfig struct {
	// Extractors are tried in order until one yields text.
	Extractors []string `yaml:"extractors"`
	Format     string   `yaml:"format"`
}

type ChunkingConfig struct {
	Method   string `yaml:"method"`
	MaxChars int    `yaml:"max_chars"`
	Overlap  int    `yaml:"overlap"`
}

type EmbeddingConfig struct {
	Provider  string        `yaml:"provider"`
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	InputType string        `yaml:"input_type"`
	Dimension int           `yaml:"dimension"`
	Timeout   time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	Distance string         `yaml:"distance"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Weaviate WeaviateConfig `yaml:"weaviate"`
	Bolt     BoltConfig     `yaml:"bolt"`
}

type QdrantConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
	UseTLS bool   `yaml:"use_tls"`
}

type WeaviateConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

type BoltConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the run metrics in Prometheus text format.
	Textfile string `yaml:"textfile"`
}

const (
	BackendQdrant   = "qdrant"
	BackendWeaviate = "weaviate"
	BackendBolt     = "bolt"
)

func Default() *Config {
	return &Config{
		Collection: "humanoid_ai_book",
		Reset:      true,
		HTTP: HTTPConfig{
			UserAgent: "docindex/1.0",
			Timeout:   60 * time.Second,
		},
		Extraction: ExtractionConfig{
			Extractors: []string{"trafilatura"},
			Format:     "text",
		},
		Chunking: ChunkingConfig{
			Method:   "sentence",
			MaxChars: 1200,
		},
		Embedding: EmbeddingConfig{
			Provider:  "cohere",
			Model:     "embed-english-v3.0",
			InputType: "search_document",
			Dimension: 1024,
			Timeout:   60 * time.Second,
		},
		Store: StoreConfig{
			Backend:  BackendQdrant,
			Distance: "cosine",
			Qdrant: QdrantConfig{
				Host: "localhost",
				Port: 6334,
			},
			Weaviate: WeaviateConfig{
				Host: "http://localhost:8080",
			},
			Bolt: BoltConfig{
				Path: "data/chunks.db",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory if present, and environment variables,
// in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString("SITEMAP_URL", &cfg.SitemapURL)
	setString("COLLECTION_NAME", &cfg.Collection)
	setString("PROXY_URL", &cfg.HTTP.ProxyURL)
	setString("USER_AGENT", &cfg.HTTP.UserAgent)
	setList("EXTRACTORS", &cfg.Extraction.Extractors)
	setString("EXTRACT_FORMAT", &cfg.Extraction.Format)
	setString("CHUNKING_METHOD", &cfg.Chunking.Method)
	setString("EMBEDDING_PROVIDER", &cfg.Embedding.Provider)
	setString("EMBEDDING_BASE_URL", &cfg.Embedding.BaseURL)
	setString("COHERE_API_KEY", &cfg.Embedding.APIKey)
	setString("EMBEDDING_MODEL", &cfg.Embedding.Model)
	setString("EMBEDDING_INPUT_TYPE", &cfg.Embedding.InputType)
	setString("VECTOR_STORE", &cfg.Store.Backend)
	setString("VECTOR_DISTANCE", &cfg.Store.Distance)
	setString("QDRANT_HOST", &cfg.Store.Qdrant.Host)
	setString("QDRANT_API_KEY", &cfg.Store.Qdrant.APIKey)
	setString("WEAVIATE_HOST", &cfg.Store.Weaviate.Host)
	setString("WEAVIATE_APIKEY", &cfg.Store.Weaviate.APIKey)
	setString("BOLT_PATH", &cfg.Store.Bolt.Path)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("METRICS_TEXTFILE", &cfg.Metrics.Textfile)

	for key, dst := range map[string]*bool{
		"RESET_COLLECTION": &cfg.Reset,
		"QDRANT_USE_TLS":   &cfg.Store.Qdrant.UseTLS,
		"LOG_DEVELOPMENT":  &cfg.Log.Development,
	} {
		if err := setBool(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*int{
		"CHUNK_MAX_CHARS":     &cfg.Chunking.MaxChars,
		"CHUNK_OVERLAP":       &cfg.Chunking.Overlap,
		"EMBEDDING_DIMENSION": &cfg.Embedding.Dimension,
		"QDRANT_PORT":         &cfg.Store.Qdrant.Port,
		"HTTP_MAX_BODY_SIZE":  &cfg.HTTP.MaxBodySize,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*time.Duration{
		"HTTP_TIMEOUT":      &cfg.HTTP.Timeout,
		"EMBEDDING_TIMEOUT": &cfg.Embedding.Timeout,
	} {
		if err := setDuration(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setList(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}

func setBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("environment variable %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("environment variable %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("environment variable %s: %w", key, err)
	}
	*dst = d
	return nil
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	if c.SitemapURL == "" {
		errs = append(errs, errors.New("sitemap_url is required"))
	}
	if c.Collection == "" {
		errs = append(errs, errors.New("collection is required"))
	}
	if c.Chunking.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("chunking.max_chars must be positive, got %d", c.Chunking.MaxChars))
	}
	if c.HTTP.MaxBodySize < 0 {
		errs = append(errs, fmt.Errorf("http.max_body_size must not be negative, got %d", c.HTTP.MaxBodySize))
	}
	if c.Embedding.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("embedding.dimension must be positive, got %d", c.Embedding.Dimension))
	}

	switch c.Embedding.Provider {
	case "cohere":
		if c.Embedding.APIKey == "" {
			errs = append(errs, errors.New("embedding.api_key (COHERE_API_KEY) is required for the cohere provider"))
		}
	case "tei":
		if c.Embedding.BaseURL == "" {
			errs = append(errs, errors.New("embedding.base_url is required for the tei provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider))
	}

	switch c.Store.Backend {
	case BackendQdrant:
		if c.Store.Qdrant.Host == "" {
			errs = append(errs, errors.New("store.qdrant.host is required"))
		}
	case BackendWeaviate:
		if c.Store.Weaviate.Host == "" {
			errs = append(errs, errors.New("store.weaviate.host is required"))
		}
	case BackendBolt:
		if c.Store.Bolt.Path == "" {
			errs = append(errs, errors.New("store.bolt.path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown vector store backend %q", c.Store.Backend))
	}

	return errors.Join(errs...)
}
