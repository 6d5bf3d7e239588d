package model

import "time"

// Config holds the complete lexdiff configuration
type Config struct {
	Compare  CompareConfig  `yaml:"compare" mapstructure:"compare"`
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	Embedder EmbedderConfig `yaml:"embedder" mapstructure:"embedder"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// CompareConfig tunes clause extraction and matching
type CompareConfig struct {
	// SimilarityThreshold 0 uses the threshold the embedder is calibrated for
	SimilarityThreshold float64  `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	MaxDocumentChars    int      `yaml:"max_document_chars" mapstructure:"max_document_chars"`
	MaxDepth            int      `yaml:"max_depth" mapstructure:"max_depth"`
	MinLeafLen          int      `yaml:"min_leaf_len" mapstructure:"min_leaf_len"`
	Workers             int      `yaml:"workers" mapstructure:"workers"`
	BatchSize           int      `yaml:"batch_size" mapstructure:"batch_size"`
	IgnoreKeys          []string `yaml:"ignore_keys" mapstructure:"ignore_keys"`
}

// AnalyzerConfig selects the linguistic analyzer
type AnalyzerConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // lexical, openai, anthropic, ollama
	Model             string        `yaml:"model" mapstructure:"model"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	DiskCacheDir      string        `yaml:"disk_cache_dir,omitempty" mapstructure:"disk_cache_dir"` // remote providers only
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// EmbedderConfig selects the embedding service
type EmbedderConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // hashing, openai, ollama, voyage
	Model             string        `yaml:"model" mapstructure:"model"`
	Dimensions        int           `yaml:"dimensions" mapstructure:"dimensions"` // 0 keeps the provider default
	APIKey            string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	CacheSize         int           `yaml:"cache_size" mapstructure:"cache_size"`
	DiskCacheDir      string        `yaml:"disk_cache_dir,omitempty" mapstructure:"disk_cache_dir"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig holds LLM provider settings used by the LLM analyzer
type LLMConfig struct {
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// FetchConfig controls how documents given as http(s) URLs are retrieved.
// Proxy settings are shared with LLMConfig.
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBytes      int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	JSONPath      string `yaml:"json_path" mapstructure:"json_path"`
	MarkdownPath  string `yaml:"md_path" mapstructure:"md_path"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	NoColor       bool   `yaml:"no_color" mapstructure:"no_color"`
}

// DefaultIgnoreKeys are tree keys holding generated material, never clauses
var DefaultIgnoreKeys = []string{
	"summary",
	"entities_summary",
	"alerts",
	"sections_count",
	"metadata",
	"generated_summary",
	"document_summary",
	"extraction_metadata",
	"processing_info",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Compare: CompareConfig{
			SimilarityThreshold: 0,
			MaxDocumentChars:    200000,
			MaxDepth:            64,
			MinLeafLen:          20,
			Workers:             4,
			BatchSize:           16,
			IgnoreKeys:          append([]string(nil), DefaultIgnoreKeys...),
		},
		Analyzer: AnalyzerConfig{
			Provider:          "lexical",
			CacheTTL:          24 * time.Hour,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Embedder: EmbedderConfig{
			Provider:          "hashing",
			CacheSize:         4096,
			CacheTTL:          7 * 24 * time.Hour,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
		},
		Fetch: FetchConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "lexdiff/0.1 (+https://github.com/ppiankov/lexdiff)",
			MaxBytes:      20 << 20,
			RespectRobots: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Output: OutputConfig{
			JSONPath:      "report.json",
			IncludeFooter: true,
		},
	}
}
