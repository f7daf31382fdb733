package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Backend selection values
	BackendAuto       = "auto"
	BackendPDFCPU     = "pdfcpu"
	BackendLedongthuc = "ledongthuc"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultMaxFileSize     = 100 * 1024 * 1024 // 100MB
	DefaultAnalysisTimeout = 30 * time.Second

	// EnvPrefix is prepended to every environment variable name
	EnvPrefix = "PDF_ANALYSER"
)

// ErrVersionRequested is returned by LoadFromFlags when --version was passed
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the PDF analyser
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// BaseDirectory resolves relative paths handed to the tools
	BaseDirectory string

	// Analysis configuration
	AllowedExtensions []string
	TextBackend       string
	ImageBackend      string
	KeywordsFile      string
	AnalysisTimeout   time.Duration
	MaxFileSize       int64 // Maximum PDF file size in bytes

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio,
		Host:              DefaultHost,
		Port:              DefaultPort,
		BaseDirectory:     currentDir,
		AllowedExtensions: []string{"pdf"},
		TextBackend:       BackendAuto,
		ImageBackend:      BackendAuto,
		AnalysisTimeout:   DefaultAnalysisTimeout,
		MaxFileSize:       DefaultMaxFileSize,
		Version:           "1.0.0",
		ServerName:        "pdf-analyser",
		LogLevel:          DefaultLogLevel,
	}
}

// LoadFromFlags reads .env, the environment and command line flags, in
// increasing order of precedence, and returns a validated configuration
func LoadFromFlags() (*Config, error) {
	// a missing .env is the common case
	_ = godotenv.Load()

	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.BaseDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.BaseDirectory); err == nil {
			cfg.BaseDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.BaseDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("extensions", cfg.AllowedExtensions)
	viper.SetDefault("text-backend", cfg.TextBackend)
	viper.SetDefault("image-backend", cfg.ImageBackend)
	viper.SetDefault("keywords", cfg.KeywordsFile)
	viper.SetDefault("timeout", cfg.AnalysisTimeout)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.BaseDirectory, "Base directory for relative PDF paths")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.StringSlice("extensions", cfg.AllowedExtensions, "Allowed file extensions, case-sensitive")
	pflag.String("text-backend", cfg.TextBackend, "Text extraction backend (auto, ledongthuc)")
	pflag.String("image-backend", cfg.ImageBackend, "Image detection backend (auto, pdfcpu, ledongthuc)")
	pflag.String("keywords", cfg.KeywordsFile, "YAML file with default keywords for pdf_match_keywords")
	pflag.Duration("timeout", cfg.AnalysisTimeout, "Maximum time a single analysis may take")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"extensions", "text-backend", "image-backend", "keywords", "timeout",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPDF Analyser - A Model Context Protocol server for PDF text and structure analysis\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs --keywords=kw.yaml  "+
			"# stdio mode with default keywords\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # SSE server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE           Server mode\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_HOST           Server host\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_PORT           Server port\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_DIR            Base directory\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL       Log level\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_MAXFILESIZE    Maximum file size\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_EXTENSIONS     Allowed extensions (space separated)\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_TEXT_BACKEND   Text backend\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_IMAGE_BACKEND  Image backend\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_KEYWORDS       Keyword file\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_TIMEOUT        Analysis timeout\n", EnvPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.BaseDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.AllowedExtensions = viper.GetStringSlice("extensions")
	cfg.TextBackend = viper.GetString("text-backend")
	cfg.ImageBackend = viper.GetString("image-backend")
	cfg.KeywordsFile = viper.GetString("keywords")
	cfg.AnalysisTimeout = viper.GetDuration("timeout")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.BaseDirectory == "" {
		return errors.New("base directory cannot be empty")
	}
	if info, err := os.Stat(c.BaseDirectory); err != nil {
		return fmt.Errorf("cannot access base directory %s: %w", c.BaseDirectory, err)
	} else if !info.IsDir() {
		return fmt.Errorf("base directory %s is not a directory", c.BaseDirectory)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.AnalysisTimeout <= 0 {
		return errors.New("analysis timeout must be positive")
	}

	if len(c.AllowedExtensions) == 0 {
		return errors.New("at least one allowed extension is required")
	}
	for _, ext := range c.AllowedExtensions {
		if ext == "" || strings.Contains(ext, ".") {
			return fmt.Errorf("invalid extension %q: give it without the leading dot", ext)
		}
	}

	switch c.TextBackend {
	case BackendAuto, BackendLedongthuc:
	default:
		return fmt.Errorf("invalid text backend: %s (must be one of: auto, ledongthuc)", c.TextBackend)
	}
	switch c.ImageBackend {
	case BackendAuto, BackendPDFCPU, BackendLedongthuc:
	default:
		return fmt.Errorf("invalid image backend: %s (must be one of: auto, pdfcpu, ledongthuc)", c.ImageBackend)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.KeywordsFile != "" {
		if _, err := os.Stat(c.KeywordsFile); err != nil {
			return fmt.Errorf("cannot access keywords file %s: %w", c.KeywordsFile, err)
		}
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, BaseDirectory: %s, LogLevel: %s, MaxFileSize: %d, "+
		"AllowedExtensions: %v, TextBackend: %s, ImageBackend: %s, KeywordsFile: %s, AnalysisTimeout: %s}",
		c.Mode, c.Host, c.Port, c.BaseDirectory, c.LogLevel, c.MaxFileSize,
		c.AllowedExtensions, c.TextBackend, c.ImageBackend, c.KeywordsFile, c.AnalysisTimeout)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
