package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"MODE", "HOST", "PORT", "DIR", "LOGLEVEL", "MAXFILESIZE",
	"EXTENSIONS", "TEXT_BACKEND", "IMAGE_BACKEND", "KEYWORDS", "TIMEOUT",
}

// withArgs runs LoadFromFlags against a fresh flag set and viper instance
func withArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
	})

	os.Args = append([]string{"pdf-analyser"}, args...)
	resetFlags()
	return LoadFromFlags()
}

func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// clearEnv unsets every variable the loader reads; t.Setenv restores them
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		t.Setenv(EnvPrefix+"_"+name, "")
		os.Unsetenv(EnvPrefix + "_" + name)
	}
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := withArgs(t)
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, []string{"pdf"}, cfg.AllowedExtensions)
	assert.Equal(t, BackendAuto, cfg.TextBackend)
	assert.Equal(t, BackendAuto, cfg.ImageBackend)
	assert.Equal(t, DefaultAnalysisTimeout, cfg.AnalysisTimeout)
	assert.Empty(t, cfg.KeywordsFile)
	assert.True(t, filepath.IsAbs(cfg.BaseDirectory))
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tempDir := t.TempDir()
	keywords := filepath.Join(tempDir, "keywords.yaml")
	require.NoError(t, os.WriteFile(keywords, []byte("- invoice\n"), 0o644))

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "server mode with custom host and port",
			args: []string{"--mode=server", "--host=0.0.0.0", "--port=9090"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsServerMode())
				assert.Equal(t, "0.0.0.0:9090", cfg.Address())
			},
		},
		{
			name: "debug logging",
			args: []string{"--loglevel=debug"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsDebug())
			},
		},
		{
			name: "allowed extensions",
			args: []string{"--extensions=pdf,PDF,ai"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"pdf", "PDF", "ai"}, cfg.AllowedExtensions)
			},
		},
		{
			name: "backends and timeout",
			args: []string{"--text-backend=ledongthuc", "--image-backend=pdfcpu", "--timeout=5s"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendLedongthuc, cfg.TextBackend)
				assert.Equal(t, BackendPDFCPU, cfg.ImageBackend)
				assert.Equal(t, 5*time.Second, cfg.AnalysisTimeout)
			},
		},
		{
			name: "keywords file",
			args: []string{"--keywords=" + keywords},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, keywords, cfg.KeywordsFile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			cfg, err := withArgs(t, append(tt.args, "--dir="+tempDir)...)
			require.NoError(t, err)
			assert.Equal(t, tempDir, cfg.BaseDirectory)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()

	t.Setenv("PDF_ANALYSER_MODE", "server")
	t.Setenv("PDF_ANALYSER_HOST", "192.168.1.1")
	t.Setenv("PDF_ANALYSER_PORT", "3000")
	t.Setenv("PDF_ANALYSER_DIR", tempDir)
	t.Setenv("PDF_ANALYSER_LOGLEVEL", "warn")
	t.Setenv("PDF_ANALYSER_MAXFILESIZE", "200000000")
	t.Setenv("PDF_ANALYSER_EXTENSIONS", "pdf ai")
	t.Setenv("PDF_ANALYSER_IMAGE_BACKEND", "ledongthuc")
	t.Setenv("PDF_ANALYSER_TIMEOUT", "45s")

	cfg, err := withArgs(t)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "192.168.1.1", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, tempDir, cfg.BaseDirectory)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, int64(200000000), cfg.MaxFileSize)
	assert.Equal(t, []string{"pdf", "ai"}, cfg.AllowedExtensions)
	assert.Equal(t, BackendLedongthuc, cfg.ImageBackend)
	assert.Equal(t, 45*time.Second, cfg.AnalysisTimeout)
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	clearEnv(t)

	t.Setenv("PDF_ANALYSER_MODE", "server")
	t.Setenv("PDF_ANALYSER_HOST", "192.168.1.1")
	t.Setenv("PDF_ANALYSER_PORT", "3000")

	cfg, err := withArgs(t, "--mode=stdio", "--host=localhost", "--port=8888")
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8888, cfg.Port)
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mode", args: []string{"--mode=invalid"}, wantErr: "mode must be either 'stdio' or 'server'"},
		{name: "port", args: []string{"--mode=server", "--port=99999"}, wantErr: "port must be between 1 and 65535"},
		{name: "log level", args: []string{"--loglevel=trace"}, wantErr: "invalid log level"},
		{name: "text backend", args: []string{"--text-backend=pdfcpu"}, wantErr: "invalid text backend"},
		{name: "image backend", args: []string{"--image-backend=custom"}, wantErr: "invalid image backend"},
		{name: "dotted extension", args: []string{"--extensions=.pdf"}, wantErr: "without the leading dot"},
		{name: "timeout", args: []string{"--timeout=0s"}, wantErr: "analysis timeout must be positive"},
		{name: "keywords file", args: []string{"--keywords=" + filepath.Join(tempDir, "missing.yaml")}, wantErr: "cannot access keywords file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := withArgs(t, append(tt.args, "--dir="+tempDir)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	clearEnv(t)

	_, err := withArgs(t, "--version")
	assert.ErrorIs(t, err, ErrVersionRequested)
}
