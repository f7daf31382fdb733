package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseDirectory = t.TempDir()
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "pdf-analyser", cfg.ServerName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, []string{"pdf"}, cfg.AllowedExtensions)

	currentDir, _ := os.Getwd()
	assert.Equal(t, currentDir, cfg.BaseDirectory)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "valid stdio config", mutate: func(*Config) {}},
		{name: "valid server config", mutate: func(cfg *Config) { cfg.Mode = ModeServer }},
		{name: "invalid mode", mutate: func(cfg *Config) { cfg.Mode = "invalid" }, wantErr: true},
		{
			name:    "port too low in server mode",
			mutate:  func(cfg *Config) { cfg.Mode = ModeServer; cfg.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too high in server mode",
			mutate:  func(cfg *Config) { cfg.Mode = ModeServer; cfg.Port = 70000 },
			wantErr: true,
		},
		{name: "port ignored in stdio mode", mutate: func(cfg *Config) { cfg.Port = 0 }},
		{name: "empty base directory", mutate: func(cfg *Config) { cfg.BaseDirectory = "" }, wantErr: true},
		{
			name: "missing base directory",
			mutate: func(cfg *Config) {
				cfg.BaseDirectory = filepath.Join(cfg.BaseDirectory, "missing")
			},
			wantErr: true,
		},
		{name: "invalid log level", mutate: func(cfg *Config) { cfg.LogLevel = "DEBUG" }, wantErr: true},
		{name: "zero max file size", mutate: func(cfg *Config) { cfg.MaxFileSize = 0 }, wantErr: true},
		{name: "zero timeout", mutate: func(cfg *Config) { cfg.AnalysisTimeout = 0 }, wantErr: true},
		{name: "no extensions", mutate: func(cfg *Config) { cfg.AllowedExtensions = nil }, wantErr: true},
		{name: "empty extension", mutate: func(cfg *Config) { cfg.AllowedExtensions = []string{""} }, wantErr: true},
		{name: "upper case extension", mutate: func(cfg *Config) { cfg.AllowedExtensions = []string{"PDF"} }},
		{name: "pdfcpu cannot extract text", mutate: func(cfg *Config) { cfg.TextBackend = BackendPDFCPU }, wantErr: true},
		{name: "ledongthuc images", mutate: func(cfg *Config) { cfg.ImageBackend = BackendLedongthuc }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidate_BaseDirectoryIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(cfg.BaseDirectory, "doc.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o644))
	cfg.BaseDirectory = file

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestConfigModes(t *testing.T) {
	cfg := &Config{Mode: ModeServer, Host: "192.168.1.1", Port: 9090, LogLevel: "debug"}

	assert.True(t, cfg.IsServerMode())
	assert.False(t, cfg.IsStdioMode())
	assert.True(t, cfg.IsDebug())
	assert.Equal(t, "192.168.1.1:9090", cfg.Address())
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:              "server",
		Host:              "localhost",
		Port:              8080,
		BaseDirectory:     "/home/user/pdfs",
		LogLevel:          "debug",
		MaxFileSize:       1024,
		AllowedExtensions: []string{"pdf", "ai"},
		TextBackend:       BackendAuto,
		ImageBackend:      BackendPDFCPU,
	}

	result := cfg.String()
	for _, substr := range []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"BaseDirectory: /home/user/pdfs",
		"LogLevel: debug",
		"MaxFileSize: 1024",
		"AllowedExtensions: [pdf ai]",
		"ImageBackend: pdfcpu",
	} {
		assert.Contains(t, result, substr)
	}
}
