package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/cangvel/pdf-analyser/internal/config"
	"github.com/cangvel/pdf-analyser/internal/descriptions"
	"github.com/cangvel/pdf-analyser/internal/pdf"
)

// ErrFileTooLarge is returned for files above the configured maximum size
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ErrAnalysisTimeout is returned when an analysis outlives the configured timeout
var ErrAnalysisTimeout = errors.New("analysis timed out")

// toolHandler is a tool implementation that receives a request scoped logger
type toolHandler func(ctx context.Context, log *zap.Logger, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Server represents the MCP server instance
type Server struct {
	config          *config.Config
	analyser        pdf.ContentAnalyser
	mcpServer       *server.MCPServer
	logger          *zap.Logger
	defaultKeywords []string
	tools           []mcp.Tool
}

// NewServer creates a new MCP server instance. When the configuration names
// a keywords file it is loaded here and used by pdf_match_keywords calls that
// pass no keywords.
func NewServer(cfg *config.Config, analyser pdf.ContentAnalyser, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if analyser == nil {
		return nil, errors.New("analyser cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:   cfg,
		analyser: analyser,
		logger:   logger.Named("mcp"),
		mcpServer: server.NewMCPServer(
			cfg.ServerName,
			cfg.Version,
			server.WithToolCapabilities(false),
		),
	}

	if cfg.KeywordsFile != "" {
		keywords, err := config.LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		s.defaultKeywords = keywords
		s.logger.Info("loaded default keywords",
			zap.String("file", cfg.KeywordsFile), zap.Int("count", len(keywords)))
	}

	s.registerTools()

	return s, nil
}

// MCPServer exposes the underlying protocol server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.addTool(mcp.NewTool(
		"pdf_check_extension",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_check_extension")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File name or path to check"),
		),
	), s.handleCheckExtension)

	s.addTool(mcp.NewTool(
		"pdf_read_text",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_read_text")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the base directory"),
		),
	), s.handleReadText)

	s.addTool(mcp.NewTool(
		"pdf_words",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_words")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the base directory"),
		),
	), s.handleWords)

	s.addTool(mcp.NewTool(
		"pdf_match_keywords",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_match_keywords")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the base directory"),
		),
		mcp.WithArray("keywords",
			mcp.Description("Lowercase keywords to look for; the server's default keywords are used when omitted"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleMatchKeywords)

	s.addTool(mcp.NewTool(
		"pdf_document_summary",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_document_summary")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the base directory"),
		),
	), s.handleDocumentSummary)

	s.addTool(mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
	), s.handleServerInfo)
}

// addTool registers a tool and wraps its handler with a request id and timing log
func (s *Server) addTool(tool mcp.Tool, handler toolHandler) {
	s.tools = append(s.tools, tool)
	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := s.logger.With(
			zap.String("tool", tool.Name),
			zap.String("request_id", uuid.NewString()),
		)
		start := time.Now()

		result, err := handler(ctx, log, request)

		log.Debug("tool call finished",
			zap.Duration("elapsed", time.Since(start)),
			zap.Bool("tool_error", result != nil && result.IsError),
		)
		return result, err
	})
}

// Handler functions
func (s *Server) handleCheckExtension(_ context.Context, _ *zap.Logger, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.analyser.ValidateFile(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Extension %q is allowed for %s", pdf.Extension(path), path)), nil
}

func (s *Server) handleReadText(ctx context.Context, log *zap.Logger, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := runWithTimeout(ctx, s.config.AnalysisTimeout, func() (string, error) {
		return s.analyser.ReadTextContent(path)
	})
	if err != nil {
		log.Warn("read text failed", zap.String("path", path), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Successfully read PDF: %s\n", path)
	responseText += fmt.Sprintf("Characters: %d\n", len([]rune(text)))
	responseText += "\nContent:\n"
	responseText += text

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleWords(ctx context.Context, log *zap.Logger, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	words, err := runWithTimeout(ctx, s.config.AnalysisTimeout, func() (pdf.StringSet, error) {
		text, err := s.analyser.ReadTextContent(path)
		if err != nil {
			return nil, err
		}
		return s.analyser.NormalizeToWords(text), nil
	})
	if err != nil {
		log.Warn("word extraction failed", zap.String("path", path), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Distinct words in %s: %d\n", path, words.Len())
	if words.Len() > 0 {
		responseText += "\n" + strings.Join(words.Sorted(), " ")
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleMatchKeywords(ctx context.Context, log *zap.Logger, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	keywords, err := keywordsArgument(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if keywords == nil {
		if s.defaultKeywords == nil {
			return mcp.NewToolResultError("no keywords given and no default keywords configured"), nil
		}
		keywords = s.defaultKeywords
	}

	result, err := runWithTimeout(ctx, s.config.AnalysisTimeout, func() (*pdf.KeywordMatchResult, error) {
		return s.analyser.MatchKeywords(path, pdf.NewStringSet(keywords...))
	})
	if err != nil {
		log.Warn("keyword match failed", zap.String("path", path), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatKeywordMatchResult(result)), nil
}

func (s *Server) handleDocumentSummary(ctx context.Context, log *zap.Logger, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := runWithTimeout(ctx, s.config.AnalysisTimeout, func() (*pdf.DocumentSummary, error) {
		return s.analyser.GetDocumentSummary(path)
	})
	if err != nil {
		log.Warn("document summary failed", zap.String("path", path), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	if summary.Degraded {
		log.Info("document summary is degraded", zap.String("path", path), zap.String("reason", summary.DegradedReason))
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ *zap.Logger, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// requirePath reads the path argument, resolves it against the base
// directory, checks its extension and enforces the maximum file size. The
// extension is checked before the file is touched.
func (s *Server) requirePath(request mcp.CallToolRequest) (string, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return "", err
	}

	path = s.resolvePath(path)
	if err := s.analyser.ValidateFile(path); err != nil {
		return "", err
	}

	// missing files are left to the analyser
	if info, err := os.Stat(path); err == nil && info.Size() > s.config.MaxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d bytes",
			ErrFileTooLarge, path, info.Size(), s.config.MaxFileSize)
	}

	return path, nil
}

// resolvePath joins relative paths onto the base directory
func (s *Server) resolvePath(path string) string {
	if filepath.IsAbs(path) || s.config.BaseDirectory == "" {
		return path
	}
	return filepath.Join(s.config.BaseDirectory, path)
}

// keywordsArgument extracts the optional keywords array. A nil slice means
// the argument was absent.
func keywordsArgument(args map[string]any) ([]string, error) {
	raw, ok := args["keywords"]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		keywords := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("keywords[%d] must be a string, got %T", i, item)
			}
			keywords = append(keywords, str)
		}
		return keywords, nil
	default:
		return nil, fmt.Errorf("keywords must be an array of strings, got %T", raw)
	}
}

// runWithTimeout runs fn in its own goroutine and gives up waiting after
// timeout or when ctx is done. The PDF libraries cannot be interrupted, so an
// abandoned fn keeps running until it returns on its own.
func runWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := fn()
		done <- outcome{value: value, err: err}
	}()

	var zero T
	if timeout <= 0 {
		timeout = config.DefaultAnalysisTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.value, out.err
	case <-timer.C:
		return zero, fmt.Errorf("%w after %s", ErrAnalysisTimeout, timeout)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Formatting methods
func (s *Server) formatKeywordMatchResult(result *pdf.KeywordMatchResult) string {
	text := fmt.Sprintf("Keyword matches for: %s\n", result.Path)
	text += fmt.Sprintf("Distinct words: %d\n", result.WordCount)
	text += fmt.Sprintf("Keywords: %d\n", result.Keywords.Len())
	text += fmt.Sprintf("Matched: %d\n", result.Matches.Len())

	if result.Matches.Len() > 0 {
		text += "\nMatches:\n"
		for _, word := range result.Matches.Sorted() {
			text += fmt.Sprintf("  • %s\n", word)
		}
	}

	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Base Directory: %s\n", s.config.BaseDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("⏱️  Analysis Timeout: %s\n", s.config.AnalysisTimeout)
	text += fmt.Sprintf("📄 Allowed Extensions: %s\n", strings.Join(s.analyser.AllowedExtensions(), ", "))
	text += fmt.Sprintf("🔧 Backends: text=%s, images=%s\n", s.config.TextBackend, s.config.ImageBackend)
	text += fmt.Sprintf("🔑 Default Keywords: %d\n", len(s.defaultKeywords))

	text += "\n🛠️  Available Tools:\n"
	for _, tool := range s.tools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", descriptions.GetToolSummary(tool.Name))
		if len(tool.InputSchema.Properties) > 0 {
			params := make([]string, 0, len(tool.InputSchema.Properties))
			for name := range tool.InputSchema.Properties {
				params = append(params, name)
			}
			sort.Strings(params)
			text += fmt.Sprintf("  Parameters: %s\n", strings.Join(params, ", "))
		}
	}

	text += "\nWords are lowercase ASCII runs; keywords must be given in the same form to match.\n"

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("starting PDF analyser in stdio mode", zap.String("base_dir", s.config.BaseDirectory))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
