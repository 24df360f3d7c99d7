package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTPConfig extends Config with HTTP-specific settings.
type HTTPConfig struct {
	Config

	// Addr is the address to listen on (e.g., ":8080" or "localhost:8080").
	Addr string

	// EndpointPath is the path for the MCP endpoint (default: "/mcp").
	EndpointPath string

	// EnableCORS enables CORS headers for browser-based clients.
	EnableCORS bool

	// AllowedOrigins restricts CORS origins. Empty allows every origin.
	AllowedOrigins []string
}

// RunHTTPServer serves the workbench over streamable HTTP until ctx is done.
func RunHTTPServer(ctx context.Context, cfg HTTPConfig) error {
	mcpServer, err := newServer(cfg.Config, loggingHooks())
	if err != nil {
		return err
	}

	handler, endpointPath := newHTTPHandler(mcpServer, cfg)
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("starting MCP HTTP server", "addr", cfg.Addr, "endpoint", endpointPath, "cors", cfg.EnableCORS)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

func newHTTPHandler(mcpServer *mcpserver.MCPServer, cfg HTTPConfig) (http.Handler, string) {
	endpointPath := cfg.EndpointPath
	if endpointPath == "" {
		endpointPath = "/mcp"
	}

	var handler http.Handler = mcpserver.NewStreamableHTTPServer(
		mcpServer,
		mcpserver.WithEndpointPath(endpointPath),
	)
	if cfg.EnableCORS {
		handler = corsMiddleware(cfg.AllowedOrigins)(handler)
	}

	mux := http.NewServeMux()
	mux.Handle(endpointPath, handler)
	return mux, endpointPath
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := len(allowedOrigins) == 0
			for _, o := range allowedOrigins {
				if o == origin || o == "*" {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Mcp-Session-Id")
				w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
