// cmd/mcp-server/main.go: MCP tool server for dcp
//
// Exposes the dcp computations as MCP tools for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server               # stdio transport
//	go run ./cmd/mcp-server -http :8080   # streamable HTTP
//
// HTTP endpoints:
//
//	POST /mcp   : MCP streamable transport
//	GET  /health: health check
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/njchilds90/dcp"
	"github.com/njchilds90/dcp/internal/config"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	httpAddr := flag.String("http", "", "Serve streamable HTTP on this address instead of stdio")
	configPath := flag.String("config", "", "JSON config file")
	flag.Parse()

	// stdout carries the stdio transport
	log.SetOutput(os.Stderr)

	file, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := file.Engine
	cfg.Logger = log.Default()
	engine, err := dcp.New(cfg)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	s := newServer(NewHandlers(engine, file.Law), Version)

	if *httpAddr == "" {
		if err := server.ServeStdio(s); err != nil {
			log.Fatal(err)
		}
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", recoverer(server.NewStreamableHTTPServer(s)))

	// GET /health: liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	log.Printf("dcp MCP server listening on %s", *httpAddr)
	log.Printf("  POST /mcp   : MCP streamable transport")
	log.Printf("  GET  /health: health check")

	srv := &http.Server{
		Addr:              *httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// spectrum sums can run for minutes
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// recoverer turns a panic in h into a 500 and logs the stack.
func recoverer(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in %s: %v\n%s", r.URL.Path, rec, string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		h.ServeHTTP(w, r)
	})
}
