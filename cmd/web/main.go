package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/pucks/internal/config"
	"github.com/tomz197/pucks/internal/loop"
	"github.com/tomz197/pucks/internal/spectate"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.Load(".env"); err != nil {
		log.Fatal("failed to load .env", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	interval := config.GetEnvDuration("SPECTATE_INTERVAL", spectate.MinInterval)

	cfg, err := loop.MatchConfigFromEnv()
	if err != nil {
		log.Fatal("invalid match config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exhibition := loop.NewExhibition(cfg, log.WithPrefix("exhibition"))
	go func() {
		if err := exhibition.Run(ctx); err != nil {
			log.Error("exhibition stopped", "err", err)
			stop()
		}
	}()

	hub := spectate.NewHub(exhibition, spectate.Options{Interval: interval, Logger: log.WithPrefix("spectate")})
	go hub.Run(ctx)

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("/ws", hub)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("Starting web server", "addr", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "err", err)
	}
}
