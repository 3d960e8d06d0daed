package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/config"
	"taskdesk.org/internal/httpapi"
	"taskdesk.org/internal/obs"
	"taskdesk.org/internal/store/pg"
	"taskdesk.org/internal/task"
)

var version = "0.1.0"

func main() {
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	codec, err := auth.NewCodec(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	// With a DSN, users and tasks live in Postgres. Without one the server
	// runs self-contained on in-memory stores seeded with demo accounts.
	var (
		db      *sql.DB
		users   auth.UserStore
		tasks   task.Service
		pgStore *pg.Store
	)
	if cfg.PGDSN != "" {
		pgStore, err = pg.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db = pgStore.DB()
		users = pgStore.Users()
		tasks = pgStore.Tasks()
	} else {
		mem := auth.NewInMemoryUserStore()
		if err := mem.Seed(auth.DemoUsers()); err != nil {
			log.Fatalf("seed demo users: %v", err)
		}
		users = mem
		tasks = task.NewInMemory()
		log.Printf("no %s set, using in-memory stores with demo accounts", config.EnvPGDSN)
	}

	api := httpapi.New(httpapi.Options{
		Codec:      codec,
		Validator:  auth.NewValidator(users),
		Tasks:      tasks,
		ReadyProbe: httpapi.ReadyProbe{DB: db},
		Version:    version,
		RateLimit:  httpapi.RateLimitConfig{Burst: 20, PerSecond: 10},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting taskdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}
