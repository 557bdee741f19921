package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	"tennisclub/internal/adapters/api"
	emailPkg "tennisclub/internal/adapters/email"
	web "tennisclub/internal/adapters/http"
	"tennisclub/internal/adapters/http/perf"
	"tennisclub/internal/adapters/storage"
	sessionStore "tennisclub/internal/adapters/storage/session"
	"tennisclub/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Session database with WAL mode and busy timeout
	dsn := cfg.SessionDBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open session database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("session database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize session database: %v", err)
	}
	log.Println("Session database initialized")

	sessions := sessionStore.NewSQLiteStore(storage.NewTimedDB(db))

	// Drop expired session rows on startup and then hourly
	if err := sessions.DeleteExpired(context.Background()); err != nil {
		log.Printf("WARNING: failed to purge expired sessions: %v", err)
	}
	go func() {
		for range time.Tick(time.Hour) {
			if err := sessions.DeleteExpired(context.Background()); err != nil {
				log.Printf("WARNING: failed to purge expired sessions: %v", err)
			}
		}
	}()

	// Performance instrumentation: page requests and backend calls share one collector
	collector := perf.NewCollector(perf.DefaultRingSize)

	client := api.NewClient(cfg.APIBaseURL)
	client.SetCollector(collector)

	stores := &web.Stores{
		API:      client,
		Sessions: sessions,
	}

	// Configure email sender
	if cfg.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom), cfg.EmailFrom, cfg.EmailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.EmailFrom, cfg.EmailReply)
		if cfg.IsProduction() {
			log.Println("WARNING: TENNISCLUB_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set TENNISCLUB_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(cfg, stores, collector)

	log.Printf("TennisClub %s starting on %s (env=%s, backend=%s)", version, cfg.Addr, cfg.Env, cfg.APIBaseURL)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
