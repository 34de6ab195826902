package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"intellicare/internal/db"
	httpserver "intellicare/internal/http"
	"intellicare/internal/llm"
	"intellicare/internal/logging"
	"intellicare/internal/session"
)

func main() {
	_ = gotenv.Load()
	log := logging.L()
	defer func() { _ = log.Sync() }()

	maxInput := envInt("MAX_INPUT_LENGTH", 4000)
	idleMinutes := envInt("SESSION_IDLE_MINUTES", 30)

	// the archive is optional: without DATABASE_URL the service runs
	// purely in memory
	var (
		repo     *db.Repository
		notifier *db.Notifier
	)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbConn, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := dbConn.PingContext(ctx); err != nil {
			cancel()
			log.Fatal("failed to ping database", zap.Error(err))
		}
		cancel()
		if err := db.Migrate(context.Background(), dbConn); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		repo = db.NewRepository(dbConn)

		channel := os.Getenv("POSTGRES_NOTIFY_CHANNEL")
		if channel == "" {
			channel = "assessments"
		}
		notifier = db.NewNotifier(dbConn, channel)
		log.Info("assessment archive enabled", zap.String("notify_channel", channel))
	} else {
		log.Info("DATABASE_URL not set, assessment archive disabled")
	}

	// uses env: OPENAI_API_KEY, OPENAI_MODEL_CHAT
	llmClient := llm.NewOpenAIClient()
	model := os.Getenv("OPENAI_MODEL_CHAT")
	if model == "" {
		model = "gpt-4o-mini"
	}

	sessions := session.NewManager(llmClient, time.Duration(idleMinutes)*time.Minute)
	defer sessions.Close()
	if maxTurns := envInt("MAX_TURNS", 0); maxTurns > 0 {
		sessions.MaxTurns = maxTurns
	}

	srv := httpserver.NewServer(sessions, repo, notifier, model, maxInput)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
