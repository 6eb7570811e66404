package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Panz66/febw/internal/config"
	"github.com/Panz66/febw/internal/export"
	"github.com/Panz66/febw/internal/live"
	"github.com/Panz66/febw/internal/notify"
	"github.com/Panz66/febw/internal/store"
	"github.com/Panz66/febw/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

//go:embed templates/* templates/partials/* static/* static/css/* static/img/* static/js/*
var content embed.FS

func main() {
	inLambda := os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
	if !inLambda {
		_ = godotenv.Load(".env", ".env.local")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := config.NewLogger(cfg)

	templates, err := web.NewTemplates(content)
	if err != nil {
		log.WithError(err).Fatal("templates")
	}

	var appStore store.Store
	if cfg.APIBaseURL != "" {
		appStore = store.NewAPIStore(cfg.APIBaseURL, cfg.APITimeout, log)
		log.WithField("api", cfg.APIBaseURL).Info("using backend API")
	} else {
		appStore = store.NewMemoryStore()
		log.Warn("API_BASE_URL is empty, using in-memory demo data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// API Gateway keeps no open connections, so live refresh is local only.
	var hub *live.Hub
	if !inLambda {
		hub = live.NewHub()
		go hub.Run(ctx)
	}

	var announcer notify.Announcer = notify.LogAnnouncer{Log: log}
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegramAnnouncer(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.WithError(err).Warn("telegram disabled")
		} else {
			announcer = tg
		}
	}

	var publisher export.Publisher
	if cfg.SheetsEnabled() {
		sheets, err := export.NewSheetsPublisher(ctx, cfg.GoogleServiceAccountJSON, cfg.SpreadsheetID)
		if err != nil {
			log.WithError(err).Warn("google sheets disabled")
		} else {
			publisher = sheets
		}
	}

	server := web.NewServer(appStore, templates, web.Options{
		Config:    cfg,
		Logger:    log,
		Hub:       hub,
		Announcer: announcer,
		Publisher: publisher,
	})
	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		log.WithError(err).Fatal("static fs")
	}
	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Mount("/", server.Routes())

	if inLambda {
		log.Info("starting in Lambda mode")
		adapter := httpadapter.New(r)
		lambda.StartWithOptions(adapter.ProxyWithContext, lambda.WithContext(ctx))
		return
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.WithField("addr", cfg.HTTPAddr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server")
	}
}
