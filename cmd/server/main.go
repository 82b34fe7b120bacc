package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	liveroomroot "github.com/aura-social/liveroom"
	"github.com/aura-social/liveroom/internal/alert"
	"github.com/aura-social/liveroom/internal/config"
	"github.com/aura-social/liveroom/internal/handler"
	"github.com/aura-social/liveroom/internal/middleware"
	"github.com/aura-social/liveroom/internal/repository"
	"github.com/aura-social/liveroom/internal/room"
	"github.com/aura-social/liveroom/internal/service"
	"github.com/aura-social/liveroom/internal/stream"
	"github.com/aura-social/liveroom/internal/ws"
	"github.com/go-redis/redis/v8"
	"github.com/go-telegram/bot"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(liveroomroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Optional ops alert bot
	var alertBot *bot.Bot
	if cfg.AlertBotToken != "" {
		alertBot, err = bot.New(cfg.AlertBotToken)
		if err != nil {
			slog.Error("failed to create alert bot", "error", err)
			os.Exit(1)
		}
	}
	alerts := alert.New(alertBot, cfg)

	// Repositories
	roomRepo := repository.NewRoomRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	giftRepo := repository.NewGiftRepo(pool)
	messageRepo := repository.NewMessageRepo(pool)
	settingsRepo := repository.NewSettingsRepo(pool)

	// Change stream
	publisher := stream.NewPublisher(rdb)
	subscriber := stream.NewSubscriber(rdb)

	// Services
	rankService := service.NewRankService(rdb, giftRepo)
	roomService := service.NewRoomService(roomRepo, userRepo, publisher, alerts)
	giftService := service.NewGiftService(giftRepo, rankService, publisher, alerts)
	messageService := service.NewMessageService(messageRepo, userRepo, publisher)

	// Hub callbacks are bound after the sync manager exists.
	var syncMgr *service.SyncManager
	hub := ws.NewHub(
		func(roomID string) {
			if syncMgr != nil {
				syncMgr.RoomActive(roomID)
			}
		},
		func(roomID string) {
			if syncMgr != nil {
				syncMgr.RoomIdle(roomID)
			}
		},
	)
	go hub.Run()

	synchronizer := service.NewSynchronizer(roomRepo, subscriber, hub)
	syncMgr = service.NewSyncManager(ctx, synchronizer)

	comboService := service.NewComboService(config.ComboWindow, func(roomID, userID string, s room.ComboSession) {
		data, err := json.Marshal(map[string]any{
			"userId":   userID,
			"giftId":   s.GiftID,
			"hitCount": s.HitCount,
		})
		if err != nil {
			return
		}
		frame, err := json.Marshal(service.Envelope{Type: "combo_end", Data: data})
		if err != nil {
			return
		}
		hub.BroadcastToRoom(roomID, frame)
	})

	// Initialize handler
	h := handler.New(handler.Deps{
		Cfg:      cfg,
		Rooms:    roomService,
		Gifts:    giftService,
		Messages: messageService,
		Rank:     rankService,
		Combos:   comboService,
		Users:    userRepo,
		Catalog:  giftRepo,
		Skins:    settingsRepo,
		Hub:      hub,
	})

	// Routes
	mux := http.NewServeMux()
	authed := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.Auth(cfg.JWTSecret, fn)
	}

	mux.HandleFunc("POST /auth/token", h.Token)
	mux.HandleFunc("PUT /users", h.SyncUser)
	mux.HandleFunc("GET /users/me", authed(h.Me))

	mux.HandleFunc("POST /rooms", authed(h.CreateRoom))
	mux.HandleFunc("GET /rooms/{id}", authed(h.GetRoom))
	mux.HandleFunc("GET /rooms/{id}/seats", authed(h.Seats))
	mux.HandleFunc("POST /rooms/{id}/seats/{index}", authed(h.SeatClick))
	mux.HandleFunc("DELETE /rooms/{id}/seat", authed(h.LeaveSeat))
	mux.HandleFunc("POST /rooms/{id}/layout", authed(h.SetMicLayout))
	mux.HandleFunc("POST /rooms/{id}/tools", authed(h.DispatchTool))
	mux.HandleFunc("POST /rooms/{id}/profile-action", authed(h.ProfileAction))
	mux.HandleFunc("GET /rooms/{id}/rank", authed(h.Rank))
	mux.HandleFunc("GET /rooms/{id}/rank/me", authed(h.MyRank))
	mux.HandleFunc("GET /rooms/{id}/mic-skin", authed(h.MicSkin))
	mux.HandleFunc("GET /rooms/{id}/messages", authed(h.Messages))

	mux.HandleFunc("GET /gifts", authed(h.Gifts))
	mux.HandleFunc("POST /rooms/{id}/gifts", authed(h.SendGift))
	mux.HandleFunc("GET /rooms/{id}/gift-events", authed(h.GiftEvents))
	mux.HandleFunc("POST /rooms/{id}/lucky-bag", authed(h.SendLuckyBag))
	mux.HandleFunc("GET /rooms/{id}/combo", authed(h.Combo))

	mux.HandleFunc("GET /rooms/{id}/ws", authed(h.JoinRoom))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      middleware.Recover(middleware.Logging(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket routes manage their own deadlines
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
