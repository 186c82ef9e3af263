package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notehub-server/internal/ai"
	"notehub-server/internal/broker"
	redisbroker "notehub-server/internal/broker/redis"
	"notehub-server/internal/config"
	"notehub-server/internal/handler"
	"notehub-server/internal/middleware"
	"notehub-server/internal/repository"
	"notehub-server/internal/service"
	"notehub-server/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Logging.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	client, err := kivik.New("couch", cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to connect to CouchDB: %v", err)
	}

	if err := repository.EnsureDatabase(ctx, client, cfg.Database.Name); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	noteRepo := repository.NewNoteRepository(client, cfg.Database.Name)

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.MaxMessageSize,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	go wsManager.Run(ctx)

	eventBroker, err := newBroker(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to start event broker: %v", err)
	}
	defer eventBroker.Close()

	if err := eventBroker.Subscribe(ctx, func(event *broker.Event) {
		wsManager.Deliver(event.UserIDs, event.Payload)
	}); err != nil {
		log.Fatalf("Failed to subscribe to events: %v", err)
	}

	var suggester service.Suggester
	if cfg.AI.APIKey != "" {
		suggester = ai.NewClient(cfg.AI.APIURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	} else {
		log.Printf("AI_API_KEY not set, suggestions are disabled")
	}

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo)
	notificationService := service.NewNotificationService(userRepo, eventBroker)
	noteService := service.NewNoteService(noteRepo, userRepo, suggester, notificationService)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	noteHandler := handler.NewNoteHandler(noteService)
	wsHandler := handler.NewWebSocketHandler(
		wsManager,
		cfg.JWT.Secret,
		cfg.WebSocket.ReadBufferSize,
		cfg.WebSocket.WriteBufferSize,
	)

	r := mux.NewRouter()

	r.Use(middleware.RecoverMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api").Subrouter()
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimitMiddleware(
			middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute),
			cfg.RateLimit.TrustProxy,
		))
	}

	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET", "OPTIONS")

	protected.HandleFunc("/notes", noteHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes", noteHandler.Create).Methods("POST", "OPTIONS")
	// Registered before /notes/{id} so "suggest" is not taken as an id.
	protected.HandleFunc("/notes/suggest", noteHandler.Suggest).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/notes/{id}/share", noteHandler.Share).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes/{id}/share", noteHandler.Unshare).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)
	r.HandleFunc("/health", healthHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting NoteHub server on %s (env: %s)", addr, cfg.Server.Env)
		log.Printf("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	stop()

	log.Println("Server stopped gracefully")
}

// newBroker fans notifications out through Redis when configured so that
// every instance reaches its own sockets; otherwise events stay in-process.
func newBroker(ctx context.Context, cfg config.RedisConfig) (broker.Broker, error) {
	if !cfg.Enabled() {
		return broker.NewLocalBroker(), nil
	}

	b, err := redisbroker.NewRedisBroker(ctx, cfg.Addr, cfg.Channel)
	if err != nil {
		return nil, err
	}
	log.Printf("Publishing notifications through Redis at %s", cfg.Addr)
	return b, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"notehub-server"}`))
}
