package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/numrace/game-services/configs"
	"github.com/numrace/game-services/internal/gamesvc/broker"
	"github.com/numrace/game-services/internal/gamesvc/db"
	"github.com/numrace/game-services/internal/gamesvc/game"
	handlers "github.com/numrace/game-services/internal/gamesvc/handlers"
	"github.com/numrace/game-services/internal/gamesvc/service"
	"github.com/numrace/game-services/internal/gamesvc/store"
	"github.com/numrace/game-services/internal/gamesvc/ws"
	nats "github.com/numrace/game-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// mongo connection
	mongoDB, cancelMongo, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancelMongo()
	db.EnsureIndexes(mongoDB)
	log.Printf("mongo connection established successfully")

	// pg connection
	dbpool, err := db.ConnectPostgres()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	userStore := store.NewUserStore(mongoDB)
	userService := service.NewUserService(userStore)

	boardStore := store.NewLeaderboardStore(mongoDB)
	soloService := service.NewSoloService(userStore, boardStore)

	matchStore := store.NewMatchStore(dbpool)
	multiplayerService := service.NewMultiplayerService(matchStore, boardStore)

	savedGameStore := store.NewSavedGameStore(mongoDB)
	savedGameService := service.NewSavedGameService(savedGameStore)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// init match event broker
	b := broker.NewBroker(n.Conn)

	// game coordination
	socket := ws.NewWs()
	registry := game.NewRegistry()
	ledger := game.NewLedger(userStore)
	recorder := game.NewRecorder(matchStore, userStore, b)
	coordinator := game.NewCoordinator(registry, ledger, recorder, socket)
	wsHandler := ws.NewHandler(socket, coordinator)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	//r.Use(middleware.Timeout(60 * time.Second)) // would cut long-lived ws connections
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(userService, soloService, multiplayerService, savedGameService, wsHandler)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("GAME_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
