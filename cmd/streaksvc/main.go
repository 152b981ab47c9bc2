package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"time"

	config "github.com/numrace/game-services/configs"
	"github.com/numrace/game-services/internal/gamesvc/db"
	"github.com/numrace/game-services/internal/gamesvc/service"
	"github.com/numrace/game-services/internal/gamesvc/store"
	nats "github.com/numrace/game-services/internal/nats"
	"github.com/numrace/game-services/internal/streaksvc"
	"github.com/numrace/game-services/internal/streaksvc/broker"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "streak"

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
	log.Printf("mongo connection established successfully")

	// pg connection
	dbpool, err := db.ConnectPostgres()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	userStore := store.NewUserStore(mongoDB)
	boardStore := store.NewLeaderboardStore(mongoDB)
	matchStore := store.NewMatchStore(dbpool)
	multiplayerService := service.NewMultiplayerService(matchStore, boardStore)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// consume match-completed events to keep the pair leaderboard fresh
	b := broker.NewBroker(n.Conn, multiplayerService, boardStore)
	sub, err := b.Subscribe("streak-workers")
	if err != nil {
		log.Errorf("Error: unable to subscribe to queue %v", err)
		os.Exit(0)
	}

	// daily solo-streak sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := streaksvc.NewChecker(userStore, boardStore)
	go checker.Run(ctx)

	// minimal health endpoint
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": SERVICE_NAME})
	})

	server := &http.Server{
		Addr:         ":" + os.Getenv("STREAK_SERVICE_PORT"),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

	sub.Unsubscribe()
	cancel()

	sctx, scancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer scancel()

	if err := server.Shutdown(sctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
