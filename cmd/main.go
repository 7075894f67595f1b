package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xenn00/pair-chat/config"
	"github.com/xenn00/pair-chat/internal/routers"
	room_service "github.com/xenn00/pair-chat/internal/use-case/room-case"
	"github.com/xenn00/pair-chat/internal/websocket"
	"github.com/xenn00/pair-chat/internal/worker"
	"github.com/xenn00/pair-chat/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize the application
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	state, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer state.Close()

	wsHub := websocket.NewHub()
	log.Info().Msg("Websocket hub initialized")

	wsHandler := websocket.NewWebSocketHandler(wsHub, websocket.HeaderAuth)
	wsHandler.MaxConnections = 10000
	log.Info().Msg("Websocket handler initialized")

	r := routers.NewRouter(state, wsHub, wsHandler)

	workerPool := worker.NewWorkerPool(state, config.Conf.WORKER.PoolSize, wsHub)
	go workerPool.Start(ctx)
	go workerPool.StartDLQWorker(ctx)

	sweeper := worker.NewSweeper(room_service.NewRoomService(state), config.Conf.ROOM.SweepInterval)
	go sweeper.Start(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// serve the application
	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")
	// gracefully shutdown the application
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
	wsHub.Close()
	workerPool.Wait()
}
