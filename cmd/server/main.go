package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"podium/internal/api"
	"podium/internal/app/service"
	"podium/internal/app/worker"
	"podium/internal/common/security"
	"podium/internal/domain/repository"
	"podium/internal/platform/config"
	"podium/internal/platform/database"
	"podium/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	log.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()

	// 5. Initialize Repositories
	contestRepo := repository.NewPgContestRepository(database.DB)
	partRepo := repository.NewPgParticipationRepository(database.DB)
	subRepo := repository.NewPgSubmissionRepository(database.DB)

	// 6. Initialize Services
	rescoreService := service.NewRescoreService(contestRepo, partRepo, subRepo, queue.RDB, database.DB)
	contestService := service.NewContestService(contestRepo, partRepo, subRepo, rescoreService, database.DB)
	scoreboardService := service.NewScoreboardService(contestRepo, partRepo, subRepo)
	judgeResultService := service.NewJudgeResultService(contestRepo, partRepo, subRepo, rescoreService, database.DB)

	// 7. Initialize Rescore Worker (as a goroutine)
	rescoreWorker := worker.NewRescoreWorker(queue.RDB, rescoreService)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go rescoreWorker.Start(workerCtx)
	log.Println("Rescore worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(contestService, scoreboardService, rescoreService, judgeResultService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
