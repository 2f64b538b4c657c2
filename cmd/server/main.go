package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/valeevte/FlatWatch/internal/database"
	"github.com/valeevte/FlatWatch/internal/monitor"
	"github.com/valeevte/FlatWatch/internal/notify"
	"github.com/valeevte/FlatWatch/internal/prinzip"
	"github.com/valeevte/FlatWatch/internal/stats"
	"github.com/valeevte/FlatWatch/internal/subscriptions"

	"github.com/gin-gonic/gin"
)

func main() {
	_ = godotenv.Load() // load .env if present; not fatal if missing

	// connect to DB
	database.Connect()

	// graceful shutdown coordination
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, database.DB); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := subscriptions.NewRepository(database.DB)
	provider := prinzip.NewClient(os.Getenv("PRINZIP_BASE_URL"))

	sweeps := stats.NewCounter()
	checks := stats.NewCounter()

	mon := monitor.New(
		monitor.LoadConfig(),
		func() monitor.Store { return repo },
		provider,
		notify.LogNotifier{},
		sweeps, checks,
	)

	// start monitor
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		// monitor runs until ctx is cancelled
		mon.Run(ctx)
	}()

	// build router and handlers
	h := subscriptions.NewHandler(repo, provider)
	sh := stats.NewHandler(sweeps, checks)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(os.Getenv("GIN_MODE"))
	}
	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/subscriptions/subscribe", h.Subscribe)
		api.GET("/subscriptions/prices", h.ListPrices)
		api.DELETE("/subscriptions/:id", h.Delete)
		api.GET("/stats", sh.GetStats)
		api.POST("/stats/checks/add", sh.AddChecks)
		api.POST("/stats/stress", sh.StressTest)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// start server
	go func() {
		log.Printf("Server started on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server ListenAndServe: %v", err)
		}
	}()

	// wait for interrupt
	<-ctx.Done()
	log.Println("shutdown signal received")

	// stop accepting new requests, allow 15s to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server Shutdown: %v", err)
	}

	// wait monitor to finish (it reacts to ctx)
	wg.Wait()

	// close DB pool (blocks until connections returned)
	database.DB.Close()

	log.Println("graceful shutdown complete")
}
