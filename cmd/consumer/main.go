package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/config"
	"example.com/attendance/internal/feed"
	"example.com/attendance/internal/ingest"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Printf("no .env overlay: %v", err)
	}
	cfg := config.Load()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	clk := clock.System(loc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler()}
	go func() {
		log.Printf("attendance consumer metrics listening on %s", cfg.MetricsAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server error: %v", err)
		}
	}()

	store := ingest.NewStore()
	handler := ingest.NewStoreHandler(store, clk)
	var wg sync.WaitGroup

	for _, topic := range cfg.ConsumerTopics {
		readers, err := ingest.NewReplayReaders(ctx, cfg.KafkaBrokers, topic)
		if err != nil {
			log.Fatalf("open %s: %v", topic, err)
		}
		for _, reader := range readers {
			proc := ingest.NewProcessor(reader, handler)

			wg.Add(1)
			go func(tp string, r ingest.Reader) {
				defer wg.Done()
				defer r.Close()
				if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("consumer stopped with error (topic=%s): %v", tp, err)
				}
			}(topic, reader)
		}
	}

	aggregator := feed.NewAggregator(clk, feed.WithMaxItems(cfg.FeedMaxItems), feed.WithPageSize(cfg.FeedPageSize))
	reporter := ingest.NewReporter(store, clk, aggregator, cfg.BirthdayLookaheadDays, cfg.ReportInterval, nil)
	go reporter.Start(ctx)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	log.Println("attendance consumer shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics shutdown error: %v", err)
	}

	reporter.Wait()
	wg.Wait()
}
