package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cdeia/observaciones/config"
	"github.com/cdeia/observaciones/internal/clients/kafka_client"
	"github.com/cdeia/observaciones/internal/clients/kafka_client/consumers"
	"github.com/cdeia/observaciones/internal/logging"
	"github.com/cdeia/observaciones/internal/monitoring"
	"github.com/cdeia/observaciones/internal/observations"
)

func main() {
	config.LoadEnv(config.AppEnv())
	logging.InitLogger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := kafka_client.GetKafkaConfig()

	var producer *kafka_client.Producer
	for {
		p, err := kafka_client.NewProducer(cfg)
		if err == nil {
			producer = p
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	svc := observations.NewDefaultService(config.BaseURL, monitoring.DefaultProbeTimeout)
	if ok, msg := svc.ProbeHealth(ctx); !ok {
		slog.Warn("[Main] Scoring service is not healthy at startup", slog.String("message", msg))
	}

	consumer := consumers.NewObservationConsumer(svc, producer, cfg.ResultTopic)
	if err := kafka_client.StartConsumer(ctx, cfg, consumer.Start); err != nil {
		slog.Error("[Main] Consumer exited with error",
			slog.String("error", err.Error()))
		producer.Close()
		stop()
		os.Exit(1)
	}
}
