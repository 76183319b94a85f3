package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nanomatch/infra/ingress"
	"nanomatch/infra/journal"
	"nanomatch/infra/kafka"
	"nanomatch/jobs/broadcaster"
	"nanomatch/service"
)

const (
	listenAddr = ":9001"
	outboxDir  = "./outbox"
	topic      = "execution-reports"
)

var brokerList = []string{"localhost:9092"}

func main() {
	// ---------------- Egress outbox ----------------

	outbox, err := journal.Open(outboxDir)
	if err != nil {
		log.Fatalf("outbox init failed: %v", err)
	}
	defer outbox.Close()

	// ---------------- Live producer ----------------

	producer := kafka.NewProducer(brokerList, topic)
	defer producer.Close()

	// ---------------- Exchange ----------------

	exchange := service.New(service.DefaultConfig(), outbox, producer, nil)

	// ---------------- Rebroadcaster ----------------

	bc, err := broadcaster.New(outbox, brokerList, topic)
	if err != nil {
		log.Fatalf("broadcaster init failed: %v", err)
	}
	defer bc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bc.Run(ctx)

	// ---------------- Ingress ----------------

	listener, err := ingress.Listen(listenAddr, exchange.Ingest)
	if err != nil {
		log.Fatalf("ingress init failed: %v", err)
	}

	log.Println("[server] up")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("[server] shutting down")

	// Stop intake first, then let the pipeline drain front to back.
	if err := listener.Close(); err != nil {
		log.Printf("[server] ingress close: %v", err)
	}
	cancel()
	exchange.Close()

	log.Println("[server] done")
}
