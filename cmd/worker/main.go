package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/causewaykb/causeway/internal/queue"
	"github.com/causewaykb/causeway/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/causewaykb/causeway/pkg/coverage"
	"github.com/causewaykb/causeway/pkg/logger"
	"github.com/causewaykb/causeway/pkg/logger/console"
	"github.com/causewaykb/causeway/pkg/store"
	fsstore "github.com/causewaykb/causeway/pkg/store/fs"
	pgstore "github.com/causewaykb/causeway/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	// Corpus backend. With a database the worker persists pages and
	// reports there; otherwise it maintains the on-disk index files.
	// When a database and a wiki directory are both configured, the
	// reindex job reads the markdown tree and writes the snapshot into
	// the database, so page rows are seeded from disk.
	var src store.DataSource
	var sink any
	var reports queue.ReportWriter

	if databaseURL := util.GetEnv("DATABASE_URL"); databaseURL != "" {
		pgConn, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Fatal("Unable to connect to database", "err", err)
		}
		defer pgConn.Close()
		pg := pgstore.NewSource(pgConn)
		src = pg
		sink = pg
		reports = pg

		if dir := util.GetEnv("WIKI_DIR"); dir != "" {
			fsSrc, err := fsstore.NewSource(fsstore.SourceParams{PagesDir: dir})
			if err != nil {
				logger.Fatal("Failed to open wiki directory", "err", err)
			}
			src = fsSrc
		}
	} else {
		fsSrc, err := fsstore.NewSource(fsstore.SourceParams{
			PagesDir: util.GetEnvString("WIKI_DIR", "./wiki"),
		})
		if err != nil {
			logger.Fatal("Failed to open wiki directory", "err", err)
		}
		src = fsSrc
		sink = fsSrc
	}

	thresholds := coverage.DefaultThresholds()
	thresholds.OrphanMaxIncoming = int(util.GetEnvNumeric("COVERAGE_ORPHAN_MAX_INCOMING", thresholds.OrphanMaxIncoming))
	thresholds.MinImportance = int(util.GetEnvNumeric("COVERAGE_MIN_IMPORTANCE", thresholds.MinImportance))
	thresholds.UnderlinkedMaxOutgoing = int(util.GetEnvNumeric("COVERAGE_UNDERLINKED_MAX_OUTGOING", thresholds.UnderlinkedMaxOutgoing))
	thresholds.UnderlinkedMinWords = int(util.GetEnvNumeric("COVERAGE_UNDERLINKED_MIN_WORDS", thresholds.UnderlinkedMinWords))
	thresholds.LowDensityCutoff = util.GetEnvNumeric("COVERAGE_LOW_DENSITY_CUTOFF", int(thresholds.LowDensityCutoff))
	thresholds.RankSize = int(util.GetEnvNumeric("COVERAGE_RANK_SIZE", thresholds.RankSize))

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	logger.Info("Listening for messages")

	// Create a single consumer channel with prefetch=1
	// This ensures only ONE message is delivered at a time across all queues
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queue.Queues {
		go func(qName string) {
			consumerTag := fmt.Sprintf("%s_consumer", qName)
			msgs, err := consumerCh.Consume(
				qName,
				consumerTag,
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				logger.Info("Received message", "queue", qm.queueName)

				var processingErr error
				switch qm.queueName {
				case "reindex_queue":
					processingErr = queue.ProcessReindexMessage(ctx, src, sink, string(qm.msg.Body))
				case "coverage_queue":
					processingErr = queue.ProcessCoverageMessage(ctx, src, reports, thresholds, string(qm.msg.Body))
				}

				// If there was an error send to retry or dead-letter, otherwise ack the message
				if processingErr != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", processingErr)
					queue.HandleProcessingError(consumerCh, qm.msg, qm.queueName, 10)
				} else {
					err = qm.msg.Ack(false)
					if err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				processingDuration := time.Since(startTime)
				logger.Info(
					"Processing time",
					"duration", processingDuration.Round(time.Millisecond).String(),
				)
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}
