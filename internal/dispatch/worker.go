package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_response_system/internal/config"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

// LogWorker drains the dispatch queue into an append-only log file, one
// JSON record per line. The log is an audit trail: records are appended in
// queue order and never rewritten.
type LogWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
}

// NewLogWorker creates a new LogWorker
func NewLogWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *LogWorker {
	return &LogWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
	}
}

// Start launches the goroutine that processes the dispatch queue
func (w *LogWorker) Start(ctx context.Context) {
	w.logger.Info("Starting dispatch log worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping dispatch log worker.")
				return
			default:
				// BRPOP blocks until an event arrives; 0 means wait forever
				result, err := w.redisClient.BRPop(ctx, 0, dispatchQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue // context cancelled, not a Redis failure
					}
					w.logger.WithError(err).Error("Failed to pop dispatch event from Redis")
					time.Sleep(w.cfg.DispatchQueueWait) // wait before retrying
					continue
				}

				// result[0] is the key, result[1] the payload
				payload := result[1]
				var event models.DispatchEvent
				if err := json.Unmarshal([]byte(payload), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal dispatch event from Redis")
					continue
				}

				if err := w.appendEvent(payload); err != nil {
					// Best-effort audit: the event is dropped, the failure is only logged
					w.logger.WithError(err).WithField("report_id", event.ReportID).
						Error("Failed to append dispatch event to log")
					continue
				}

				w.logger.WithFields(logrus.Fields{
					"report_id": event.ReportID,
					"responder": event.ResponderName,
				}).Info("Dispatch event written to log")
			}
		}
	}()
}

// appendEvent writes one raw JSON payload as a line at the end of the
// dispatch log file, creating the file on first use.
func (w *LogWorker) appendEvent(payload string) error {
	f, err := os.OpenFile(w.cfg.DispatchLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(payload + "\n"); err != nil {
		return err
	}
	return nil
}
