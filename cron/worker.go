package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"vendora/config"
	bookingRepo "vendora/database/repository/booking"
	"vendora/models"
	"vendora/services/notification"
	"vendora/utils"
)

// TypeCompletionSweep is the periodic task that finalizes elapsed bookings.
const TypeCompletionSweep = "booking:sweep_completed"

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// NewTaskClient returns the asynq client used to enqueue tasks.
func NewTaskClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// InitWorker runs the background worker: queued transactional emails and the
// completion sweep.
func InitWorker(mailer *notification.SMTPMailer, bookings bookingRepo.BookingRepository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeEmailSend, handleEmailTask(mailer))
	mux.HandleFunc(TypeCompletionSweep, handleSweepTask(bookings))

	go func() {
		log.Println("[Worker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// InitCompletionScheduler runs the sweep once eagerly, then registers it on a
// fixed schedule.
func InitCompletionScheduler(bookings bookingRepo.BookingRepository) {
	logger := utils.GetLogger()

	// Eager pass at process start so a restart never leaves elapsed bookings
	// waiting a full interval.
	runCompletionSweep(context.Background(), bookings)

	interval := config.AppConfig.SweepInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	scheduler := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every "+interval.String(), asynq.NewTask(TypeCompletionSweep, nil)); err != nil {
		logger.Error("failed to register completion sweep", zap.Error(err))
		return
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("completion scheduler stopped", zap.Error(err))
		}
	}()
}

func handleEmailTask(mailer *notification.SMTPMailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload models.EmailPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Printf("[EmailHandler] invalid payload: %v", err)
			return err
		}
		if err := mailer.Send(payload); err != nil {
			log.Printf("[EmailHandler] delivery failed for %s: %v", payload.To, err)
			return err
		}
		return nil
	}
}

func handleSweepTask(bookings bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		runCompletionSweep(ctx, bookings)
		return nil
	}
}

func runCompletionSweep(ctx context.Context, bookings bookingRepo.BookingRepository) {
	logger := utils.GetLogger()

	completed, err := bookings.CompleteElapsed(ctx, time.Now())
	if err != nil {
		logger.Error("completion sweep failed", zap.Error(err))
		return
	}
	if completed > 0 {
		logger.Info("completion sweep finalized bookings", zap.Int64("count", completed))
	}
}
