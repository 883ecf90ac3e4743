// cmd/workflow-runner/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"moderation-workers/internal/common/aws"
	"moderation-workers/internal/common/config"
	"moderation-workers/internal/common/database"
	"moderation-workers/internal/common/logger"
	"moderation-workers/internal/common/observability"
	"moderation-workers/internal/common/secrets"
	"moderation-workers/internal/providers/appealtoken"
	"moderation-workers/internal/providers/email"
	"moderation-workers/internal/providers/payment"
	"moderation-workers/internal/providers/webhook"
	"moderation-workers/internal/store"
	"moderation-workers/internal/workflow"

	ar "moderation-workers/internal/workers/user-action/appeal-resolve"
	pg "moderation-workers/internal/workers/user-action/payment-gate"
	se "moderation-workers/internal/workers/user-action/status-email"
	sw "moderation-workers/internal/workers/user-action/status-webhook"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting workflow runner...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry ---
	var pgClient *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pgClient, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pgClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pgClient.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Secrets & External Service Clients ---
	codec, err := secrets.NewCodec(cfg.Secrets.EncryptionKey)
	if err != nil {
		zapLog.Fatal("secret codec init failed", zap.Error(err))
	}

	db := pgClient.GetDB()
	users := store.NewUserStore(db)
	settings := store.NewOrganizationSettingsStore(db)
	endpoints := store.NewWebhookEndpointStore(db)
	messages := store.NewMessageStore(db)
	appeals := store.NewAppealStore(db)

	paymentClient := payment.NewClient(cfg.Integrations.PaymentGateway.BaseURL, cfg.Integrations.PaymentGateway.Timeout)
	webhookSender := webhook.NewSender(cfg.Integrations.Webhook.Timeout)
	appealLinks := appealtoken.NewGenerator(cfg.Appeals.TokenSecret, cfg.Appeals.BaseURL, cfg.Appeals.TokenTTL)

	var emailService *email.Service
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		emailService = email.NewService(users, email.NewSender(sesClient, cfg.Integrations.AWS.SES.FromEmail))
	}

	var alerter workflow.Alerter
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		alerter = workflow.NewSNSAlerter(snsClient, cfg.Integrations.AWS.SNS.AlertTopicARN, log)
	}

	zapLog.Info("All external service clients initialized")

	// --- Register Handlers ---
	var handlers []workflow.Handler

	if hc := cfg.Handler(pg.TaskType); hc.Enabled {
		handlers = append(handlers, pg.NewHandler(
			pg.Dependencies{
				Users:    users,
				Settings: settings,
				Gateway:  paymentClient,
				Secrets:  codec,
				Logger:   log,
			},
			&pg.Config{Enabled: true, Timeout: hc.Timeout},
		))
	}

	if hc := cfg.Handler(sw.TaskType); hc.Enabled {
		handlers = append(handlers, sw.NewHandler(
			sw.Dependencies{
				Users:     users,
				Endpoints: endpoints,
				Sender:    webhookSender,
				Logger:    log,
			},
			&sw.Config{Enabled: true, Timeout: hc.Timeout},
		))
	}

	if hc := cfg.Handler(se.TaskType); hc.Enabled {
		if emailService == nil {
			zapLog.Fatal("status-email handler enabled but SES is not configured")
		}
		handlers = append(handlers, se.NewHandler(
			se.Dependencies{
				Settings: settings,
				Messages: messages,
				Renderer: email.NewRenderer(),
				Sender:   emailService,
				Appeals:  appealLinks,
				Logger:   log,
			},
			&se.Config{Enabled: true, Timeout: hc.Timeout},
		))
	}

	if hc := cfg.Handler(ar.TaskType); hc.Enabled {
		handlers = append(handlers, ar.NewHandler(
			ar.Dependencies{
				Appeals: appeals,
				Logger:  log,
			},
			&ar.Config{Enabled: true, Timeout: hc.Timeout},
		))
	}

	zapLog.Info("Handlers registered", zap.Int("count", len(handlers)))

	stepLog := workflow.NewRedisStepLog(redisClient.Client, cfg.Workflow.StepLogTTL)
	dispatcher := workflow.NewDispatcher(handlers, stepLog, log, alerter, cfg.Workflow.InitialBackoff)

	consumer := workflow.NewConsumer(redisClient.Client, dispatcher, workflow.ConsumerConfig{
		Stream:        cfg.Workflow.Stream,
		ConsumerGroup: cfg.Workflow.ConsumerGroup,
		ConsumerName:  cfg.Workflow.ConsumerName,
	}, log)

	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- consumer.Run(ctx)
	}()

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := pgClient.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := http.ListenAndServe(cfg.App.MetricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping consumer...")
		cancel()
		select {
		case <-consumerDone:
		case <-time.After(30 * time.Second):
			zapLog.Warn("Consumer did not stop within the shutdown window")
		}
	case err := <-consumerDone:
		if err != nil && ctx.Err() == nil {
			zapLog.Fatal("consumer failed", zap.Error(err))
		}
	}

	zapLog.Info("Workflow runner stopped gracefully")
}
