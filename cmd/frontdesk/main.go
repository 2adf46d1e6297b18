package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/handlers/bookingops"
	"frontdesk/internal/app/handlers/roomops"
	"frontdesk/internal/app/middleware"
	appoutbox "frontdesk/internal/app/outbox"
	"frontdesk/internal/app/queries"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/money"
	"frontdesk/internal/infra/broker/kafka"
	"frontdesk/internal/infra/config"
	"frontdesk/internal/infra/db/mongo"
	ginserver "frontdesk/internal/infra/http/gin"
	"frontdesk/internal/infra/obs"
	infraoutbox "frontdesk/internal/infra/outbox"
	"frontdesk/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application build failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready:   app.ready,
		Storage: cfg.StorageMode,
	}, app.handlers)

	fixturesDir := getenv("FIXTURES_DIR", "data")
	if err := app.loadFixtures(ctx, fixturesDir, logger); err != nil {
		logger.Warn("fixtures load failed", "error", err, "dir", fixturesDir)
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	factory  uow.UoWFactory
	worker   *infraoutbox.Worker
	mongo    *mongo.Client
	producer *kafka.Producer
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	app := application{}

	var (
		factory  uow.UoWFactory
		box      appoutbox.Outbox
		idStore  middleware.IdempotencyStore
		txnMware middleware.CommandMiddleware
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		app.mongo = client
		mongoFactory := mongo.NewFactory(client.DB)
		store := infraoutbox.NewStore(client.DB)
		factory = mongoFactory
		box = store
		idStore = mongo.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		txnMware = middleware.Transaction(mongoFactory, nil)

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka producer: %w", err)
			}
			app.producer = producer
			app.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
		}
	default:
		memFactory := memory.NewFactory()
		factory = memFactory
		box = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		txnMware = middleware.Transaction(memFactory, nil)
	}

	app.factory = factory
	encoder := appoutbox.JSONEventEncoder{}
	deps := bookingops.Deps{Factory: factory, Outbox: box, Encoder: encoder}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingops.CreateBookingKey, bookingops.CreateBookingHandler{Deps: deps})
	commands.RegisterHandler(commandBus, bookingops.UpdateBookingKey, bookingops.UpdateBookingHandler{Deps: deps})
	commands.RegisterHandler(commandBus, bookingops.CancelBookingKey, bookingops.CancelBookingHandler{Deps: deps})
	commands.RegisterHandler(commandBus, bookingops.MarkComplimentaryKey, bookingops.MarkComplimentaryHandler{Deps: deps})
	commands.RegisterHandler(commandBus, bookingops.CheckInKey, bookingops.CheckInHandler{Deps: deps})
	commands.RegisterHandler(commandBus, bookingops.CheckOutKey, bookingops.CheckOutHandler{Deps: deps})
	commands.RegisterHandler(commandBus, bookingops.UpdatePaymentKey, bookingops.UpdatePaymentHandler{Deps: deps, Settings: cfg.PaymentSettings()})
	commands.RegisterHandler(commandBus, bookingops.PostNightAuditKey, bookingops.PostNightAuditHandler{Deps: deps})
	commands.RegisterHandler(commandBus, bookingops.UnpostBookingKey, bookingops.UnpostBookingHandler{Deps: deps})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingops.ListBookingsKey, bookingops.ListBookingsHandler{Deps: deps})
	queries.RegisterHandler(queryBus, roomops.AvailableRoomsKey, roomops.AvailableRoomsHandler{Factory: factory})
	queries.RegisterHandler(queryBus, roomops.ListRoomsKey, roomops.ListRoomsHandler{Factory: factory})

	validator := middleware.NewStructValidator()
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(validator),
		middleware.Idempotency(idStore, nil),
		middleware.OutboxFlush(box, logger),
		txnMware,
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryValidation(validator),
	)

	app.handlers = ginserver.Handlers{
		Booking: ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Room:    ginserver.RoomHandler{Queries: queryBusWithMiddleware},
		Audit:   ginserver.AuditHandler{Commands: commandBusWithMiddleware},
	}
	return app, nil
}

func (a application) ready() error {
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return a.mongo.Ping(ctx)
	}
	return nil
}

func (a application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.mongo.Close(ctx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}

// loadFixtures seeds rooms and guests from JSON files so the standalone
// mode starts with a usable inventory.
func (a application) loadFixtures(ctx context.Context, dir string, logger *slog.Logger) error {
	unit, err := a.factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = unit.Commit(ctx)
	}()

	if err := loadRoomFixtures(ctx, filepath.Join(dir, "rooms.json"), unit, logger); err != nil {
		return err
	}
	return loadGuestFixtures(ctx, filepath.Join(dir, "guests.json"), unit, logger)
}

type roomFixture struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Type         string `json:"type"`
	RateCents    int64  `json:"rate_cents"`
	Currency     string `json:"currency"`
	Available    bool   `json:"available"`
	MaxExtraBeds int    `json:"max_extra_beds"`
}

func loadRoomFixtures(ctx context.Context, path string, unit uow.UnitOfWork, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("room fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read room fixtures: %w", err)
	}
	var fixtures []roomFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode room fixtures: %w", err)
	}
	for _, fx := range fixtures {
		rm := &room.Room{
			ID:           room.RoomID(fx.ID),
			Number:       fx.Number,
			Type:         fx.Type,
			Rate:         money.Money{Amount: fx.RateCents, Currency: fx.Currency},
			Available:    fx.Available,
			MaxExtraBeds: fx.MaxExtraBeds,
		}
		if err := unit.Rooms().Save(ctx, rm); err != nil {
			logger.Error("cannot store fixture room", "room_id", fx.ID, "error", err)
			continue
		}
	}
	logger.Info("room fixtures imported", "count", len(fixtures))
	return nil
}

type guestFixture struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func loadGuestFixtures(ctx context.Context, path string, unit uow.UnitOfWork, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("guest fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read guest fixtures: %w", err)
	}
	var fixtures []guestFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode guest fixtures: %w", err)
	}
	now := time.Now().UTC()
	for _, fx := range fixtures {
		g := &guest.Guest{
			ID:        guest.GuestID(fx.ID),
			FullName:  fx.FullName,
			Email:     fx.Email,
			Phone:     fx.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := unit.Guests().Save(ctx, g); err != nil {
			logger.Error("cannot store fixture guest", "guest_id", fx.ID, "error", err)
			continue
		}
	}
	logger.Info("guest fixtures imported", "count", len(fixtures))
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
