package main

import (
	"confstay/internal/bookings/events"
	"confstay/internal/bookings/handler"
	"confstay/internal/bookings/repository"
	"confstay/internal/bookings/service"
	"confstay/internal/bookings/validator"
	eligibilityrepo "confstay/internal/eligibility/repository"
	eligibilityservice "confstay/internal/eligibility/service"
	"confstay/pkg/app"
	"confstay/pkg/config"
	"confstay/pkg/kafka"
	kafkaconfig "confstay/pkg/kafka/config"
	kafkamiddleware "confstay/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Bookings service")
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	publisher, producer := initPublisher(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	bookingService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	enrollmentRepo := eligibilityrepo.NewMongoEnrollmentRepository(cfg)
	ticketRepo := eligibilityrepo.NewMongoTicketRepository(cfg)
	eligibilityChecker := eligibilityservice.NewEligibilityService(cfg, enrollmentRepo, ticketRepo)

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	roomRepo := repository.NewMongoRoomRepository(cfg)
	lockRepo := repository.NewMongoRoomLockRepository(cfg)

	capacityChecker := service.NewCapacityService(cfg, roomRepo, bookingRepo)
	bookingValidator := validator.NewBookingValidator(cfg.Log)

	bookingService := service.NewBookingService(
		cfg,
		bookingRepo,
		lockRepo,
		capacityChecker,
		eligibilityChecker,
		bookingValidator,
		publisher,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config) (events.Publisher, *kafka.Producer) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking event publishing disabled")
		return events.NoopPublisher{}, nil
	}

	kafkaCfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsTopic+".dlq")
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Booking event publishing enabled", "topic", cfg.EventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log), producer
}
