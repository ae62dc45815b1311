package main

import (
	eligibilityrepo "confstay/internal/eligibility/repository"
	eligibilityservice "confstay/internal/eligibility/service"
	"confstay/internal/hotels/handler"
	"confstay/internal/hotels/repository"
	"confstay/internal/hotels/service"
	"confstay/pkg/app"
	"confstay/pkg/config"
)

const ServiceName = "hotels"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Hotels service")
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	hotelService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewHotelHandler(hotelService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.HotelService {
	enrollmentRepo := eligibilityrepo.NewMongoEnrollmentRepository(cfg)
	ticketRepo := eligibilityrepo.NewMongoTicketRepository(cfg)
	eligibilityChecker := eligibilityservice.NewEligibilityService(cfg, enrollmentRepo, ticketRepo)

	hotelRepo := repository.NewMongoHotelRepository(cfg)
	hotelService := service.NewHotelService(cfg, hotelRepo, eligibilityChecker)

	cfg.Log.Info("Hotel service initialized", "database", cfg.MongoDatabaseName)
	return hotelService
}
