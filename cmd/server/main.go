package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iberstay/hotel-distribution/internal/availability"
	"github.com/iberstay/hotel-distribution/internal/config"
	"github.com/iberstay/hotel-distribution/internal/database"
	"github.com/iberstay/hotel-distribution/internal/distribution"
	"github.com/iberstay/hotel-distribution/internal/handler"
	"github.com/iberstay/hotel-distribution/internal/provider"
	"github.com/iberstay/hotel-distribution/internal/queue"
	"github.com/iberstay/hotel-distribution/internal/repository"
	"github.com/iberstay/hotel-distribution/internal/router"
	queue_publisher "github.com/iberstay/hotel-distribution/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the search response cache and rate limiting.  A nil
	// client disables both rather than failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; search cache and rate limiting disabled")
	}

	inventory := repository.NewInventoryRepo(db)
	reservations := repository.NewReservationRepo(db)
	contracts := repository.NewContractRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := availability.NewEngine(inventory)

	// Provider registry: the in-process inventory adapter first, then the
	// remote channel.  Search results keep this order.
	adapters := []provider.Adapter{
		provider.NewPMS(engine, inventory, reservations),
		provider.NewChannel(cfg.ChannelBaseURL, cfg.ChannelTimeout),
	}
	aggregator := distribution.NewAggregator(adapters)
	coordinator := distribution.NewCoordinator(adapters, bookings, users, queue_publisher.PublishBookingConfirmed)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterDistribution(e, cfg, rdb,
		handler.NewAvailabilityHandler(engine),
		handler.NewSearchHandler(aggregator),
		handler.NewBookingHandler(coordinator),
		handler.NewStayHandler(reservations, contracts))

	// Consume confirmed-booking events into logs/booking.log in the
	// background; the consumer reconnects on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
