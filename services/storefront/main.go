package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/dinner/pkg"
	"github.com/appetiteclub/dinner/pkg/event"
	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/cart"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
	"github.com/appetiteclub/dinner/services/storefront/internal/hint"
	"github.com/appetiteclub/dinner/services/storefront/internal/mongo"
	"github.com/appetiteclub/dinner/services/storefront/internal/revision"
	"github.com/appetiteclub/dinner/services/storefront/internal/storefront"
	"github.com/appetiteclub/dinner/services/storefront/internal/voice"
)

const (
	appNamespace = "STOREFRONT"
	appName      = "storefront"
	appVersion   = "0.1.0"
)

func main() {
	// A missing .env is fine outside development.
	_ = godotenv.Load()

	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("Cannot setup %s(%s): %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	apiURL := config.GetStringOrDef("services.api.url", "http://localhost:8080/api")
	apiClient := backend.NewClient(apiURL, duration(config, "services.api.timeout", 10*time.Second))
	carts := backend.NewCartDataAccess(apiClient)
	orders := backend.NewOrderDataAccess(apiClient)
	customers := backend.NewCustomerDataAccess(apiClient)

	menuClient := aqm.NewServiceClient(apiURL)
	menus := catalog.NewMenuCache(backend.NewMenuDataAccess(menuClient), duration(config, "menu.cache.ttl", 5*time.Minute), logger)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	publisher, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("Cannot connect to NATS publisher: %v", err)
	}

	subscriber, err := pkg.NewNATSSubscriber(natsURL, logger)
	if err != nil {
		log.Fatalf("Cannot connect to NATS subscriber: %v", err)
	}

	lifecycles := []interface{}{
		aqm.LifecycleHooks{OnStop: func(context.Context) error { return publisher.Close() }},
		aqm.LifecycleHooks{OnStop: func(context.Context) error { return subscriber.Close() }},
	}

	// Revisions retained by JetStream let a restarted storefront know the
	// versions confirmed while it was down.
	var replay revision.StreamFetcher
	if config.GetStringOrDef("nats.stream.enabled", "false") == "true" {
		stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
			URL:          natsURL,
			StreamName:   config.GetStringOrDef("nats.stream.name", "ORDER_REVISIONS"),
			Subjects:     []string{event.OrderRevisionsTopic},
			FilterTopic:  event.OrderRevisionsTopic,
			ConsumerName: config.GetStringOrDef("nats.stream.consumer", appName),
			MaxAge:       duration(config, "nats.stream.max_age", time.Hour),
		})
		if err != nil {
			log.Fatalf("Cannot open NATS stream: %v", err)
		}
		replay = stream
		lifecycles = append(lifecycles, aqm.LifecycleHooks{OnStop: func(context.Context) error { return stream.Close() }})
	}

	tracker := revision.NewVersionTracker(subscriber, replay, logger)
	updater := revision.NewUpdater(orders, menus, logger,
		revision.WithPublisher(publisher),
		revision.WithTracker(tracker),
		revision.WithConfirmTimeout(duration(config, "revision.confirm.timeout", 5*time.Second)),
	)

	hintTTL := duration(config, "hint.ttl", hint.DefaultTTL)
	var hints hint.Store
	switch config.GetStringOrDef("hint.store", "memory") {
	case "mongo":
		baseRepo := mongo.NewBaseRepo(config, logger)
		hintRepo := mongo.NewHintRepo(baseRepo, hintTTL)
		lifecycles = append(lifecycles, hintRepo)
		hints = hintRepo
	default:
		hints = hint.NewMemoryStore(hintTTL)
	}

	audit := storefront.NewAuditLogger(logger)

	checkout := storefront.NewCheckout(storefront.CheckoutDeps{
		Menus:      menus,
		Carts:      carts,
		Coupons:    customers,
		Hints:      hints,
		Reconciler: cart.NewReconciler(publisher, logger),
		Publisher:  publisher,
		Audit:      audit,
	}, logger)

	voiceURL := config.GetStringOrDef("services.voice.url", "http://localhost:5001")
	voiceClient := voice.NewClient(voiceURL, duration(config, "services.voice.timeout", 60*time.Second))

	sessions := voice.NewRegistry(voiceClient, checkout, duration(config, "voice.session.ttl", voice.DefaultSessionTTL), voice.Options{
		Language:              config.GetStringOrDef("voice.language", voice.DefaultLanguage),
		TranscriptionLanguage: config.GetStringOrDef("voice.transcription.language", ""),
		ServiceURL:            voiceURL,
		Logger:                logger,
	})

	lifecycles = append(lifecycles, tracker, sessions)

	handler := storefront.NewHandler(storefront.HandlerDeps{
		Sessions: sessions,
		Profiles: customers,
		Orders:   updater,
		Hints:    hints,
		Audit:    audit,
	}, config, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func duration(config *aqm.Config, key string, def time.Duration) time.Duration {
	raw, ok := config.GetString(key)
	if !ok || raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, raw, def)
		return def
	}
	return d
}
