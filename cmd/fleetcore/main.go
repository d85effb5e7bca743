package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetcore/config"
	"fleetcore/engine"
	"fleetcore/fleetstate"
	"fleetcore/messaging"
	"fleetcore/pricing"
	"fleetcore/store"
	"fleetcore/telematics"
	"fleetcore/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "fleetcore.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("fleetcore", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("fleetcore: database open (%s)", cfg.Database.Driver)

	// Redis snapshot layer
	fleetState, err := fleetstate.New(&cfg.Redis, db)
	if err != nil {
		log.Printf("fleetcore: redis not available (%v), serving roster from SQL", err)
		fleetState = nil
	} else {
		log.Printf("fleetcore: redis connected (%s)", cfg.Redis.Address)
		syncCtx, syncCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := fleetState.SyncFromSQL(syncCtx); err != nil {
			log.Printf("fleetcore: redis sync from SQL: %v", err)
		}
		syncCancel()
		defer fleetState.Close()
	}

	// Corridor catalog and pricing engine
	catalog, err := pricing.LoadCatalog(cfg.Pricing.CorridorsFile)
	if err != nil {
		log.Printf("fleetcore: corridor file load failed (%v), using built-in catalog", err)
		catalog = pricing.DefaultCatalog()
	}
	priceEngine := pricing.NewEngine(catalog, cfg.Pricing.DieselPrice, cfg.Pricing.BaseOpsPerKm)

	// Telematics feed (MQTT)
	tracker := telematics.NewSubscriber(&cfg.Messaging.Telematics, db)
	if err := tracker.Connect(); err != nil {
		log.Printf("fleetcore: telematics not available (%v)", err)
	} else {
		log.Printf("fleetcore: telematics connected (%s)", cfg.Messaging.Telematics.Broker)
	}
	defer tracker.Close()

	// Messaging client
	msgClient := messaging.NewClient(&cfg.Messaging)
	if err := msgClient.Connect(); err != nil {
		log.Printf("fleetcore: messaging connect failed (%v)", err)
	} else {
		log.Printf("fleetcore: messaging connected (kafka)")
	}
	defer msgClient.Close()

	// Engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		DB:         db,
		FleetState: fleetState,
		MsgClient:  msgClient,
		Telematics: tracker,
		Pricing:    priceEngine,
	})
	eng.Start()
	defer eng.Stop()

	// RFQ intake (inbound from brokers and client systems)
	intake := messaging.NewIntake(eng.Orchestrator())
	if err := msgClient.ListenRFQs(intake.HandleRFQ); err != nil {
		log.Printf("fleetcore: rfq intake subscribe failed: %v", err)
	} else {
		log.Printf("fleetcore: rfq intake listening on %s", cfg.Messaging.IntakeTopic)
	}

	// Outbox drainer (outbound finance postings)
	drainer := messaging.NewOutboxDrainer(db, msgClient, cfg.Messaging.OutboxDrainInterval)
	drainer.Start()
	defer drainer.Stop()

	// Web server
	handler, stopWeb := www.NewRouter(eng)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("fleetcore: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("fleetcore: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("fleetcore: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	log.Printf("fleetcore: stopped")
}
