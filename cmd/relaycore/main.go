// relaycore - networked relay board controller
//
// This is the main entry point for the relaycore daemon. relaycore
// drives a bank of GPIO-attached relays and exposes them over:
//   - An HTTP JSON API with an embedded control panel
//   - MQTT (retained state, commands, presence with LWT)
//   - Optional InfluxDB telemetry for switching history
//
// Relay state survives restarts via a packed snapshot in SQLite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jmcrae/relaycore/migrations"

	"github.com/jmcrae/relaycore/internal/api"
	"github.com/jmcrae/relaycore/internal/bridge"
	"github.com/jmcrae/relaycore/internal/gpio"
	"github.com/jmcrae/relaycore/internal/infrastructure/config"
	"github.com/jmcrae/relaycore/internal/infrastructure/database"
	"github.com/jmcrae/relaycore/internal/infrastructure/influxdb"
	"github.com/jmcrae/relaycore/internal/infrastructure/logging"
	"github.com/jmcrae/relaycore/internal/infrastructure/mqtt"
	"github.com/jmcrae/relaycore/internal/relay"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// historyPruneInterval is how often expired history rows are deleted.
const historyPruneInterval = 12 * time.Hour

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // linear startup sequence: each block wires one subsystem
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting relaycore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database when anything needs it (snapshot persistence or history)
	var db *database.DB
	if cfg.Persistence.Enabled || cfg.History.Enabled {
		db, err = database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")
	} else {
		log.Info("persistence and history disabled, skipping database")
	}

	// Claim the relay output lines. A claim failure here is fatal: a
	// half-wired bank is worse than no bank.
	chip, err := gpio.OpenChip(cfg.Relays.Chip)
	if err != nil {
		return fmt.Errorf("opening gpio chip: %w", err)
	}
	defer func() {
		if closeErr := chip.Close(); closeErr != nil {
			log.Error("error closing gpio chip", "error", closeErr)
		}
	}()

	defaultState := relay.StateOff
	if cfg.Relays.DefaultOn {
		defaultState = relay.StateOn
	}

	lineOpts := gpio.Options{
		ActiveLow:    cfg.Relays.ActiveLow,
		OpenDrain:    cfg.Relays.OpenDrain,
		InitialValue: int(defaultState),
	}

	descs := make([]relay.Descriptor, len(cfg.Relays.Lines))
	for i, lc := range cfg.Relays.Lines {
		line, claimErr := chip.RequestOutput(lc.Line, lineOpts)
		if claimErr != nil {
			return fmt.Errorf("claiming relay line %d (%s): %w", lc.Line, lc.Name, claimErr)
		}
		defer line.Close() //nolint:errcheck // Best-effort release on shutdown
		descs[i] = relay.Descriptor{Name: lc.Name, Line: line}
	}
	log.Info("relay lines claimed",
		"chip", cfg.Relays.Chip,
		"count", len(descs),
		"active_low", cfg.Relays.ActiveLow,
		"default_on", cfg.Relays.DefaultOn,
	)

	// Build the relay command router
	relays := relay.NewRouter(relay.NewRegistry(descs, defaultState), cfg.GetDebounceWindow())
	relays.SetLogger(log)

	// Status indicator LED (optional)
	if cfg.Indicator.Enabled {
		ledLine, ledErr := chip.RequestOutput(cfg.Indicator.Line, gpio.Options{})
		if ledErr != nil {
			return fmt.Errorf("claiming indicator line %d: %w", cfg.Indicator.Line, ledErr)
		}
		indicator := gpio.NewIndicator(ledLine, cfg.GetIndicatorPulse(), cfg.Indicator.Pulses)
		defer indicator.Close() //nolint:errcheck // Best-effort release on shutdown
		relays.SetNotifier(indicator)
		log.Info("status indicator enabled", "line", cfg.Indicator.Line)
	}

	// Snapshot persistence and restore
	if cfg.Persistence.Enabled {
		relays.SetStore(relay.NewSQLiteStore(db.DB))
	}

	// State-change history
	var history *relay.SQLiteHistory
	if cfg.History.Enabled {
		history = relay.NewSQLiteHistory(db.DB)
		relays.SetHistory(history)
	}

	// Drive relays back to their last persisted state. Absent or broken
	// snapshots fall back to defaults; only a hardware write failure is
	// fatal here.
	if err := relays.Restore(ctx); err != nil {
		return fmt.Errorf("restoring relay states: %w", err)
	}

	// Connect to MQTT broker and start the command bridge (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttBridge, bridgeErr := bridge.New(bridge.Options{
			Relays: relays,
			Client: mqttClient,
			Topics: mqttClient.Topics(),
			QoS:    byte(cfg.MQTT.QoS), //nolint:gosec // QoS validated to 0..2 by config
			Logger: log,
		})
		if bridgeErr != nil {
			return fmt.Errorf("creating MQTT bridge: %w", bridgeErr)
		}
		if startErr := mqttBridge.Start(ctx); startErr != nil {
			return fmt.Errorf("starting MQTT bridge: %w", startErr)
		}
		defer func() {
			log.Info("stopping MQTT bridge")
			mqttBridge.Stop()
		}()
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB and stream switching telemetry (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		// WriteRelayState is non-blocking (batched), safe inside the
		// router's critical section.
		relays.AddObserver(func(view relay.View, source string) {
			influxClient.WriteRelayState(view.ID, view.Name, int(view.State), source)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Periodic history pruning
	if history != nil && cfg.History.RetentionDays > 0 {
		go pruneHistory(ctx, history, cfg.GetHistoryRetention(), log)
	}

	// Start the HTTP API
	apiServer, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Relays:  relays,
		History: historyOrNil(history),
		DB:      db,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"relays", relays.Count(),
	)

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API, InfluxDB, bridge, MQTT, indicator, relay lines, chip, database.

	log.Info("relaycore stopped")
	return nil
}

// historyOrNil converts a possibly-nil concrete history into the API's
// optional interface. A plain assignment would wrap the nil pointer in a
// non-nil interface and re-enable the endpoint.
func historyOrNil(h *relay.SQLiteHistory) api.HistoryLister {
	if h == nil {
		return nil
	}
	return h
}

// pruneHistory deletes expired history rows on a fixed interval until the
// context is cancelled. An initial prune runs immediately so retention
// applies from boot, not from the first tick.
func pruneHistory(ctx context.Context, history *relay.SQLiteHistory, retention time.Duration, log *logging.Logger) {
	prune := func() {
		deleted, err := history.Prune(ctx, retention)
		if err != nil {
			log.Warn("pruning relay history", "error", err)
			return
		}
		if deleted > 0 {
			log.Info("pruned relay history", "deleted", deleted)
		}
	}

	prune()

	ticker := time.NewTicker(historyPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			prune()
		case <-ctx.Done():
			return
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses RELAYCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("RELAYCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check (may be nil if disabled)
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
