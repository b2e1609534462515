package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/timzifer/mongocompat/client"
	"github.com/timzifer/mongocompat/config"
	"github.com/timzifer/mongocompat/internal/logging"
	"github.com/timzifer/mongocompat/telemetry"
)

func main() {
	cfgPath := flag.String("config", "", "Path to configuration file")
	uri := flag.String("uri", "", "Connection URI (overrides the configured cluster)")
	showVersion := flag.Bool("version", false, "Print the library version and exit")
	listDatabases := flag.Bool("list-databases", false, "List database names")
	serverAddresses := flag.Bool("server-addresses", false, "List currently known cluster members")
	dropDatabase := flag.String("drop-database", "", "Drop the named database")
	flag.Parse()

	if *showVersion {
		fmt.Println(client.Version())
		return
	}

	cfg, err := loadConfig(*cfgPath, *uri)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup logger")
	}
	defer cleanup()
	log.Logger = logger

	collector, err := newTelemetryCollector(cfg.Telemetry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
		collector = telemetry.Noop()
	}

	handle, err := client.FromConfig(cfg, client.WithLogger(logger), client.WithTelemetry(collector))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create client")
	}
	defer handle.Close()

	ran := false
	if *listDatabases {
		ran = true
		names, err := handle.DatabaseNames()
		if err != nil {
			logger.Fatal().Err(err).Msg("list databases failed")
		}
		for _, name := range names {
			fmt.Println(name)
		}
	}
	if *serverAddresses {
		ran = true
		addrs, err := handle.ServerAddressList()
		if err != nil {
			logger.Fatal().Err(err).Msg("server address list failed")
		}
		for _, addr := range addrs {
			fmt.Println(addr.String())
		}
	}
	if *dropDatabase != "" {
		ran = true
		if err := handle.DropDatabase(*dropDatabase); err != nil {
			logger.Fatal().Err(err).Msg("drop database failed")
		}
		logger.Info().Str("database", *dropDatabase).Msg("database dropped")
	}

	if !ran {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -list-databases, -server-addresses or -drop-database")
		os.Exit(2)
	}
}

func loadConfig(path, uri string) (*config.Config, error) {
	if path == "" {
		if uri == "" {
			return nil, fmt.Errorf("either -config or -uri is required")
		}
		return &config.Config{Cluster: config.ClusterConfig{URI: uri}}, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if uri != "" {
		cfg.Cluster.URI = uri
		cfg.Cluster.Hosts = nil
	}
	return cfg, nil
}

func newTelemetryCollector(cfg config.TelemetryConfig) (telemetry.Collector, error) {
	if !cfg.Enabled {
		return telemetry.Noop(), nil
	}
	return telemetry.NewPrometheusCollector(nil)
}
