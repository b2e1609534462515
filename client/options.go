package client

import (
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/timzifer/mongocompat/document"
	"github.com/timzifer/mongocompat/remote"
	"github.com/timzifer/mongocompat/telemetry"
)

// Option customises client construction.
type Option func(*settings) error

type settings struct {
	logger         zerolog.Logger
	telemetry      telemetry.Collector
	codec          document.Codec
	writeConcern   *writeconcern.WriteConcern
	readPreference *readpref.ReadPref
	connectTimeout time.Duration
	commandTimeout time.Duration
}

func newSettings(opts []Option) (*settings, error) {
	cfg := &settings{
		logger:    zerolog.Nop(),
		telemetry: telemetry.Noop(),
		codec:     document.NewBSONCodec(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (s *settings) remoteOptions() remote.Options {
	return remote.Options{
		ConnectTimeout: s.connectTimeout,
		CommandTimeout: s.commandTimeout,
		Logger:         s.logger,
	}
}

// WithLogger provides a custom logger instance for the client.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.logger = logger
		return nil
	}
}

// WithTelemetry injects a collector receiving client metrics.
func WithTelemetry(collector telemetry.Collector) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		if collector == nil {
			collector = telemetry.Noop()
		}
		cfg.telemetry = collector
		return nil
	}
}

// WithCodec overrides the document codec shared by all handles.
func WithCodec(codec document.Codec) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		if codec != nil {
			cfg.codec = codec
		}
		return nil
	}
}

// WithWriteConcern sets the initial cluster-wide default write concern.
func WithWriteConcern(wc *writeconcern.WriteConcern) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.writeConcern = wc
		return nil
	}
}

// WithReadPreference sets the initial cluster-wide default read preference.
func WithReadPreference(rp *readpref.ReadPref) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.readPreference = rp
		return nil
	}
}

// WithConnectTimeout bounds connector construction.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.connectTimeout = timeout
		return nil
	}
}

// WithCommandTimeout bounds individual administrative commands.
func WithCommandTimeout(timeout time.Duration) Option {
	return func(cfg *settings) error {
		if cfg == nil {
			return nil
		}
		cfg.commandTimeout = timeout
		return nil
	}
}
