package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures telemetry events emitted by the client.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They should be inexpensive to call because hooks are
// executed inline with critical paths such as handle creation and command
// dispatch.
type Collector interface {
	IncCommand(database, command string)
	IncCommandFailure(database, command string)
	IncDatabaseHandle(database string)
	IncDiscardedCandidate(database string)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncCommand(string, string)        {}
func (noopCollector) IncCommandFailure(string, string) {}
func (noopCollector) IncDatabaseHandle(string)         {}
func (noopCollector) IncDiscardedCandidate(string)     {}

// PrometheusCollector exposes telemetry counters via Prometheus.
type PrometheusCollector struct {
	commands            *prometheus.CounterVec
	commandFailures     *prometheus.CounterVec
	databaseHandles     *prometheus.CounterVec
	discardedCandidates *prometheus.CounterVec
}

var (
	registryLock              sync.Mutex
	commandCounter            *prometheus.CounterVec
	commandFailureCounter     *prometheus.CounterVec
	databaseHandleCounter     *prometheus.CounterVec
	discardedCandidateCounter *prometheus.CounterVec
)

// NewPrometheusCollector registers the required metrics with the provided
// registerer. Counters are created once per process and reused on repeated
// registration against the same registerer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	registryLock.Lock()
	defer registryLock.Unlock()

	var err error
	commandCounter, err = ensureCounter(reg, commandCounter, prometheus.CounterOpts{
		Name: "mongocompat_commands_total",
		Help: "Number of administrative commands issued per database and command.",
	}, []string{"database", "command"})
	if err != nil {
		return nil, err
	}
	commandFailureCounter, err = ensureCounter(reg, commandFailureCounter, prometheus.CounterOpts{
		Name: "mongocompat_command_failures_total",
		Help: "Number of administrative commands that returned an error.",
	}, []string{"database", "command"})
	if err != nil {
		return nil, err
	}
	databaseHandleCounter, err = ensureCounter(reg, databaseHandleCounter, prometheus.CounterOpts{
		Name: "mongocompat_database_handles_total",
		Help: "Number of database handles published by the registry.",
	}, []string{"database"})
	if err != nil {
		return nil, err
	}
	discardedCandidateCounter, err = ensureCounter(reg, discardedCandidateCounter, prometheus.CounterOpts{
		Name: "mongocompat_discarded_candidates_total",
		Help: "Number of candidate handles discarded after losing a concurrent first access.",
	}, []string{"database"})
	if err != nil {
		return nil, err
	}

	return &PrometheusCollector{
		commands:            commandCounter,
		commandFailures:     commandFailureCounter,
		databaseHandles:     databaseHandleCounter,
		discardedCandidates: discardedCandidateCounter,
	}, nil
}

func ensureCounter(reg prometheus.Registerer, cached *prometheus.CounterVec, opts prometheus.CounterOpts, labels []string) (*prometheus.CounterVec, error) {
	if cached != nil {
		return cached, nil
	}
	counter := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(counter); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return counter, nil
}

// IncCommand counts a successfully executed command.
func (c *PrometheusCollector) IncCommand(database, command string) {
	c.commands.WithLabelValues(database, command).Inc()
}

// IncCommandFailure counts a command that surfaced an error.
func (c *PrometheusCollector) IncCommandFailure(database, command string) {
	c.commandFailures.WithLabelValues(database, command).Inc()
}

// IncDatabaseHandle counts a handle published for the first time.
func (c *PrometheusCollector) IncDatabaseHandle(database string) {
	c.databaseHandles.WithLabelValues(database).Inc()
}

// IncDiscardedCandidate counts a candidate handle that lost the publication
// race and was thrown away.
func (c *PrometheusCollector) IncDiscardedCandidate(database string) {
	c.discardedCandidates.WithLabelValues(database).Inc()
}
