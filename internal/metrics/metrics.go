// Package metrics provides the network core's counters and gauges behind
// a selectable backend, grounded in itzg-mc-router's server/metrics.go:
// the same go-kit/kit/metrics facade lets the rest of the engine record
// against a stable interface while prometheus/expvar/influxdb/discard are
// swapped in underneath by configuration alone.
package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/go-kit/kit/metrics"
	discardmetrics "github.com/go-kit/kit/metrics/discard"
	expvarmetrics "github.com/go-kit/kit/metrics/expvar"
	kitinflux "github.com/go-kit/kit/metrics/influx"
	prometheusmetrics "github.com/go-kit/kit/metrics/prometheus"
	influx "github.com/influxdata/influxdb1-client/v2"
	"github.com/pkg/errors"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const (
	BackendDiscard    = "discard"
	BackendExpvar     = "expvar"
	BackendPrometheus = "prometheus"
	BackendInfluxDB   = "influxdb"
)

// Connections holds every counter/gauge the network core records against,
// named for the concerns spec §2's "Metrics & admin API" component adds:
// connection lifecycle, packet volume, and compression effectiveness.
type Connections struct {
	Accepted         metrics.Counter
	Active           metrics.Gauge
	Rejected         metrics.Counter
	PacketsIn        metrics.Counter
	PacketsOut       metrics.Counter
	CompressionSaved metrics.Counter
	Errors           metrics.Counter
}

// InfluxDBConfig carries the settings the influxdb backend needs; it is
// nil for every other backend.
type InfluxDBConfig struct {
	Addr     string
	Username string
	Password string
	Database string
	Interval time.Duration
}

// Builder constructs a Connections for the configured backend and, for
// backends that push on an interval (influxdb), starts that loop.
type Builder interface {
	Build() *Connections
	Start(ctx context.Context) error
}

// NewBuilder resolves backend (one of the Backend* constants) to a
// Builder, defaulting to discard for anything unrecognized — the same
// fallback itzg-mc-router's NewMetricsBuilder uses.
func NewBuilder(backend string, influxCfg *InfluxDBConfig) Builder {
	switch strings.ToLower(backend) {
	case BackendExpvar:
		return expvarBuilder{}
	case BackendPrometheus:
		return prometheusBuilder{}
	case BackendInfluxDB:
		return &influxBuilder{config: influxCfg}
	default:
		return discardBuilder{}
	}
}

type discardBuilder struct{}

func (discardBuilder) Start(context.Context) error { return nil }

func (discardBuilder) Build() *Connections {
	return &Connections{
		Accepted:         discardmetrics.NewCounter(),
		Active:           discardmetrics.NewGauge(),
		Rejected:         discardmetrics.NewCounter(),
		PacketsIn:        discardmetrics.NewCounter(),
		PacketsOut:       discardmetrics.NewCounter(),
		CompressionSaved: discardmetrics.NewCounter(),
		Errors:           discardmetrics.NewCounter(),
	}
}

type expvarBuilder struct{}

func (expvarBuilder) Start(context.Context) error { return nil }

func (expvarBuilder) Build() *Connections {
	return &Connections{
		Accepted:         expvarmetrics.NewCounter("network_connections_accepted"),
		Active:           expvarmetrics.NewGauge("network_connections_active"),
		Rejected:         expvarmetrics.NewCounter("network_connections_rejected"),
		PacketsIn:        expvarmetrics.NewCounter("network_packets_in"),
		PacketsOut:       expvarmetrics.NewCounter("network_packets_out"),
		CompressionSaved: expvarmetrics.NewCounter("network_compression_bytes_saved"),
		Errors:           expvarmetrics.NewCounter("network_errors"),
	}
}

type prometheusBuilder struct{}

func (prometheusBuilder) Start(context.Context) error { return nil }

func (prometheusBuilder) Build() *Connections {
	return &Connections{
		Accepted: prometheusmetrics.NewCounter(promauto.NewCounterVec(promclient.CounterOpts{
			Namespace: "mc_network", Name: "connections_accepted_total",
			Help: "Total TCP connections accepted.",
		}, nil)),
		Active: prometheusmetrics.NewGauge(promauto.NewGaugeVec(promclient.GaugeOpts{
			Namespace: "mc_network", Name: "connections_active",
			Help: "Connections currently tracked by the manager.",
		}, nil)),
		Rejected: prometheusmetrics.NewCounter(promauto.NewCounterVec(promclient.CounterOpts{
			Namespace: "mc_network", Name: "connections_rejected_total",
			Help: "Connections rejected by the accept-rate limiter.",
		}, nil)),
		PacketsIn: prometheusmetrics.NewCounter(promauto.NewCounterVec(promclient.CounterOpts{
			Namespace: "mc_network", Name: "packets_in_total",
			Help: "Packets decoded from clients.",
		}, nil)),
		PacketsOut: prometheusmetrics.NewCounter(promauto.NewCounterVec(promclient.CounterOpts{
			Namespace: "mc_network", Name: "packets_out_total",
			Help: "Packets written to clients.",
		}, nil)),
		CompressionSaved: prometheusmetrics.NewCounter(promauto.NewCounterVec(promclient.CounterOpts{
			Namespace: "mc_network", Name: "compression_bytes_saved_total",
			Help: "Bytes saved by zlib compression on outbound frames.",
		}, nil)),
		Errors: prometheusmetrics.NewCounter(promauto.NewCounterVec(promclient.CounterOpts{
			Namespace: "mc_network", Name: "errors_total",
			Help: "Connection-terminating errors by the engine.",
		}, []string{"kind"})),
	}
}

type influxBuilder struct {
	config  *InfluxDBConfig
	metrics *kitinflux.Influx
}

func (b *influxBuilder) Build() *Connections {
	tags := map[string]string{}
	database := ""
	if b.config != nil {
		database = b.config.Database
	}
	m := kitinflux.New(tags, influx.BatchPointsConfig{
		Database: database,
	}, nil)
	b.metrics = m

	return &Connections{
		Accepted:         m.NewCounter("mc_network_connections_accepted"),
		Active:           m.NewGauge("mc_network_connections_active"),
		Rejected:         m.NewCounter("mc_network_connections_rejected"),
		PacketsIn:        m.NewCounter("mc_network_packets_in"),
		PacketsOut:       m.NewCounter("mc_network_packets_out"),
		CompressionSaved: m.NewCounter("mc_network_compression_bytes_saved"),
		Errors:           m.NewCounter("mc_network_errors"),
	}
}

func (b *influxBuilder) Start(ctx context.Context) error {
	if b.config == nil || b.config.Addr == "" {
		return errors.New("influxdb addr is required")
	}
	client, err := influx.NewHTTPClient(influx.HTTPConfig{
		Addr:     b.config.Addr,
		Username: b.config.Username,
		Password: b.config.Password,
	})
	if err != nil {
		return errors.Wrap(err, "creating influxdb client")
	}

	interval := b.config.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go b.metrics.WriteLoop(ctx, ticker.C, client)

	logrus.WithField("addr", b.config.Addr).Debug("reporting metrics to influxdb")
	return nil
}
