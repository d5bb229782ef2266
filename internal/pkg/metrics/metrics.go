package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "boardcamp"

// Metrics agrupa os coletores Prometheus da aplicação.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RentalsCreated      prometheus.Counter
	RentalsReturned     prometheus.Counter
	DelayFees           prometheus.Counter

	gatherer prometheus.Gatherer
}

// New cria os coletores e os registra em reg.
// Em produção reg é um prometheus.NewRegistry(); nos testes também, para isolar.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total de requisições HTTP.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latência das requisições HTTP em segundos.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RentalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rentals_created_total",
			Help:      "Total de aluguéis criados.",
		}),
		RentalsReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rentals_returned_total",
			Help:      "Total de aluguéis devolvidos.",
		}),
		DelayFees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delay_fees_total",
			Help:      "Soma das multas por atraso cobradas (menor unidade da moeda).",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RentalsCreated,
		m.RentalsReturned,
		m.DelayFees,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RentalCreated implementa o Recorder do serviço de aluguéis.
func (m *Metrics) RentalCreated() {
	m.RentalsCreated.Inc()
}

// RentalReturned implementa o Recorder do serviço de aluguéis.
func (m *Metrics) RentalReturned(delayFee int64) {
	m.RentalsReturned.Inc()
	if delayFee > 0 {
		m.DelayFees.Add(float64(delayFee))
	}
}

// Handler expõe as métricas no formato texto do Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
