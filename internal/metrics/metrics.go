// Package metrics exposes Prometheus counters for the carpool application.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Recorder is what handlers report to.
type Recorder interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
	RecordAuthRedirect()
	RecordOfferCreated()
	RecordChatMessage()
	RecordHTTPStatus(method string, status int)
}

// Collector records metrics into Prometheus.
type Collector struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	authRedirects prometheus.Counter
	offers        prometheus.Counter
	chatMessages  prometheus.Counter
	httpStatus    *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carpool_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carpool_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		authRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carpool_auth_redirects_total",
			Help: "Protected requests redirected to the login page.",
		}),
		offers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carpool_offers_created_total",
			Help: "Carpool offers created.",
		}),
		chatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carpool_chat_messages_total",
			Help: "Chat messages sent.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carpool_http_responses_total",
			Help: "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
	}

	reg.MustRegister(
		c.registrations,
		c.logins,
		c.authRedirects,
		c.offers,
		c.chatMessages,
		c.httpStatus,
	)
	return c
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAuthRedirect() {
	c.authRedirects.Inc()
}

func (c *Collector) RecordOfferCreated() {
	c.offers.Inc()
}

func (c *Collector) RecordChatMessage() {
	c.chatMessages.Inc()
}

func (c *Collector) RecordHTTPStatus(method string, status int) {
	c.httpStatus.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every metric.
type Nop struct{}

func (Nop) RecordRegistration(string) {}
func (Nop) RecordLogin(string) {}
func (Nop) RecordAuthRedirect() {}
func (Nop) RecordOfferCreated() {}
func (Nop) RecordChatMessage() {}
func (Nop) RecordHTTPStatus(string, int) {}
