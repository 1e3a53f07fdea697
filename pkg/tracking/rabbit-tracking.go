package tracking

import (
	"log"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/telarmx/artisan-finder/pkg/messaging"
	"github.com/telarmx/artisan-finder/pkg/types"
)

const trackingTopic = messaging.Topic("tracking")

// RabbitTracking publishes events to the broker. Events are queued and
// flushed in batches off the request path.
type RabbitTracking struct {
	prefix     string
	connection *amqp.Connection
	queue      *messaging.QueueHandler[any]
}

func NewRabbitTracking(url, prefix string) (*RabbitTracking, error) {
	t := &RabbitTracking{prefix: prefix}
	if err := t.connect(url); err != nil {
		return nil, err
	}
	t.queue = messaging.NewQueueHandler(t.flush, 32)
	return t, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, t.prefix, trackingTopic)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) flush(events []any) {
	for _, ev := range events {
		if err := messaging.Publish(t.connection, t.prefix, trackingTopic, ev); err != nil {
			log.Printf("Error publishing tracking event: %v", err)
		}
	}
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	t.queue.Add(any(SessionEvent{
		BaseEvent: &BaseEvent{Event: 0, SessionId: sessionId},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        clientIp(r),
	}))
}

type SearchEvent struct {
	*BaseEvent
	*types.FilterState
	NumberOfResults int    `json:"noi"`
	Referer         string `json:"referer,omitempty"`
}

func (t *RabbitTracking) TrackSearch(sessionId string, state *types.FilterState, results int, r *http.Request) {
	t.queue.Add(any(SearchEvent{
		BaseEvent:       &BaseEvent{Event: 1, SessionId: sessionId},
		FilterState:     state,
		NumberOfResults: results,
		Referer:         r.Header.Get("Referer"),
	}))
}

type FilterChangeEvent struct {
	*BaseEvent
	Field string `json:"field"`
	Value string `json:"value"`
}

func (t *RabbitTracking) TrackFilterChange(sessionId string, field string, value string) {
	t.queue.Add(any(FilterChangeEvent{
		BaseEvent: &BaseEvent{Event: 2, SessionId: sessionId},
		Field:     field,
		Value:     value,
	}))
}

type ProductViewEvent struct {
	*BaseEvent
	ProductId string `json:"product_id"`
}

func (t *RabbitTracking) TrackProductView(sessionId string, productId string) {
	t.queue.Add(any(ProductViewEvent{
		BaseEvent: &BaseEvent{Event: 3, SessionId: sessionId},
		ProductId: productId,
	}))
}
