package appointment

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventAvailabilityChanged tells booking pages to re-fetch available slots
const EventAvailabilityChanged = "availability_changed"

const availabilityChannel = "availability:changed"

var (
	wsConnectionsGauge   = expvar.NewInt("availability_ws_connections")
	wsEventsSentTotal    = expvar.NewInt("availability_ws_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("availability_ws_events_dropped_total")
)

// Event is pushed to subscribers of a (stylist, date) schedule
type Event struct {
	Type      string `json:"type"`
	StylistID int64  `json:"stylist_id"`
	Date      string `json:"date"`
}

type busMessage struct {
	Event            Event  `json:"event"`
	SenderInstanceID string `json:"sender_instance_id"`
}

// Client is one websocket watching a single stylist day
type Client struct {
	StylistID int64
	Date      string
	Conn      *websocket.Conn
	Send      chan []byte
}

func dayKey(stylistID int64, date string) string {
	return fmt.Sprintf("%d:%s", stylistID, date)
}

// Hub fans availability changes out to websocket clients. With Redis every
// instance receives every change; without it delivery stays in-process.
type Hub struct {
	days map[string]map[*Client]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
}

// NewHub creates availability hub; redisClient may be nil
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		days:       make(map[string]map[*Client]bool),
		redis:      redisClient,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		instanceID: uuid.NewString(),
	}
	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, availabilityChannel)
	}
	return h
}

// Run processes registrations until Shutdown (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case c := <-h.register:
			key := dayKey(c.StylistID, c.Date)
			h.mu.Lock()
			if h.days[key] == nil {
				h.days[key] = make(map[*Client]bool)
			}
			h.days[key][c] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			log.Debug().Str("day", key).Msg("Availability watcher connected")

		case c := <-h.unregister:
			key := dayKey(c.StylistID, c.Date)
			h.mu.Lock()
			if clients, ok := h.days[key]; ok {
				if clients[c] {
					delete(clients, c)
					close(c.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(clients) == 0 {
					delete(h.days, key)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("day", key).Msg("Availability watcher disconnected")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleBusPayload(msg.Payload)
		}
	}
}

func (h *Hub) handleBusPayload(payload string) {
	var msg busMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return
	}
	// Delivered locally before publishing
	if msg.SenderInstanceID == h.instanceID {
		return
	}
	h.broadcastLocal(msg.Event)
}

// AvailabilityChanged notifies every watcher of (stylistID, date) on all instances
func (h *Hub) AvailabilityChanged(ctx context.Context, stylistID int64, date string) {
	event := Event{Type: EventAvailabilityChanged, StylistID: stylistID, Date: date}
	h.broadcastLocal(event)

	if h.redis == nil {
		return
	}
	data, err := json.Marshal(busMessage{Event: event, SenderInstanceID: h.instanceID})
	if err != nil {
		return
	}
	if err := h.redis.Publish(ctx, availabilityChannel, data).Err(); err != nil {
		log.Warn().Err(err).Str("channel", availabilityChannel).Msg("Redis publish failed")
	}
}

func (h *Hub) broadcastLocal(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.days[dayKey(event.StylistID, event.Date)] {
		select {
		case c.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			wsEventsDroppedTotal.Add(1)
			log.Warn().Int64("stylist_id", c.StylistID).Msg("Availability send buffer full")
		}
	}
}

// Register adds a client
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.ctx.Done():
	}
}

// Unregister removes a client
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.ctx.Done():
	}
}

// WatcherCount returns local clients watching (stylistID, date)
func (h *Hub) WatcherCount(stylistID int64, date string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.days[dayKey(stylistID, date)])
}

// Shutdown stops the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
