package realtime

import (
	"context"
	"encoding/json"
	"expvar"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingCancelled EventType = "booking_cancelled"
	EventSubscribed       EventType = "subscribed"
)

const floorChannelPrefix = "floor:"

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

// Event is pushed to floor-map viewers so they can recolor spaces live
type Event struct {
	Type      EventType `json:"type"`
	FloorID   uuid.UUID `json:"floor_id,omitempty"`
	SpaceID   uuid.UUID `json:"space_id,omitempty"`
	BookingID uuid.UUID `json:"booking_id,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte

	mu     sync.Mutex
	floors map[uuid.UUID]bool
}

func (c *Connection) subscribe(floorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.floors == nil {
		c.floors = make(map[uuid.UUID]bool)
	}
	c.floors[floorID] = true
}

func (c *Connection) unsubscribe(floorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.floors, floorID)
}

func (c *Connection) watching(floorID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.floors[floorID]
}

// Hub fans booking events out to floor-map viewers. With Redis configured
// events travel through Pub/Sub so every server instance delivers them;
// without Redis delivery is local only.
type Hub struct {
	connections map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates the floor event hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, floorChannelPrefix+"*")
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("floor map viewer connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
				wsConnectionsGauge.Add(-1)
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("floor map viewer disconnected")
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
			if !strings.HasPrefix(msg.Channel, floorChannelPrefix) {
				continue
			}

			floorID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, floorChannelPrefix))
			if err != nil {
				continue
			}

			h.deliverLocal(floorID, []byte(msg.Payload))
		}
	}
}

// Broadcast publishes an event to every viewer of the floor
func (h *Hub) Broadcast(event *Event) {
	if event == nil || event.FloorID == uuid.Nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal floor event")
		return
	}

	if h.redis != nil {
		channel := floorChannelPrefix + event.FloorID.String()
		if err := h.redis.Publish(h.ctx, channel, data).Err(); err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("redis publish failed")
			h.deliverLocal(event.FloorID, data)
		}
		return
	}

	h.deliverLocal(event.FloorID, data)
}

func (h *Hub) deliverLocal(floorID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections {
		if !conn.watching(floorID) {
			continue
		}
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			wsEventsDroppedTotal.Add(1)
			log.Warn().Str("user_id", conn.UserID.String()).Msg("websocket send buffer full")
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// ConnectionCount returns number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
