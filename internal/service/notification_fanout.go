package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/observability"
)

// inboxHub delivers live notifications to the stream connections open on this node.
type inboxHub struct {
	mu    sync.RWMutex
	conns map[uint][]chan dto.NotificationResponse
}

func newInboxHub() *inboxHub {
	return &inboxHub{conns: make(map[uint][]chan dto.NotificationResponse)}
}

func (h *inboxHub) attach(userID uint) (<-chan dto.NotificationResponse, func()) {
	conn := make(chan dto.NotificationResponse, notificationBufferSize)

	h.mu.Lock()
	h.conns[userID] = append(h.conns[userID], conn)
	h.mu.Unlock()
	observability.SSEClientsActive().Inc()

	var once sync.Once
	return conn, func() {
		once.Do(func() {
			h.detach(userID, conn)
			observability.SSEClientsActive().Dec()
		})
	}
}

func (h *inboxHub) detach(userID uint, conn chan dto.NotificationResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[userID]
	for i, candidate := range conns {
		if candidate == conn {
			conns = append(conns[:i], conns[i+1:]...)
			close(conn)
			break
		}
	}
	if len(conns) == 0 {
		delete(h.conns, userID)
		return
	}
	h.conns[userID] = conns
}

// deliver never blocks; a connection whose buffer is full misses the event and can catch up
// from the inbox listing.
func (h *inboxHub) deliver(notification dto.NotificationResponse) (delivered int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.conns[notification.UserID] {
		select {
		case conn <- notification:
			delivered++
		default:
		}
	}
	return delivered
}

// fanoutEnvelope is the wire format shared by every node of the deployment.
type fanoutEnvelope struct {
	Origin       string                   `json:"origin"`
	CompanyID    uint                     `json:"company_id"`
	Notification dto.NotificationResponse `json:"notification"`
	EmittedAt    time.Time                `json:"emitted_at"`
}

// relay carries envelopes between nodes.
type relay interface {
	name() string
	publish(ctx context.Context, payload []byte) error
	listen(ctx context.Context, deliver func([]byte)) error
}

type redisRelay struct {
	client  *redis.Client
	channel string
}

func (r redisRelay) name() string { return "redis" }

func (r redisRelay) publish(ctx context.Context, payload []byte) error {
	return r.client.Publish(ctx, r.channel, payload).Err()
}

func (r redisRelay) listen(ctx context.Context, deliver func([]byte)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}
			deliver([]byte(msg.Payload))
		}
	}
}

type natsRelay struct {
	conn    *nats.Conn
	subject string
}

func (n natsRelay) name() string { return "nats" }

func (n natsRelay) publish(_ context.Context, payload []byte) error {
	return n.conn.Publish(n.subject, payload)
}

// listen uses a plain subscription: every node must see every event to reach its own stream clients.
func (n natsRelay) listen(ctx context.Context, deliver func([]byte)) error {
	sub, err := n.conn.Subscribe(n.subject, func(msg *nats.Msg) { deliver(msg.Data) })
	if err != nil {
		return err
	}
	<-ctx.Done()
	return sub.Drain()
}

func buildRelays(opts NotificationOptions) []relay {
	base := strings.TrimSpace(opts.ChannelBase)
	if base == "" {
		return nil
	}

	var relays []relay
	if opts.Redis != nil {
		relays = append(relays, redisRelay{client: opts.Redis, channel: base + ":notifications"})
	}
	if opts.NATS != nil {
		relays = append(relays, natsRelay{conn: opts.NATS, subject: strings.ReplaceAll(base, ":", ".") + ".notifications"})
	}
	return relays
}

func encodeEnvelope(origin string, notification dto.NotificationResponse, companyID uint) ([]byte, error) {
	return json.Marshal(fanoutEnvelope{
		Origin:       origin,
		CompanyID:    companyID,
		Notification: notification,
		EmittedAt:    time.Now().UTC(),
	})
}
