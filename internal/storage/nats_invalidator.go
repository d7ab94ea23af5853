package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/zonegrid/internal/logging"
	"github.com/nats-io/nats.go"
)

// NATSInvalidator реализует Invalidator поверх NATS Pub/Sub (без JetStream:
// пропущенная инвалидация безопасна, hot-копии ограничены TTL).
type NATSInvalidator struct {
	conn    *nats.Conn
	subject string
	nodeID  string

	mu           sync.Mutex
	subscription *nats.Subscription

	publishedCount int64
	receivedCount  int64
	errorsCount    int64
}

// InvalidationMessage сообщение об изменении раскладки
type InvalidationMessage struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	NodeID    string    `json:"node_id"`
}

// NewNATSInvalidator подключается к NATS. nodeID отличает свои сообщения от чужих.
func NewNATSInvalidator(url, subject, nodeID string) (*NATSInvalidator, error) {
	if subject == "" {
		subject = "zones.layouts.invalidate"
	}

	opts := []nats.Option{
		nats.Name("zonegrid-layouts"),
		nats.Timeout(2 * time.Second),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logging.Warn("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Info("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logging.Info("NATS invalidator initialized: %s (subject: %s)", url, subject)
	return &NATSInvalidator{conn: conn, subject: subject, nodeID: nodeID}, nil
}

// PublishInvalidation отправляет уведомление об изменении раскладки.
func (n *NATSInvalidator) PublishInvalidation(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(InvalidationMessage{Name: name, Timestamp: time.Now().UTC(), NodeID: n.nodeID})
	if err != nil {
		atomic.AddInt64(&n.errorsCount, 1)
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		atomic.AddInt64(&n.errorsCount, 1)
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	atomic.AddInt64(&n.publishedCount, 1)
	return nil
}

// SubscribeInvalidations вызывает handler для чужих инвалидаций до отмены ctx.
func (n *NATSInvalidator) SubscribeInvalidations(ctx context.Context, handler func(name string)) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subscription != nil {
		return fmt.Errorf("already subscribed to invalidations")
	}

	sub, err := n.conn.Subscribe(n.subject, func(msg *nats.Msg) {
		atomic.AddInt64(&n.receivedCount, 1)
		var m InvalidationMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			atomic.AddInt64(&n.errorsCount, 1)
			logging.Error("Failed to unmarshal invalidation message: %v", err)
			return
		}
		// Свои изменения уже применены локально
		if m.NodeID == n.nodeID {
			return
		}
		handler(m.Name)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to invalidations: %w", err)
	}
	n.subscription = sub

	go func() {
		<-ctx.Done()
		n.unsubscribe()
	}()
	return nil
}

// Close закрывает соединение с NATS.
func (n *NATSInvalidator) Close() error {
	n.unsubscribe()
	n.conn.Close()
	return nil
}

// GetMetrics возвращает счётчики invalidator.
func (n *NATSInvalidator) GetMetrics() map[string]interface{} {
	return map[string]interface{}{
		"published_count": atomic.LoadInt64(&n.publishedCount),
		"received_count":  atomic.LoadInt64(&n.receivedCount),
		"errors_count":    atomic.LoadInt64(&n.errorsCount),
		"connected":       n.conn.IsConnected(),
	}
}

func (n *NATSInvalidator) unsubscribe() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subscription != nil {
		_ = n.subscription.Unsubscribe()
		n.subscription = nil
	}
}
