// Package messaging carries the depot's two kafka flows: RFQ intake in,
// finance postings out. The wire envelope and both topics are owned here
// so the rest of the system deals in typed payloads.
package messaging

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"fleetcore/config"
)

// RFQHandler receives each decoded intake request.
type RFQHandler func(*RFQRequest)

type Client struct {
	mu        sync.RWMutex
	cfg       *config.MessagingConfig
	writer    *kafka.Writer
	reader    *kafka.Reader
	rfqFn     RFQHandler
	connected bool
	closing   bool
}

func NewClient(cfg *config.MessagingConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect verifies a broker is reachable, ensures both topics exist and
// binds the finance writer. The intake reader starts with ListenRFQs.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	conn, err := c.dialAny()
	if err != nil {
		return fmt.Errorf("kafka connect: %w", err)
	}
	if err := c.createTopics(conn); err != nil {
		conn.Close()
		return fmt.Errorf("kafka topics: %w", err)
	}
	conn.Close()

	c.writer = &kafka.Writer{
		Addr:         kafka.TCP(c.cfg.Kafka.Brokers...),
		Topic:        c.cfg.FinanceTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	c.connected = true
	return nil
}

func (c *Client) dialAny() (*kafka.Conn, error) {
	var lastErr error
	for _, broker := range c.cfg.Kafka.Brokers {
		conn, err := kafka.DialContext(context.Background(), "tcp", broker)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no brokers configured")
	}
	return nil, lastErr
}

func (c *Client) createTopics(conn *kafka.Conn) error {
	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	ctrl, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	return ctrl.CreateTopics(
		kafka.TopicConfig{Topic: c.cfg.IntakeTopic, NumPartitions: 1, ReplicationFactor: 1},
		kafka.TopicConfig{Topic: c.cfg.FinanceTopic, NumPartitions: 1, ReplicationFactor: 1},
	)
}

// PublishFinancePosting writes one posting frame to the finance topic.
// The outbox drainer is the only caller, so delivery retries live there.
func (c *Client) PublishFinancePosting(payload []byte) error {
	c.mu.RLock()
	w := c.writer
	c.mu.RUnlock()
	if w == nil {
		return fmt.Errorf("kafka not connected")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return w.WriteMessages(ctx, kafka.Message{Value: payload})
}

// ListenRFQs starts consuming the intake topic, decoding each frame and
// handing it to fn. Malformed frames are logged and dropped. The handler
// survives Reconfigure.
func (c *Client) ListenRFQs(fn RFQHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return fmt.Errorf("kafka not connected")
	}
	c.rfqFn = fn
	c.startReaderLocked()
	return nil
}

func (c *Client) startReaderLocked() {
	c.closing = false
	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.cfg.Kafka.Brokers,
		GroupID: c.cfg.Kafka.GroupID,
		Topic:   c.cfg.IntakeTopic,
	})
	go c.consume(c.reader)
}

func (c *Client) consume(r *kafka.Reader) {
	for {
		msg, err := r.ReadMessage(context.Background())
		if err != nil {
			c.mu.RLock()
			closing := c.closing
			c.mu.RUnlock()
			if !closing {
				log.Printf("messaging: intake read: %v", err)
			}
			return
		}
		req, err := DecodeRFQ(msg.Value)
		if err != nil {
			log.Printf("messaging: dropping frame: %v", err)
			continue
		}
		c.mu.RLock()
		fn := c.rfqFn
		c.mu.RUnlock()
		if fn != nil {
			fn(req)
		}
	}
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Reconfigure tears the connection down and rebuilds it against cfg. A
// registered RFQ handler is re-armed on the new reader.
func (c *Client) Reconfigure(cfg *config.MessagingConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
	c.cfg = cfg
	if err := c.connectLocked(); err != nil {
		return err
	}
	if c.rfqFn != nil {
		c.startReaderLocked()
	}
	return nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	c.closing = true
	if c.reader != nil {
		c.reader.Close()
		c.reader = nil
	}
	if c.writer != nil {
		c.writer.Close()
		c.writer = nil
	}
	c.connected = false
}
