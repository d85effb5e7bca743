package messaging

import (
	"log"
	"time"

	"fleetcore/store"
)

// OutboxDrainer periodically publishes pending outbox rows. Failed sends
// stay pending with a bumped retry count and go again next tick.
type OutboxDrainer struct {
	db       *store.DB
	client   *Client
	interval time.Duration
	stopChan chan struct{}
}

func NewOutboxDrainer(db *store.DB, client *Client, interval time.Duration) *OutboxDrainer {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &OutboxDrainer{
		db:       db,
		client:   client,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (d *OutboxDrainer) Start() {
	go d.run()
}

func (d *OutboxDrainer) Stop() {
	select {
	case d.stopChan <- struct{}{}:
	default:
	}
}

func (d *OutboxDrainer) run() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.drain()
		}
	}
}

func (d *OutboxDrainer) drain() {
	msgs, err := d.db.PendingOutbox(50)
	if err != nil {
		log.Printf("outbox: list pending: %v", err)
		return
	}
	for _, msg := range msgs {
		if err := d.client.PublishFinancePosting(msg.Payload); err != nil {
			log.Printf("outbox: publish %s to %s failed: %v", msg.RefID, msg.Topic, err)
			if err := d.db.BumpOutboxRetries(msg.ID); err != nil {
				log.Printf("outbox: bump retries %d: %v", msg.ID, err)
			}
			continue
		}
		if err := d.db.MarkOutboxSent(msg.ID); err != nil {
			log.Printf("outbox: mark sent %d: %v", msg.ID, err)
		}
	}
}
