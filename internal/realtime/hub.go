// Package realtime fans order lifecycle events out to every connected staff
// dashboard over websockets, and replays the full order list whenever a
// subscription (re)starts.
package realtime

import (
	"context"
	"encoding/json"
	"log"

	"qrmenu/internal/models"
	"qrmenu/internal/monitoring"
	"qrmenu/internal/store"
)

// Event is a single frame pushed to dashboard clients.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// deletedOrder is the payload of an orderDeleted event.
type deletedOrder struct {
	OrderID int `json:"orderId"`
}

// Hub maintains the set of subscribed clients and serializes all fan-out
// through a single goroutine, so every client observes events in the order
// mutations were committed to the store. Delivery is fire-and-forget: a
// client whose buffer is full misses the event and recovers via the next
// snapshot.
type Hub struct {
	store   store.Store
	monitor *monitoring.Monitor

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	resync     chan *Client
	events     chan Event
	done       chan struct{}
}

// NewHub creates a hub that snapshots from the given store.
func NewHub(s store.Store, monitor *monitoring.Monitor) *Hub {
	return &Hub{
		store:      s,
		monitor:    monitor,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		resync:     make(chan *Client),
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
	}
}

// Run processes subscriptions and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.monitor.SubscriberConnected()
			h.sendSnapshot(ctx, c)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.monitor.SubscriberDisconnected()
			}

		case c := <-h.resync:
			// The client may have disconnected between requesting a resync
			// and the hub processing it.
			if _, ok := h.clients[c]; ok {
				h.sendSnapshot(ctx, c)
			}

		case ev := <-h.events:
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error marshaling %s event: %v", ev.Name, err)
				continue
			}
			for c := range h.clients {
				c.enqueue(data)
			}
			h.monitor.RecordBroadcast()

		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
				h.monitor.SubscriberDisconnected()
			}
			// Unblocks any pump still trying to register, deregister, or
			// resync after the hub has stopped.
			close(h.done)
			return
		}
	}
}

// sendSnapshot pushes the complete current order list to one client. This is
// the synchronization point that lets a reconnecting dashboard recover from
// any events it missed.
func (h *Hub) sendSnapshot(ctx context.Context, c *Client) {
	orders, err := h.store.FindAll(ctx, "")
	if err != nil {
		log.Printf("Error loading orders for snapshot: %v", err)
		return
	}
	data, err := json.Marshal(Event{Name: "loadOrders", Data: orders})
	if err != nil {
		log.Printf("Error marshaling snapshot: %v", err)
		return
	}
	c.enqueue(data)
}

// OrderCreated broadcasts a newOrder event.
func (h *Hub) OrderCreated(order models.Order) {
	h.events <- Event{Name: "newOrder", Data: order}
}

// OrderUpdated broadcasts an orderUpdated event.
func (h *Hub) OrderUpdated(order models.Order) {
	h.events <- Event{Name: "orderUpdated", Data: order}
}

// OrderDeleted broadcasts an orderDeleted event.
func (h *Hub) OrderDeleted(orderID int) {
	h.events <- Event{Name: "orderDeleted", Data: deletedOrder{OrderID: orderID}}
}
