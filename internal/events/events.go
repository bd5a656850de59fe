package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"seawing-logistics/internal/domain"
)

const (
	AggregateOrder    = "order"
	AggregateDelivery = "delivery"
	AggregateSeaplane = "seaplane"
)

const (
	EventOrderCreated        = "order.created"
	EventOrderCancelled      = "order.cancelled"
	EventOrderDelivered      = "order.delivered"
	EventDeliveryCreated     = "delivery.created"
	EventDeliveryStarted     = "delivery.started"
	EventDeliveryCompleted   = "delivery.completed"
	EventDeliveryCancelled   = "delivery.cancelled"
	EventSeaplaneMaintenance = "seaplane.maintenance"
	EventSeaplaneDocked      = "seaplane.docked"
)

type Event struct {
	ID            string
	Type          string
	AggregateType string
	AggregateID   string
	Payload       json.RawMessage
	OccurredAt    time.Time
}

func NewEvent(eventType, aggregateType, aggregateID string, payload any, occurredAt time.Time) Event {
	data, _ := json.Marshal(payload)
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       data,
		OccurredAt:    occurredAt,
	}
}

func NewOrderEvent(eventType string, order *domain.Order, occurredAt time.Time) Event {
	payload := map[string]any{
		"order_id":    order.ID,
		"status":      order.Status,
		"client_id":   order.ClientID,
		"locker_id":   order.LockerID,
		"occurred_at": occurredAt,
	}
	return NewEvent(eventType, AggregateOrder, order.ID, payload, occurredAt)
}

func NewDeliveryEvent(eventType string, delivery *domain.Delivery, occurredAt time.Time) Event {
	payload := map[string]any{
		"delivery_id":       delivery.ID,
		"status":            delivery.Status,
		"seaplane_name":     delivery.SeaplaneName,
		"order_ids":         delivery.OrderIDs,
		"route":             delivery.Route,
		"total_distance_km": delivery.TotalDistanceKm,
		"occurred_at":       occurredAt,
	}
	return NewEvent(eventType, AggregateDelivery, delivery.ID, payload, occurredAt)
}

func NewSeaplaneEvent(eventType string, seaplane *domain.Seaplane, occurredAt time.Time) Event {
	payload := map[string]any{
		"seaplane_name": seaplane.Name,
		"status":        seaplane.Status,
		"docked_port":   seaplane.DockedPort,
		"occurred_at":   occurredAt,
	}
	return NewEvent(eventType, AggregateSeaplane, seaplane.Name, payload, occurredAt)
}
