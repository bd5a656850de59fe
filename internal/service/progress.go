package service

import (
	"context"
	"errors"
	"fmt"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/events"
	"seawing-logistics/internal/geo"
)

// PortDwellHours is the fixed stop duration at every intermediate route
// port. The origin and the final port have no dwell.
const PortDwellHours = 1.0

type ProgressStatus string

const (
	ProgressPending   ProgressStatus = "pending"
	ProgressFlying    ProgressStatus = "flying"
	ProgressStopped   ProgressStatus = "stopped"
	ProgressCompleted ProgressStatus = "completed"
)

// ProgressSnapshot is the derived, read-only state of a delivery at query
// time. It is never persisted.
type ProgressSnapshot struct {
	Status            ProgressStatus
	CurrentLeg        int
	CurrentPort       *string
	NextPort          *string
	DeparturePort     *string
	Position          *domain.Position
	ProgressPercent   float64
	TimeAtPortMinutes *float64
	CanDepart         bool
}

// legState is the outcome of replaying the route timeline up to a given
// elapsed duration.
type legState struct {
	arrived         bool
	flying          bool
	stopped         bool
	leg             int
	fraction        float64
	timeAtPortHours float64
}

// walkRoute replays the journey from departure: travel each leg at the given
// speed, then dwell one hour at every intermediate port. legDistances[i] is
// the distance of route[i] -> route[i+1].
func walkRoute(legDistances []float64, speedKmh, elapsedHours float64) legState {
	accumulated := 0.0
	for i, distance := range legDistances {
		travel := distance / speedKmh
		if accumulated+travel > elapsedHours {
			return legState{
				flying:   true,
				leg:      i,
				fraction: (elapsedHours - accumulated) / travel,
			}
		}
		accumulated += travel

		if i < len(legDistances)-1 {
			if accumulated+PortDwellHours > elapsedHours {
				return legState{
					stopped:         true,
					leg:             i,
					timeAtPortHours: elapsedHours - accumulated,
				}
			}
			accumulated += PortDwellHours
		}
	}
	return legState{arrived: true}
}

// DeliveryProgress derives where the seaplane is right now from the
// persisted route, the start timestamp, and the clock. Nothing runs in the
// background: every call replays the journey from the start. Reaching the
// end of the route lazily commits the completion cascade.
//
// A delivery that is neither pending, in progress, nor completed (cancelled)
// has no progress: the result is nil with no error.
func (s *Service) DeliveryProgress(ctx context.Context, deliveryID string) (*ProgressSnapshot, error) {
	delivery, err := s.store.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	switch delivery.Status {
	case domain.DeliveryStatusPending:
		return pendingSnapshot(delivery.Route), nil
	case domain.DeliveryStatusCompleted:
		return completedSnapshot(delivery.Route), nil
	case domain.DeliveryStatusInProgress:
	default:
		return nil, nil
	}

	if delivery.StartedAt == nil {
		return nil, fmt.Errorf("delivery %s has no start time: %w", deliveryID, domain.ErrInvalidState)
	}

	model, err := s.store.GetModelBySeaplane(ctx, delivery.SeaplaneName)
	if err != nil {
		return nil, fmt.Errorf("model for seaplane %s: %w", delivery.SeaplaneName, err)
	}
	if model.AverageSpeedKmh <= 0 {
		return nil, fmt.Errorf("model %s has no usable speed: %w", model.Name, domain.ErrValidation)
	}

	route := delivery.Route
	legDistances := make([]float64, 0, len(route)-1)
	for i := 0; i < len(route)-1; i++ {
		weight, ok, err := s.graph.EdgeWeight(ctx, route[i], route[i+1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no edge from %s to %s: %w", route[i], route[i+1], domain.ErrRouting)
		}
		legDistances = append(legDistances, weight)
	}

	elapsedHours := s.now().Sub(delivery.StartedAt.UTC()).Hours()
	state := walkRoute(legDistances, model.AverageSpeedKmh, elapsedHours)

	switch {
	case state.flying:
		from := route[state.leg]
		to := route[state.leg+1]
		position, err := s.legPosition(ctx, from, to, state.fraction)
		if err != nil {
			return nil, err
		}
		return &ProgressSnapshot{
			Status:          ProgressFlying,
			CurrentLeg:      state.leg,
			NextPort:        &to,
			DeparturePort:   &from,
			Position:        position,
			ProgressPercent: round2(state.fraction * 100),
		}, nil

	case state.stopped:
		port := route[state.leg+1]
		var next *string
		if state.leg+2 < len(route) {
			next = &route[state.leg+2]
		}
		minutes := round1(state.timeAtPortHours * 60)
		return &ProgressSnapshot{
			Status:            ProgressStopped,
			CurrentLeg:        state.leg,
			CurrentPort:       &port,
			NextPort:          next,
			TimeAtPortMinutes: &minutes,
			CanDepart:         state.timeAtPortHours >= PortDwellHours,
		}, nil

	default:
		if err := s.commitCompletion(ctx, deliveryID); err != nil {
			return nil, err
		}
		return completedSnapshot(route), nil
	}
}

// legPosition interpolates along the great circle between two ports. A
// missing port record degrades to a nil position rather than failing the
// whole snapshot.
func (s *Service) legPosition(ctx context.Context, from, to string, fraction float64) (*domain.Position, error) {
	fromPort, err := s.store.GetPort(ctx, from)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	toPort, err := s.store.GetPort(ctx, to)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	lat, lon := geo.Interpolate(fromPort.Latitude, fromPort.Longitude, toPort.Latitude, toPort.Longitude, fraction)
	return &domain.Position{Latitude: round6(lat), Longitude: round6(lon)}, nil
}

// commitCompletion is the completion cascade: delivery to completed, bound
// orders to delivered, seaplane docked at the final port. It is idempotent
// per entity so a crashed or partial cascade heals on the next progress
// query.
func (s *Service) commitCompletion(ctx context.Context, deliveryID string) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	delivery, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
	if err != nil {
		return err
	}
	if delivery.Status != domain.DeliveryStatusInProgress && delivery.Status != domain.DeliveryStatusCompleted {
		return nil
	}

	now := s.now()
	if delivery.Status == domain.DeliveryStatusInProgress {
		delivery.Status = domain.DeliveryStatusCompleted
		delivery.CompletedAt = &now
		if err := tx.UpdateDelivery(ctx, delivery); err != nil {
			return err
		}
		if err := tx.EnqueueEvent(ctx, events.NewDeliveryEvent(events.EventDeliveryCompleted, delivery, now)); err != nil {
			return err
		}
	}

	for _, orderID := range delivery.OrderIDs {
		order, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return err
		}
		if order.Status == domain.OrderStatusDelivered {
			continue
		}
		order.Status = domain.OrderStatusDelivered
		order.DeliveredAt = &now
		order.UpdatedAt = now
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.EnqueueEvent(ctx, events.NewOrderEvent(events.EventOrderDelivered, order, now)); err != nil {
			return err
		}
	}

	finalPort := delivery.Route[len(delivery.Route)-1]
	seaplane, err := tx.GetSeaplaneForUpdate(ctx, delivery.SeaplaneName)
	if err != nil {
		return err
	}
	if seaplane.Status != domain.SeaplaneStatusDocked || seaplane.DockedPort == nil || *seaplane.DockedPort != finalPort {
		seaplane.DockAt(finalPort)
		seaplane.UpdatedAt = now
		if err := tx.UpdateSeaplane(ctx, seaplane); err != nil {
			return err
		}
		if err := tx.EnqueueEvent(ctx, events.NewSeaplaneEvent(events.EventSeaplaneDocked, seaplane, now)); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func pendingSnapshot(route []string) *ProgressSnapshot {
	snapshot := &ProgressSnapshot{
		Status:      ProgressPending,
		CurrentLeg:  0,
		CurrentPort: &route[0],
	}
	if len(route) > 1 {
		snapshot.NextPort = &route[1]
	}
	return snapshot
}

func completedSnapshot(route []string) *ProgressSnapshot {
	last := len(route) - 1
	return &ProgressSnapshot{
		Status:          ProgressCompleted,
		CurrentLeg:      last,
		CurrentPort:     &route[last],
		ProgressPercent: 100,
	}
}
