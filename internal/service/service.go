package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/events"
)

// GraphStore is the port-distance graph collaborator. An absent edge or nil
// path signals an unknown or unreachable port and surfaces as a routing
// failure, never a crash.
type GraphStore interface {
	EdgeWeight(ctx context.Context, from, to string) (float64, bool, error)
	ShortestPath(ctx context.Context, from, to string) (*domain.Path, error)
}

type Store interface {
	BeginTx(ctx context.Context) (Tx, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	GetDelivery(ctx context.Context, id string) (*domain.Delivery, error)
	ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]*domain.Delivery, error)
	GetSeaplane(ctx context.Context, name string) (*domain.Seaplane, error)
	ListSeaplanes(ctx context.Context) ([]*domain.Seaplane, error)
	GetModelBySeaplane(ctx context.Context, seaplaneName string) (*domain.SeaplaneModel, error)
	GetPort(ctx context.Context, name string) (*domain.Port, error)
	ListPorts(ctx context.Context) ([]*domain.Port, error)
	GetLocker(ctx context.Context, id string) (*domain.Locker, error)
	GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error)
}

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	GetOrderForUpdate(ctx context.Context, id string) (*domain.Order, error)
	GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error)
	GetSeaplaneForUpdate(ctx context.Context, name string) (*domain.Seaplane, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateDelivery(ctx context.Context, delivery *domain.Delivery) error
	UpdateOrder(ctx context.Context, order *domain.Order) error
	UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error
	UpdateSeaplane(ctx context.Context, seaplane *domain.Seaplane) error
	EnqueueEvent(ctx context.Context, event events.Event) error
}

type OrderFilter struct {
	Status      *domain.OrderStatus
	WarehouseID *string
	ClientID    *string
	Limit       int
	Offset      int
}

type DeliveryFilter struct {
	Status       *domain.DeliveryStatus
	SeaplaneName *string
}

type Service struct {
	store Store
	graph GraphStore
	now   func() time.Time
}

func New(store Store, graph GraphStore) *Service {
	return &Service{store: store, graph: graph, now: func() time.Time { return time.Now().UTC() }}
}

// CreateOrder registers a pending order bound for a locker.
func (s *Service) CreateOrder(ctx context.Context, clientID, warehouseID, lockerID string, crateQuantity int) (*domain.Order, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client id is required: %w", domain.ErrValidation)
	}
	if crateQuantity < 1 {
		return nil, fmt.Errorf("crate quantity must be at least 1: %w", domain.ErrValidation)
	}
	if _, err := s.store.GetWarehouse(ctx, warehouseID); err != nil {
		return nil, fmt.Errorf("warehouse %s: %w", warehouseID, err)
	}
	if _, err := s.store.GetLocker(ctx, lockerID); err != nil {
		return nil, fmt.Errorf("locker %s: %w", lockerID, err)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := s.now()
	order := &domain.Order{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		WarehouseID:   warehouseID,
		LockerID:      lockerID,
		CrateQuantity: crateQuantity,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := tx.EnqueueEvent(ctx, events.NewOrderEvent(events.EventOrderCreated, order, now)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels an order that has not shipped yet.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := tx.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if domain.IsTerminalOrder(order.Status) || order.Status == domain.OrderStatusShipped {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, domain.ErrInvalidState)
	}
	now := s.now()
	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = now
	if err := tx.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := tx.EnqueueEvent(ctx, events.NewOrderEvent(events.EventOrderCancelled, order, now)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// CreateDelivery binds pending orders that share one warehouse into a new
// delivery, plans the multi-stop route once, and marks the orders processing.
// The assigned seaplane must already be docked at the warehouse port.
func (s *Service) CreateDelivery(ctx context.Context, orderIDs []string, seaplaneName string) (*domain.Delivery, error) {
	if len(orderIDs) == 0 {
		return nil, fmt.Errorf("no orders provided: %w", domain.ErrValidation)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		warehouseID  string
		originPort   string
		orders       []*domain.Order
		destinations []string
	)
	for _, orderID := range orderIDs {
		order, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", orderID, err)
		}
		if order.Status != domain.OrderStatusPending {
			return nil, fmt.Errorf("order %s is %s, not pending: %w", orderID, order.Status, domain.ErrInvalidState)
		}
		if warehouseID == "" {
			warehouseID = order.WarehouseID
			warehouse, err := s.store.GetWarehouse(ctx, warehouseID)
			if err != nil {
				return nil, fmt.Errorf("warehouse %s: %w", warehouseID, err)
			}
			if warehouse.Port == "" {
				return nil, fmt.Errorf("warehouse %s has no port: %w", warehouseID, domain.ErrNotFound)
			}
			originPort = warehouse.Port
		} else if order.WarehouseID != warehouseID {
			return nil, fmt.Errorf("all orders must share one warehouse: %w", domain.ErrValidation)
		}
		locker, err := s.store.GetLocker(ctx, order.LockerID)
		if err != nil {
			return nil, fmt.Errorf("locker %s: %w", order.LockerID, err)
		}
		if locker.Port == "" {
			return nil, fmt.Errorf("locker %s has no port: %w", order.LockerID, domain.ErrNotFound)
		}
		destinations = append(destinations, locker.Port)
		orders = append(orders, order)
	}

	seaplane, err := tx.GetSeaplaneForUpdate(ctx, seaplaneName)
	if err != nil {
		return nil, fmt.Errorf("seaplane %s: %w", seaplaneName, err)
	}
	if seaplane.Status != domain.SeaplaneStatusDocked || seaplane.DockedPort == nil || *seaplane.DockedPort != originPort {
		return nil, fmt.Errorf("seaplane %s is not docked at %s: %w", seaplaneName, originPort, domain.ErrInvalidState)
	}

	plan, err := PlanRoute(ctx, s.graph, originPort, destinations)
	if err != nil {
		return nil, err
	}

	now := s.now()
	delivery := &domain.Delivery{
		ID:              uuid.NewString(),
		OrderIDs:        append([]string(nil), orderIDs...),
		SeaplaneName:    seaplaneName,
		Route:           plan.Route,
		TotalDistanceKm: plan.TotalDistanceKm,
		Status:          domain.DeliveryStatusPending,
		CreatedAt:       now,
	}
	if err := tx.CreateDelivery(ctx, delivery); err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Status = domain.OrderStatusProcessing
		order.UpdatedAt = now
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return nil, err
		}
	}
	if err := tx.EnqueueEvent(ctx, events.NewDeliveryEvent(events.EventDeliveryCreated, delivery, now)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return delivery, nil
}

// StartDelivery begins the journey. Progress is derived from elapsed time
// from here on; nothing is scheduled.
func (s *Service) StartDelivery(ctx context.Context, deliveryID string) (*domain.Delivery, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	delivery, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status != domain.DeliveryStatusPending {
		return nil, fmt.Errorf("delivery %s is %s, not pending: %w", deliveryID, delivery.Status, domain.ErrInvalidState)
	}
	if len(delivery.Route) < 2 {
		return nil, fmt.Errorf("delivery %s route has fewer than 2 stops: %w", deliveryID, domain.ErrValidation)
	}

	now := s.now()
	delivery.Status = domain.DeliveryStatusInProgress
	delivery.StartedAt = &now
	if err := tx.UpdateDelivery(ctx, delivery); err != nil {
		return nil, err
	}

	seaplane, err := tx.GetSeaplaneForUpdate(ctx, delivery.SeaplaneName)
	if err != nil {
		return nil, fmt.Errorf("seaplane %s: %w", delivery.SeaplaneName, err)
	}
	seaplane.BeginFlight(delivery.Route[0], delivery.Route[1], now)
	seaplane.UpdatedAt = now
	if err := tx.UpdateSeaplane(ctx, seaplane); err != nil {
		return nil, err
	}

	if err := tx.EnqueueEvent(ctx, events.NewDeliveryEvent(events.EventDeliveryStarted, delivery, now)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return delivery, nil
}

// CancelDelivery cancels a pending delivery and releases its orders back to
// pending. In-progress deliveries cannot be cancelled.
func (s *Service) CancelDelivery(ctx context.Context, deliveryID string) (*domain.Delivery, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	delivery, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if domain.IsTerminalDelivery(delivery.Status) || delivery.Status == domain.DeliveryStatusInProgress {
		return nil, fmt.Errorf("delivery %s is %s, not pending: %w", deliveryID, delivery.Status, domain.ErrInvalidState)
	}

	now := s.now()
	delivery.Status = domain.DeliveryStatusCancelled
	if err := tx.UpdateDelivery(ctx, delivery); err != nil {
		return nil, err
	}
	for _, orderID := range delivery.OrderIDs {
		order, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", orderID, err)
		}
		if order.Status == domain.OrderStatusProcessing {
			order.Status = domain.OrderStatusPending
			order.UpdatedAt = now
			if err := tx.UpdateOrder(ctx, order); err != nil {
				return nil, err
			}
		}
	}
	if err := tx.EnqueueEvent(ctx, events.NewDeliveryEvent(events.EventDeliveryCancelled, delivery, now)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return delivery, nil
}

// EnterMaintenance grounds a docked seaplane. Flying seaplanes must land
// first.
func (s *Service) EnterMaintenance(ctx context.Context, seaplaneName string) (*domain.Seaplane, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	seaplane, err := tx.GetSeaplaneForUpdate(ctx, seaplaneName)
	if err != nil {
		return nil, err
	}
	if seaplane.Status != domain.SeaplaneStatusDocked {
		return nil, fmt.Errorf("seaplane %s is %s, not docked: %w", seaplaneName, seaplane.Status, domain.ErrInvalidState)
	}
	now := s.now()
	seaplane.Status = domain.SeaplaneStatusMaintenance
	seaplane.UpdatedAt = now
	if err := tx.UpdateSeaplane(ctx, seaplane); err != nil {
		return nil, err
	}
	if err := tx.EnqueueEvent(ctx, events.NewSeaplaneEvent(events.EventSeaplaneMaintenance, seaplane, now)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return seaplane, nil
}

// ExitMaintenance returns a seaplane to docked at the port it was serviced
// at.
func (s *Service) ExitMaintenance(ctx context.Context, seaplaneName string) (*domain.Seaplane, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	seaplane, err := tx.GetSeaplaneForUpdate(ctx, seaplaneName)
	if err != nil {
		return nil, err
	}
	if seaplane.Status != domain.SeaplaneStatusMaintenance {
		return nil, fmt.Errorf("seaplane %s is %s, not in maintenance: %w", seaplaneName, seaplane.Status, domain.ErrInvalidState)
	}
	if seaplane.DockedPort == nil {
		return nil, fmt.Errorf("seaplane %s has no service port: %w", seaplaneName, domain.ErrInvalidState)
	}
	now := s.now()
	seaplane.DockAt(*seaplane.DockedPort)
	seaplane.UpdatedAt = now
	if err := tx.UpdateSeaplane(ctx, seaplane); err != nil {
		return nil, err
	}
	if err := tx.EnqueueEvent(ctx, events.NewSeaplaneEvent(events.EventSeaplaneDocked, seaplane, now)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return seaplane, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, error) {
	return s.store.ListOrders(ctx, filter)
}

func (s *Service) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	return s.store.GetDelivery(ctx, id)
}

func (s *Service) ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]*domain.Delivery, error) {
	return s.store.ListDeliveries(ctx, filter)
}

func (s *Service) GetSeaplane(ctx context.Context, name string) (*domain.Seaplane, error) {
	return s.store.GetSeaplane(ctx, name)
}

func (s *Service) ListSeaplanes(ctx context.Context) ([]*domain.Seaplane, error) {
	return s.store.ListSeaplanes(ctx)
}

func (s *Service) GetPort(ctx context.Context, name string) (*domain.Port, error) {
	return s.store.GetPort(ctx, name)
}

func (s *Service) ListPorts(ctx context.Context) ([]*domain.Port, error) {
	return s.store.ListPorts(ctx)
}

// PortPath exposes the graph collaborator's shortest path between two named
// ports.
func (s *Service) PortPath(ctx context.Context, from, to string) (*domain.Path, error) {
	path, err := s.graph.ShortestPath(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return nil, fmt.Errorf("no path from %s to %s: %w", from, to, domain.ErrRouting)
	}
	return path, nil
}
