package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/events"
)

// memStore mirrors the Store/Tx contract in memory. Reference data (ports,
// lockers, warehouses, models) is immutable in tests and read without the
// transaction lock, since the service resolves it while a tx is open.
type memStore struct {
	mu         sync.Mutex
	orders     map[string]*domain.Order
	deliveries map[string]*domain.Delivery
	seaplanes  map[string]*domain.Seaplane
	models     map[string]*domain.SeaplaneModel
	ports      map[string]*domain.Port
	lockers    map[string]*domain.Locker
	warehouses map[string]*domain.Warehouse
	events     []events.Event
}

type memTx struct {
	store  *memStore
	closed bool
}

func newMemStore() *memStore {
	return &memStore{
		orders:     make(map[string]*domain.Order),
		deliveries: make(map[string]*domain.Delivery),
		seaplanes:  make(map[string]*domain.Seaplane),
		models:     make(map[string]*domain.SeaplaneModel),
		ports:      make(map[string]*domain.Port),
		lockers:    make(map[string]*domain.Locker),
		warehouses: make(map[string]*domain.Warehouse),
	}
}

func (m *memStore) BeginTx(ctx context.Context) (Tx, error) {
	m.mu.Lock()
	return &memTx{store: m}, nil
}

func (m *memStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *order
	return &copy, nil
}

func (m *memStore) ListOrders(ctx context.Context, filter OrderFilter) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []*domain.Order
	for _, order := range m.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.WarehouseID != nil && order.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.ClientID != nil && order.ClientID != *filter.ClientID {
			continue
		}
		copy := *order
		orders = append(orders, &copy)
	}
	return orders, nil
}

func (m *memStore) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delivery, ok := m.deliveries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *delivery
	return &copy, nil
}

func (m *memStore) ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]*domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deliveries []*domain.Delivery
	for _, delivery := range m.deliveries {
		if filter.Status != nil && delivery.Status != *filter.Status {
			continue
		}
		if filter.SeaplaneName != nil && delivery.SeaplaneName != *filter.SeaplaneName {
			continue
		}
		copy := *delivery
		deliveries = append(deliveries, &copy)
	}
	return deliveries, nil
}

func (m *memStore) GetSeaplane(ctx context.Context, name string) (*domain.Seaplane, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seaplane, ok := m.seaplanes[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *seaplane
	return &copy, nil
}

func (m *memStore) ListSeaplanes(ctx context.Context) ([]*domain.Seaplane, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var seaplanes []*domain.Seaplane
	for _, seaplane := range m.seaplanes {
		copy := *seaplane
		seaplanes = append(seaplanes, &copy)
	}
	return seaplanes, nil
}

func (m *memStore) GetModelBySeaplane(ctx context.Context, seaplaneName string) (*domain.SeaplaneModel, error) {
	seaplane, ok := m.seaplanes[seaplaneName]
	if !ok {
		return nil, domain.ErrNotFound
	}
	model, ok := m.models[seaplane.Model]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *model
	return &copy, nil
}

func (m *memStore) GetPort(ctx context.Context, name string) (*domain.Port, error) {
	port, ok := m.ports[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *port
	return &copy, nil
}

func (m *memStore) ListPorts(ctx context.Context) ([]*domain.Port, error) {
	var ports []*domain.Port
	for _, port := range m.ports {
		copy := *port
		ports = append(ports, &copy)
	}
	return ports, nil
}

func (m *memStore) GetLocker(ctx context.Context, id string) (*domain.Locker, error) {
	locker, ok := m.lockers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *locker
	return &copy, nil
}

func (m *memStore) GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	warehouse, ok := m.warehouses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *warehouse
	return &copy, nil
}

func (t *memTx) Commit(ctx context.Context) error {
	return t.close()
}

func (t *memTx) Rollback(ctx context.Context) error {
	return t.close()
}

func (t *memTx) close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) GetOrderForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	order, ok := t.store.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *order
	return &copy, nil
}

func (t *memTx) GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	delivery, ok := t.store.deliveries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *delivery
	return &copy, nil
}

func (t *memTx) GetSeaplaneForUpdate(ctx context.Context, name string) (*domain.Seaplane, error) {
	seaplane, ok := t.store.seaplanes[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *seaplane
	return &copy, nil
}

func (t *memTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	if _, ok := t.store.orders[order.ID]; ok {
		return domain.ErrConflict
	}
	copy := *order
	t.store.orders[order.ID] = &copy
	return nil
}

func (t *memTx) CreateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	if _, ok := t.store.deliveries[delivery.ID]; ok {
		return domain.ErrConflict
	}
	copy := *delivery
	t.store.deliveries[delivery.ID] = &copy
	return nil
}

func (t *memTx) UpdateOrder(ctx context.Context, order *domain.Order) error {
	copy := *order
	t.store.orders[order.ID] = &copy
	return nil
}

func (t *memTx) UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	copy := *delivery
	t.store.deliveries[delivery.ID] = &copy
	return nil
}

func (t *memTx) UpdateSeaplane(ctx context.Context, seaplane *domain.Seaplane) error {
	copy := *seaplane
	t.store.seaplanes[seaplane.Name] = &copy
	return nil
}

func (t *memTx) EnqueueEvent(ctx context.Context, event events.Event) error {
	t.store.events = append(t.store.events, event)
	return nil
}

// fakeGraph is a map-backed graph collaborator with symmetric edges and
// direct two-stop shortest paths.
type fakeGraph struct {
	weights map[string]float64
	paths   map[string]*domain.Path
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{weights: make(map[string]float64), paths: make(map[string]*domain.Path)}
}

func (g *fakeGraph) edge(a, b string, km float64) *fakeGraph {
	g.weights[a+"|"+b] = km
	g.weights[b+"|"+a] = km
	return g
}

func (g *fakeGraph) path(a, b string, km float64, ports ...string) *fakeGraph {
	g.paths[a+"|"+b] = &domain.Path{Ports: ports, TotalDistanceKm: km}
	return g
}

func (g *fakeGraph) EdgeWeight(ctx context.Context, from, to string) (float64, bool, error) {
	if from == to {
		return 0, true, nil
	}
	w, ok := g.weights[from+"|"+to]
	return w, ok, nil
}

func (g *fakeGraph) ShortestPath(ctx context.Context, from, to string) (*domain.Path, error) {
	if p, ok := g.paths[from+"|"+to]; ok {
		return p, nil
	}
	if w, ok := g.weights[from+"|"+to]; ok {
		return &domain.Path{Ports: []string{from, to}, TotalDistanceKm: w}, nil
	}
	return nil, nil
}

// seedArchipelago wires a small three-port world: a warehouse at port A,
// lockers at ports B and C, and one docked seaplane.
func seedArchipelago(store *memStore) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	store.ports["A"] = &domain.Port{Name: "A", Island: "Alder", Latitude: 48.0, Longitude: -123.0}
	store.ports["B"] = &domain.Port{Name: "B", Island: "Birch", Latitude: 48.9, Longitude: -123.0}
	store.ports["C"] = &domain.Port{Name: "C", Island: "Cedar", Latitude: 49.35, Longitude: -123.0}
	store.warehouses["wh-1"] = &domain.Warehouse{ID: "wh-1", Name: "Alder Depot", Capacity: 500, Port: "A"}
	store.lockers["lk-b"] = &domain.Locker{ID: "lk-b", Name: "Birch Locker", Capacity: 40, Port: "B"}
	store.lockers["lk-c"] = &domain.Locker{ID: "lk-c", Name: "Cedar Locker", Capacity: 40, Port: "C"}
	store.models["Otter 300"] = &domain.SeaplaneModel{
		Name:            "Otter 300",
		Manufacturer:    "Pelagic Air Works",
		CrateCapacity:   12,
		FuelCapacityL:   800,
		FuelBurnLPerKm:  1.6,
		AverageSpeedKmh: 100,
		CostPerKm:       3.5,
	}
	dock := "A"
	store.seaplanes["SW-Albatross"] = &domain.Seaplane{
		Name:       "SW-Albatross",
		Model:      "Otter 300",
		FuelLevel:  800,
		Status:     domain.SeaplaneStatusDocked,
		DockedPort: &dock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func seedOrder(store *memStore, id, warehouseID, lockerID string, status domain.OrderStatus) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.orders[id] = &domain.Order{
		ID:            id,
		ClientID:      "client-1",
		WarehouseID:   warehouseID,
		LockerID:      lockerID,
		CrateQuantity: 2,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func archipelagoGraph() *fakeGraph {
	return newFakeGraph().edge("A", "B", 100).edge("B", "C", 50).edge("A", "C", 150)
}

func TestCreateDeliveryEmptyOrders(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	svc := New(store, archipelagoGraph())

	_, err := svc.CreateDelivery(context.Background(), nil, "SW-Albatross")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDeliveryOrderNotPending(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	seedOrder(store, "o1", "wh-1", "lk-b", domain.OrderStatusProcessing)
	svc := New(store, archipelagoGraph())

	_, err := svc.CreateDelivery(context.Background(), []string{"o1"}, "SW-Albatross")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestCreateDeliveryOrderMissing(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	svc := New(store, archipelagoGraph())

	_, err := svc.CreateDelivery(context.Background(), []string{"ghost"}, "SW-Albatross")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateDeliveryMixedWarehouses(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	store.warehouses["wh-2"] = &domain.Warehouse{ID: "wh-2", Name: "Birch Depot", Capacity: 200, Port: "B"}
	seedOrder(store, "o1", "wh-1", "lk-b", domain.OrderStatusPending)
	seedOrder(store, "o2", "wh-2", "lk-c", domain.OrderStatusPending)
	svc := New(store, archipelagoGraph())

	_, err := svc.CreateDelivery(context.Background(), []string{"o1", "o2"}, "SW-Albatross")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDeliverySeaplaneNotAtWarehousePort(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	seedOrder(store, "o1", "wh-1", "lk-b", domain.OrderStatusPending)
	elsewhere := "B"
	store.seaplanes["SW-Albatross"].DockedPort = &elsewhere
	svc := New(store, archipelagoGraph())

	_, err := svc.CreateDelivery(context.Background(), []string{"o1"}, "SW-Albatross")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestCreateDeliveryPlansRouteAndMarksOrders(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	seedOrder(store, "o1", "wh-1", "lk-b", domain.OrderStatusPending)
	seedOrder(store, "o2", "wh-1", "lk-c", domain.OrderStatusPending)
	svc := New(store, archipelagoGraph())

	delivery, err := svc.CreateDelivery(context.Background(), []string{"o1", "o2"}, "SW-Albatross")
	if err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	if delivery.Status != domain.DeliveryStatusPending {
		t.Fatalf("expected pending delivery, got %s", delivery.Status)
	}
	if delivery.Route[0] != "A" || delivery.Route[len(delivery.Route)-1] != "A" {
		t.Fatalf("route must start and end at origin, got %v", delivery.Route)
	}
	// C is the farthest destination (150 km direct), so the tour is A-C-A.
	if delivery.TotalDistanceKm != 300 {
		t.Fatalf("total distance %f, want 300", delivery.TotalDistanceKm)
	}
	for _, id := range []string{"o1", "o2"} {
		order, _ := store.GetOrder(context.Background(), id)
		if order.Status != domain.OrderStatusProcessing {
			t.Fatalf("order %s should be processing, got %s", id, order.Status)
		}
	}
}

func TestStartDeliveryNotPending(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	store.deliveries["d1"] = &domain.Delivery{
		ID:           "d1",
		SeaplaneName: "SW-Albatross",
		Route:        []string{"A", "B", "A"},
		Status:       domain.DeliveryStatusCompleted,
	}
	svc := New(store, archipelagoGraph())

	_, err := svc.StartDelivery(context.Background(), "d1")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestStartDeliveryShortRoute(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	store.deliveries["d1"] = &domain.Delivery{
		ID:           "d1",
		SeaplaneName: "SW-Albatross",
		Route:        []string{"A"},
		Status:       domain.DeliveryStatusPending,
	}
	svc := New(store, archipelagoGraph())

	_, err := svc.StartDelivery(context.Background(), "d1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStartDeliverySetsFlight(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	store.deliveries["d1"] = &domain.Delivery{
		ID:           "d1",
		OrderIDs:     []string{"o1"},
		SeaplaneName: "SW-Albatross",
		Route:        []string{"A", "B", "A"},
		Status:       domain.DeliveryStatusPending,
	}
	svc := New(store, archipelagoGraph())
	startedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return startedAt }

	delivery, err := svc.StartDelivery(context.Background(), "d1")
	if err != nil {
		t.Fatalf("start delivery: %v", err)
	}
	if delivery.Status != domain.DeliveryStatusInProgress {
		t.Fatalf("expected in_progress, got %s", delivery.Status)
	}
	if delivery.StartedAt == nil || !delivery.StartedAt.Equal(startedAt) {
		t.Fatalf("expected started at %v, got %v", startedAt, delivery.StartedAt)
	}
	seaplane, _ := store.GetSeaplane(context.Background(), "SW-Albatross")
	if seaplane.Status != domain.SeaplaneStatusFlying {
		t.Fatalf("expected flying seaplane, got %s", seaplane.Status)
	}
	if seaplane.DockedPort != nil {
		t.Fatalf("flying seaplane must not keep a docked port")
	}
	if seaplane.Flight == nil || seaplane.Flight.DeparturePort != "A" || seaplane.Flight.DestinationPort != "B" {
		t.Fatalf("unexpected flight leg %+v", seaplane.Flight)
	}
}

func TestCancelDeliveryReleasesOrders(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	seedOrder(store, "o1", "wh-1", "lk-b", domain.OrderStatusProcessing)
	store.deliveries["d1"] = &domain.Delivery{
		ID:           "d1",
		OrderIDs:     []string{"o1"},
		SeaplaneName: "SW-Albatross",
		Route:        []string{"A", "B", "A"},
		Status:       domain.DeliveryStatusPending,
	}
	svc := New(store, archipelagoGraph())

	delivery, err := svc.CancelDelivery(context.Background(), "d1")
	if err != nil {
		t.Fatalf("cancel delivery: %v", err)
	}
	if delivery.Status != domain.DeliveryStatusCancelled {
		t.Fatalf("expected cancelled, got %s", delivery.Status)
	}
	order, _ := store.GetOrder(context.Background(), "o1")
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected order released to pending, got %s", order.Status)
	}
}

func TestCancelDeliveryNotPending(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	svc := New(store, archipelagoGraph())

	for _, status := range []domain.DeliveryStatus{
		domain.DeliveryStatusInProgress,
		domain.DeliveryStatusCompleted,
		domain.DeliveryStatusCancelled,
	} {
		store.deliveries["d1"] = &domain.Delivery{
			ID:           "d1",
			SeaplaneName: "SW-Albatross",
			Route:        []string{"A", "B", "A"},
			Status:       status,
		}
		if _, err := svc.CancelDelivery(context.Background(), "d1"); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected invalid state for %s delivery, got %v", status, err)
		}
	}
}

func TestCreateOrderValidation(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	svc := New(store, archipelagoGraph())

	if _, err := svc.CreateOrder(context.Background(), "client-1", "wh-1", "lk-b", 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for zero crates, got %v", err)
	}
	if _, err := svc.CreateOrder(context.Background(), "client-1", "wh-x", "lk-b", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown warehouse, got %v", err)
	}

	order, err := svc.CreateOrder(context.Background(), "client-1", "wh-1", "lk-b", 3)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
}

func TestCancelOrderStates(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	seedOrder(store, "o1", "wh-1", "lk-b", domain.OrderStatusDelivered)
	svc := New(store, archipelagoGraph())

	if _, err := svc.CancelOrder(context.Background(), "o1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for delivered order, got %v", err)
	}

	seedOrder(store, "o-shipped", "wh-1", "lk-b", domain.OrderStatusShipped)
	if _, err := svc.CancelOrder(context.Background(), "o-shipped"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for shipped order, got %v", err)
	}

	seedOrder(store, "o2", "wh-1", "lk-b", domain.OrderStatusPending)
	order, err := svc.CancelOrder(context.Background(), "o2")
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if order.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", order.Status)
	}
}

func TestMaintenanceTransitions(t *testing.T) {
	store := newMemStore()
	seedArchipelago(store)
	svc := New(store, archipelagoGraph())
	ctx := context.Background()

	seaplane, err := svc.EnterMaintenance(ctx, "SW-Albatross")
	if err != nil {
		t.Fatalf("enter maintenance: %v", err)
	}
	if seaplane.Status != domain.SeaplaneStatusMaintenance {
		t.Fatalf("expected maintenance, got %s", seaplane.Status)
	}

	if _, err := svc.EnterMaintenance(ctx, "SW-Albatross"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state on double enter, got %v", err)
	}

	seaplane, err = svc.ExitMaintenance(ctx, "SW-Albatross")
	if err != nil {
		t.Fatalf("exit maintenance: %v", err)
	}
	if seaplane.Status != domain.SeaplaneStatusDocked || seaplane.DockedPort == nil || *seaplane.DockedPort != "A" {
		t.Fatalf("expected docked at A, got %+v", seaplane)
	}
}
