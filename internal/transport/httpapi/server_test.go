package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/events"
	"seawing-logistics/internal/service"
)

// stubStore backs the handler tests with a fixed single-port world.
type stubStore struct{}

type stubTx struct{}

var testPort = &domain.Port{Name: "Heron Cove", Island: "Alder Island", Latitude: 48.423, Longitude: -123.37}

func (stubStore) BeginTx(ctx context.Context) (service.Tx, error) { return stubTx{}, nil }

func (stubStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (stubStore) ListOrders(ctx context.Context, filter service.OrderFilter) ([]*domain.Order, error) {
	return nil, nil
}

func (stubStore) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	return nil, domain.ErrNotFound
}

func (stubStore) ListDeliveries(ctx context.Context, filter service.DeliveryFilter) ([]*domain.Delivery, error) {
	return nil, nil
}

func (stubStore) GetSeaplane(ctx context.Context, name string) (*domain.Seaplane, error) {
	return nil, domain.ErrNotFound
}

func (stubStore) ListSeaplanes(ctx context.Context) ([]*domain.Seaplane, error) { return nil, nil }

func (stubStore) GetModelBySeaplane(ctx context.Context, seaplaneName string) (*domain.SeaplaneModel, error) {
	return nil, domain.ErrNotFound
}

func (stubStore) GetPort(ctx context.Context, name string) (*domain.Port, error) {
	if name != testPort.Name {
		return nil, domain.ErrNotFound
	}
	return testPort, nil
}

func (stubStore) ListPorts(ctx context.Context) ([]*domain.Port, error) {
	return []*domain.Port{testPort}, nil
}

func (stubStore) GetLocker(ctx context.Context, id string) (*domain.Locker, error) {
	return nil, domain.ErrNotFound
}

func (stubStore) GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	return nil, domain.ErrNotFound
}

func (stubTx) Commit(ctx context.Context) error   { return nil }
func (stubTx) Rollback(ctx context.Context) error { return nil }

func (stubTx) GetOrderForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (stubTx) GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	return nil, domain.ErrNotFound
}

func (stubTx) GetSeaplaneForUpdate(ctx context.Context, name string) (*domain.Seaplane, error) {
	return nil, domain.ErrNotFound
}

func (stubTx) CreateOrder(ctx context.Context, order *domain.Order) error          { return nil }
func (stubTx) CreateDelivery(ctx context.Context, delivery *domain.Delivery) error { return nil }
func (stubTx) UpdateOrder(ctx context.Context, order *domain.Order) error          { return nil }
func (stubTx) UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error { return nil }
func (stubTx) UpdateSeaplane(ctx context.Context, seaplane *domain.Seaplane) error { return nil }
func (stubTx) EnqueueEvent(ctx context.Context, event events.Event) error          { return nil }

type stubGraph struct{}

func (stubGraph) EdgeWeight(ctx context.Context, from, to string) (float64, bool, error) {
	return 0, false, nil
}

func (stubGraph) ShortestPath(ctx context.Context, from, to string) (*domain.Path, error) {
	return nil, nil
}

func newTestHandler() http.Handler {
	return NewServer(service.New(stubStore{}, stubGraph{}))
}

func TestHealth(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/orders/ghost", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["code"] != "not_found" {
		t.Fatalf("expected not_found code, got %q", resp["code"])
	}
}

func TestCreateOrderBadJSON(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/orders/", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCreateDeliveryNoOrders(t *testing.T) {
	handler := newTestHandler()

	payload := map[string]any{"order_ids": []string{}, "seaplane_name": "SW-Albatross"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/deliveries/", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestListOrdersRejectsUnknownStatus(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/orders/?status=teleported", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status filter, got %d", rec.Code)
	}
}

func TestListDeliveriesRejectsUnknownStatus(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/deliveries/?status=paused", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status filter, got %d", rec.Code)
	}
}

func TestListSeaplanesRejectsUnknownStatus(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/seaplanes/?status=sunk", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status filter, got %d", rec.Code)
	}
}

func TestListPorts(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/ports/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0]["name"] != "Heron Cove" {
		t.Fatalf("unexpected ports payload: %+v", resp)
	}
}

func TestPortPathUnreachable(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/ports/Heron%20Cove/path/Nowhere", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
