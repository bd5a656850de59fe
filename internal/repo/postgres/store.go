package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/events"
	"seawing-logistics/internal/service"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) BeginTx(ctx context.Context) (service.Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx, orderSelectByIDSQL, id)
	return scanOrder(row)
}

func (s *Store) ListOrders(ctx context.Context, filter service.OrderFilter) ([]*domain.Order, error) {
	status := sql.NullString{}
	if filter.Status != nil {
		status = sql.NullString{String: string(*filter.Status), Valid: true}
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, orderListSQL, status, nullString(filter.WarehouseID), nullString(filter.ClientID), limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return orders, nil
}

func (s *Store) GetDelivery(ctx context.Context, id string) (*domain.Delivery, error) {
	row := s.pool.QueryRow(ctx, deliverySelectByIDSQL, id)
	return scanDelivery(row)
}

func (s *Store) ListDeliveries(ctx context.Context, filter service.DeliveryFilter) ([]*domain.Delivery, error) {
	status := sql.NullString{}
	if filter.Status != nil {
		status = sql.NullString{String: string(*filter.Status), Valid: true}
	}
	rows, err := s.pool.Query(ctx, deliveryListSQL, status, nullString(filter.SeaplaneName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*domain.Delivery
	for rows.Next() {
		delivery, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return deliveries, nil
}

func (s *Store) GetSeaplane(ctx context.Context, name string) (*domain.Seaplane, error) {
	row := s.pool.QueryRow(ctx, seaplaneSelectByNameSQL, name)
	return scanSeaplane(row)
}

func (s *Store) ListSeaplanes(ctx context.Context) ([]*domain.Seaplane, error) {
	rows, err := s.pool.Query(ctx, seaplaneListSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seaplanes []*domain.Seaplane
	for rows.Next() {
		seaplane, err := scanSeaplane(rows)
		if err != nil {
			return nil, err
		}
		seaplanes = append(seaplanes, seaplane)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return seaplanes, nil
}

func (s *Store) GetModelBySeaplane(ctx context.Context, seaplaneName string) (*domain.SeaplaneModel, error) {
	row := s.pool.QueryRow(ctx, modelBySeaplaneSQL, seaplaneName)
	model := &domain.SeaplaneModel{}
	err := row.Scan(
		&model.Name,
		&model.Manufacturer,
		&model.CrateCapacity,
		&model.FuelCapacityL,
		&model.FuelBurnLPerKm,
		&model.AverageSpeedKmh,
		&model.CostPerKm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return model, nil
}

func (s *Store) GetPort(ctx context.Context, name string) (*domain.Port, error) {
	row := s.pool.QueryRow(ctx, portSelectByNameSQL, name)
	return scanPort(row)
}

func (s *Store) ListPorts(ctx context.Context) ([]*domain.Port, error) {
	rows, err := s.pool.Query(ctx, portListSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ports []*domain.Port
	for rows.Next() {
		port, err := scanPort(rows)
		if err != nil {
			return nil, err
		}
		ports = append(ports, port)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return ports, nil
}

func (s *Store) GetLocker(ctx context.Context, id string) (*domain.Locker, error) {
	row := s.pool.QueryRow(ctx, lockerSelectByIDSQL, id)
	locker := &domain.Locker{}
	if err := row.Scan(&locker.ID, &locker.Name, &locker.Capacity, &locker.Port); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return locker, nil
}

func (s *Store) GetWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	row := s.pool.QueryRow(ctx, warehouseSelectByIDSQL, id)
	warehouse := &domain.Warehouse{}
	if err := row.Scan(&warehouse.ID, &warehouse.Name, &warehouse.Capacity, &warehouse.Port); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return warehouse, nil
}

type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *Tx) GetOrderForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	row := t.tx.QueryRow(ctx, orderSelectByIDForUpdateSQL, id)
	return scanOrder(row)
}

func (t *Tx) GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	row := t.tx.QueryRow(ctx, deliverySelectByIDForUpdateSQL, id)
	return scanDelivery(row)
}

func (t *Tx) GetSeaplaneForUpdate(ctx context.Context, name string) (*domain.Seaplane, error) {
	row := t.tx.QueryRow(ctx, seaplaneSelectByNameForUpdateSQL, name)
	return scanSeaplane(row)
}

func (t *Tx) CreateOrder(ctx context.Context, order *domain.Order) error {
	_, err := t.tx.Exec(ctx, orderInsertSQL,
		order.ID,
		order.ClientID,
		order.WarehouseID,
		order.LockerID,
		order.CrateQuantity,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
		nullTime(order.DeliveredAt),
	)
	return err
}

func (t *Tx) CreateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	_, err := t.tx.Exec(ctx, deliveryInsertSQL,
		delivery.ID,
		delivery.OrderIDs,
		delivery.SeaplaneName,
		delivery.Route,
		delivery.TotalDistanceKm,
		delivery.Status,
		delivery.CreatedAt,
		nullTime(delivery.StartedAt),
		nullTime(delivery.CompletedAt),
	)
	return err
}

func (t *Tx) UpdateOrder(ctx context.Context, order *domain.Order) error {
	_, err := t.tx.Exec(ctx, orderUpdateSQL,
		order.ClientID,
		order.WarehouseID,
		order.LockerID,
		order.CrateQuantity,
		order.Status,
		order.UpdatedAt,
		nullTime(order.DeliveredAt),
		order.ID,
	)
	return err
}

func (t *Tx) UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	_, err := t.tx.Exec(ctx, deliveryUpdateSQL,
		delivery.OrderIDs,
		delivery.SeaplaneName,
		delivery.Route,
		delivery.TotalDistanceKm,
		delivery.Status,
		nullTime(delivery.StartedAt),
		nullTime(delivery.CompletedAt),
		delivery.ID,
	)
	return err
}

func (t *Tx) UpdateSeaplane(ctx context.Context, seaplane *domain.Seaplane) error {
	_, err := t.tx.Exec(ctx, seaplaneUpdateSQL,
		seaplane.Model,
		seaplane.FuelLevel,
		seaplane.CrateCount,
		seaplane.Status,
		nullString(seaplane.DockedPort),
		flightDeparture(seaplane.Flight),
		flightDestination(seaplane.Flight),
		flightDepartedAt(seaplane.Flight),
		seaplane.UpdatedAt,
		seaplane.Name,
	)
	return err
}

func (t *Tx) EnqueueEvent(ctx context.Context, event events.Event) error {
	_, err := t.tx.Exec(ctx, outboxInsertSQL,
		event.ID,
		event.Type,
		event.AggregateType,
		event.AggregateID,
		event.Payload,
		event.OccurredAt,
	)
	return err
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var deliveredAt sql.NullTime
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.ClientID,
		&order.WarehouseID,
		&order.LockerID,
		&order.CrateQuantity,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&deliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
	if deliveredAt.Valid {
		utc := deliveredAt.Time.UTC()
		order.DeliveredAt = &utc
	}
	return order, nil
}

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var (
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)
	delivery := &domain.Delivery{}
	err := row.Scan(
		&delivery.ID,
		&delivery.OrderIDs,
		&delivery.SeaplaneName,
		&delivery.Route,
		&delivery.TotalDistanceKm,
		&delivery.Status,
		&delivery.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	delivery.CreatedAt = delivery.CreatedAt.UTC()
	if startedAt.Valid {
		utc := startedAt.Time.UTC()
		delivery.StartedAt = &utc
	}
	if completedAt.Valid {
		utc := completedAt.Time.UTC()
		delivery.CompletedAt = &utc
	}
	return delivery, nil
}

func scanSeaplane(row pgx.Row) (*domain.Seaplane, error) {
	var (
		dockedPort      sql.NullString
		departurePort   sql.NullString
		destinationPort sql.NullString
		departedAt      sql.NullTime
	)
	seaplane := &domain.Seaplane{}
	err := row.Scan(
		&seaplane.Name,
		&seaplane.Model,
		&seaplane.FuelLevel,
		&seaplane.CrateCount,
		&seaplane.Status,
		&dockedPort,
		&departurePort,
		&destinationPort,
		&departedAt,
		&seaplane.CreatedAt,
		&seaplane.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	seaplane.CreatedAt = seaplane.CreatedAt.UTC()
	seaplane.UpdatedAt = seaplane.UpdatedAt.UTC()
	if dockedPort.Valid {
		seaplane.DockedPort = &dockedPort.String
	}
	if departurePort.Valid && destinationPort.Valid && departedAt.Valid {
		seaplane.Flight = &domain.FlightLeg{
			DeparturePort:   departurePort.String,
			DestinationPort: destinationPort.String,
			DepartedAt:      departedAt.Time.UTC(),
		}
	}
	return seaplane, nil
}

func scanPort(row pgx.Row) (*domain.Port, error) {
	port := &domain.Port{}
	err := row.Scan(&port.Name, &port.Island, &port.Latitude, &port.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return port, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func flightDeparture(leg *domain.FlightLeg) sql.NullString {
	if leg == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: leg.DeparturePort, Valid: true}
}

func flightDestination(leg *domain.FlightLeg) sql.NullString {
	if leg == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: leg.DestinationPort, Valid: true}
}

func flightDepartedAt(leg *domain.FlightLeg) sql.NullTime {
	if leg == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: leg.DepartedAt, Valid: true}
}
