package postgres

const orderSelectByIDSQL = `
SELECT id, client_id, warehouse_id, locker_id, crate_quantity, status,
       created_at, updated_at, delivered_at
FROM orders
WHERE id = $1
`

const orderSelectByIDForUpdateSQL = orderSelectByIDSQL + " FOR UPDATE"

const orderListSQL = `
SELECT id, client_id, warehouse_id, locker_id, crate_quantity, status,
       created_at, updated_at, delivered_at
FROM orders
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::text IS NULL OR warehouse_id = $2)
  AND ($3::text IS NULL OR client_id = $3)
ORDER BY created_at
LIMIT $4 OFFSET $5
`

const orderInsertSQL = `
INSERT INTO orders (
  id, client_id, warehouse_id, locker_id, crate_quantity, status,
  created_at, updated_at, delivered_at
) VALUES (
  $1,$2,$3,$4,$5,$6,
  $7,$8,$9
)
`

const orderUpdateSQL = `
UPDATE orders SET
  client_id = $1,
  warehouse_id = $2,
  locker_id = $3,
  crate_quantity = $4,
  status = $5,
  updated_at = $6,
  delivered_at = $7
WHERE id = $8
`

const deliverySelectByIDSQL = `
SELECT id, order_ids, seaplane_name, route, total_distance_km, status,
       created_at, started_at, completed_at
FROM deliveries
WHERE id = $1
`

const deliverySelectByIDForUpdateSQL = deliverySelectByIDSQL + " FOR UPDATE"

const deliveryListSQL = `
SELECT id, order_ids, seaplane_name, route, total_distance_km, status,
       created_at, started_at, completed_at
FROM deliveries
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::text IS NULL OR seaplane_name = $2)
ORDER BY created_at
`

const deliveryInsertSQL = `
INSERT INTO deliveries (
  id, order_ids, seaplane_name, route, total_distance_km, status,
  created_at, started_at, completed_at
) VALUES (
  $1,$2,$3,$4,$5,$6,
  $7,$8,$9
)
`

const deliveryUpdateSQL = `
UPDATE deliveries SET
  order_ids = $1,
  seaplane_name = $2,
  route = $3,
  total_distance_km = $4,
  status = $5,
  started_at = $6,
  completed_at = $7
WHERE id = $8
`

const seaplaneSelectByNameSQL = `
SELECT name, model, fuel_level, crate_count, status, docked_port,
       flight_departure_port, flight_destination_port, flight_departed_at,
       created_at, updated_at
FROM seaplanes
WHERE name = $1
`

const seaplaneSelectByNameForUpdateSQL = seaplaneSelectByNameSQL + " FOR UPDATE"

const seaplaneListSQL = `
SELECT name, model, fuel_level, crate_count, status, docked_port,
       flight_departure_port, flight_destination_port, flight_departed_at,
       created_at, updated_at
FROM seaplanes
ORDER BY name
`

const seaplaneUpdateSQL = `
UPDATE seaplanes SET
  model = $1,
  fuel_level = $2,
  crate_count = $3,
  status = $4,
  docked_port = $5,
  flight_departure_port = $6,
  flight_destination_port = $7,
  flight_departed_at = $8,
  updated_at = $9
WHERE name = $10
`

const modelBySeaplaneSQL = `
SELECT m.name, m.manufacturer, m.crate_capacity, m.fuel_capacity_l,
       m.fuel_burn_l_per_km, m.average_speed_kmh, m.cost_per_km
FROM seaplane_models m
JOIN seaplanes s ON s.model = m.name
WHERE s.name = $1
`

const portSelectByNameSQL = `
SELECT name, island, latitude, longitude
FROM ports
WHERE name = $1
`

const portListSQL = `
SELECT name, island, latitude, longitude
FROM ports
ORDER BY name
`

const lockerSelectByIDSQL = `
SELECT id, name, capacity, port
FROM lockers
WHERE id = $1
`

const warehouseSelectByIDSQL = `
SELECT id, name, capacity, port
FROM warehouses
WHERE id = $1
`

const outboxInsertSQL = `
INSERT INTO outbox_events (
  id, event_type, aggregate_type, aggregate_id, payload, occurred_at
) VALUES ($1,$2,$3,$4,$5,$6)
`

const outboxFetchPendingSQL = `
SELECT id, event_type, aggregate_type, aggregate_id, payload, occurred_at
FROM outbox_events
WHERE published_at IS NULL
ORDER BY occurred_at
LIMIT $1
`

const outboxMarkPublishedSQL = `
UPDATE outbox_events
SET published_at = now()
WHERE id = ANY($1::uuid[])
`
