package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusInProgress DeliveryStatus = "in_progress"
	DeliveryStatusCompleted  DeliveryStatus = "completed"
	DeliveryStatusCancelled  DeliveryStatus = "cancelled"
)

type SeaplaneStatus string

const (
	SeaplaneStatusDocked      SeaplaneStatus = "docked"
	SeaplaneStatusFlying      SeaplaneStatus = "flying"
	SeaplaneStatusMaintenance SeaplaneStatus = "maintenance"
)

type Position struct {
	Latitude  float64
	Longitude float64
}

type Island struct {
	Name        string
	Description string
}

// Port is a node of the distance graph. Edge weights between ports are
// precomputed from the coordinates and cached by the graph store.
type Port struct {
	Name      string
	Island    string
	Latitude  float64
	Longitude float64
}

type Locker struct {
	ID       string
	Name     string
	Capacity int
	Port     string
}

type Warehouse struct {
	ID       string
	Name     string
	Capacity int
	Port     string
}

// SeaplaneModel is static reference data shared by many seaplanes.
type SeaplaneModel struct {
	Name            string
	Manufacturer    string
	CrateCapacity   int
	FuelCapacityL   float64
	FuelBurnLPerKm  float64
	AverageSpeedKmh float64
	CostPerKm       float64
}

// FlightLeg is the ephemeral point-to-point flight state of a seaplane,
// populated only while it is flying.
type FlightLeg struct {
	DeparturePort   string
	DestinationPort string
	DepartedAt      time.Time
}

// Seaplane invariant: DockedPort is set iff status is docked or maintenance,
// Flight is set iff status is flying. Transition through BeginFlight/DockAt
// so the two never coexist.
type Seaplane struct {
	Name       string
	Model      string
	FuelLevel  float64
	CrateCount int
	Status     SeaplaneStatus
	DockedPort *string
	Flight     *FlightLeg
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BeginFlight puts the seaplane in the air and clears the docked port.
func (s *Seaplane) BeginFlight(from, to string, departedAt time.Time) {
	s.Status = SeaplaneStatusFlying
	s.DockedPort = nil
	s.Flight = &FlightLeg{DeparturePort: from, DestinationPort: to, DepartedAt: departedAt}
}

// DockAt lands the seaplane at a port and clears any flight leg.
func (s *Seaplane) DockAt(port string) {
	s.Status = SeaplaneStatusDocked
	s.DockedPort = &port
	s.Flight = nil
}

type Order struct {
	ID            string
	ClientID      string
	WarehouseID   string
	LockerID      string
	CrateQuantity int
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeliveredAt   *time.Time
}

// Delivery owns its route snapshot: the route is computed once at creation
// time and never recomputed. Route[0] is the origin warehouse port and the
// route ends back at the origin.
type Delivery struct {
	ID              string
	OrderIDs        []string
	SeaplaneName    string
	Route           []string
	TotalDistanceKm float64
	Status          DeliveryStatus
	CreatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// Path is a shortest-path result from the graph store.
type Path struct {
	Ports           []string
	TotalDistanceKm float64
}

func IsTerminalOrder(status OrderStatus) bool {
	switch status {
	case OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func IsTerminalDelivery(status DeliveryStatus) bool {
	switch status {
	case DeliveryStatusCompleted, DeliveryStatusCancelled:
		return true
	default:
		return false
	}
}
