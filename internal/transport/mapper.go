package transport

import (
	"time"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/service"
)

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OrderResponse struct {
	ID            string     `json:"id"`
	ClientID      string     `json:"client_id"`
	WarehouseID   string     `json:"warehouse_id"`
	LockerID      string     `json:"locker_id"`
	CrateQuantity int        `json:"crate_quantity"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
}

type DeliveryResponse struct {
	ID              string     `json:"id"`
	OrderIDs        []string   `json:"order_ids"`
	SeaplaneName    string     `json:"seaplane_name"`
	Route           []string   `json:"route"`
	TotalDistanceKm float64    `json:"total_distance_km"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type ProgressResponse struct {
	Status            string    `json:"status"`
	CurrentLeg        int       `json:"current_leg"`
	CurrentPort       *string   `json:"current_port,omitempty"`
	NextPort          *string   `json:"next_port,omitempty"`
	DeparturePort     *string   `json:"departure_port,omitempty"`
	Position          *Position `json:"position,omitempty"`
	ProgressPercent   float64   `json:"progress_percent"`
	TimeAtPortMinutes *float64  `json:"time_at_port_minutes,omitempty"`
	CanDepart         bool      `json:"can_depart"`
}

type SeaplaneResponse struct {
	Name       string             `json:"name"`
	Model      string             `json:"model"`
	FuelLevel  float64            `json:"fuel_level"`
	CrateCount int                `json:"crate_count"`
	Status     string             `json:"status"`
	DockedPort *string            `json:"docked_port,omitempty"`
	Flight     *FlightLegResponse `json:"flight,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type FlightLegResponse struct {
	DeparturePort   string    `json:"departure_port"`
	DestinationPort string    `json:"destination_port"`
	DepartedAt      time.Time `json:"departed_at"`
}

type FlightPositionResponse struct {
	SeaplaneName        string    `json:"seaplane_name"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	ProgressPercent     float64   `json:"progress_percent"`
	DistanceTraveledKm  float64   `json:"distance_traveled_km"`
	DistanceRemainingKm float64   `json:"distance_remaining_km"`
	EstimatedArrival    time.Time `json:"estimated_arrival"`
	DeparturePort       string    `json:"departure_port"`
	DestinationPort     string    `json:"destination_port"`
	DepartedAt          time.Time `json:"departed_at"`
}

type PortResponse struct {
	Name      string  `json:"name"`
	Island    string  `json:"island"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PathResponse struct {
	Ports           []string `json:"ports"`
	TotalDistanceKm float64  `json:"total_distance_km"`
}

func FromOrder(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:            order.ID,
		ClientID:      order.ClientID,
		WarehouseID:   order.WarehouseID,
		LockerID:      order.LockerID,
		CrateQuantity: order.CrateQuantity,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		DeliveredAt:   order.DeliveredAt,
	}
}

func FromDelivery(delivery *domain.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:              delivery.ID,
		OrderIDs:        delivery.OrderIDs,
		SeaplaneName:    delivery.SeaplaneName,
		Route:           delivery.Route,
		TotalDistanceKm: delivery.TotalDistanceKm,
		Status:          string(delivery.Status),
		CreatedAt:       delivery.CreatedAt,
		StartedAt:       delivery.StartedAt,
		CompletedAt:     delivery.CompletedAt,
	}
}

func FromProgress(snapshot *service.ProgressSnapshot) ProgressResponse {
	resp := ProgressResponse{
		Status:            string(snapshot.Status),
		CurrentLeg:        snapshot.CurrentLeg,
		CurrentPort:       snapshot.CurrentPort,
		NextPort:          snapshot.NextPort,
		DeparturePort:     snapshot.DeparturePort,
		ProgressPercent:   snapshot.ProgressPercent,
		TimeAtPortMinutes: snapshot.TimeAtPortMinutes,
		CanDepart:         snapshot.CanDepart,
	}
	if snapshot.Position != nil {
		resp.Position = &Position{Latitude: snapshot.Position.Latitude, Longitude: snapshot.Position.Longitude}
	}
	return resp
}

func FromSeaplane(seaplane *domain.Seaplane) SeaplaneResponse {
	resp := SeaplaneResponse{
		Name:       seaplane.Name,
		Model:      seaplane.Model,
		FuelLevel:  seaplane.FuelLevel,
		CrateCount: seaplane.CrateCount,
		Status:     string(seaplane.Status),
		DockedPort: seaplane.DockedPort,
		CreatedAt:  seaplane.CreatedAt,
		UpdatedAt:  seaplane.UpdatedAt,
	}
	if seaplane.Flight != nil {
		resp.Flight = &FlightLegResponse{
			DeparturePort:   seaplane.Flight.DeparturePort,
			DestinationPort: seaplane.Flight.DestinationPort,
			DepartedAt:      seaplane.Flight.DepartedAt,
		}
	}
	return resp
}

func FromFlightPosition(view *service.FlightPositionView) FlightPositionResponse {
	return FlightPositionResponse{
		SeaplaneName:        view.SeaplaneName,
		Latitude:            view.Latitude,
		Longitude:           view.Longitude,
		ProgressPercent:     view.ProgressPercent,
		DistanceTraveledKm:  view.DistanceTraveledKm,
		DistanceRemainingKm: view.DistanceRemainingKm,
		EstimatedArrival:    view.EstimatedArrival,
		DeparturePort:       view.DeparturePort,
		DestinationPort:     view.DestinationPort,
		DepartedAt:          view.DepartedAt,
	}
}

func FromPort(port *domain.Port) PortResponse {
	return PortResponse{
		Name:      port.Name,
		Island:    port.Island,
		Latitude:  port.Latitude,
		Longitude: port.Longitude,
	}
}

func FromPath(path *domain.Path) PathResponse {
	return PathResponse{
		Ports:           path.Ports,
		TotalDistanceKm: path.TotalDistanceKm,
	}
}
