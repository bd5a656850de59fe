package service

import (
	"context"
	"errors"
	"time"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/geo"
)

// FlightPositionView is the live position of one point-to-point flight leg.
type FlightPositionView struct {
	SeaplaneName        string
	Latitude            float64
	Longitude           float64
	ProgressPercent     float64
	DistanceTraveledKm  float64
	DistanceRemainingKm float64
	EstimatedArrival    time.Time
	DeparturePort       string
	DestinationPort     string
	DepartedAt          time.Time
}

// FlightPosition computes where a flying seaplane is right now from its
// flight leg alone: straight-line great-circle progress, no intermediate
// stops and no dwell. This is the single-leg analogue of DeliveryProgress,
// used for ad-hoc tracking outside any delivery. The result is nil when the
// seaplane is not flying or its flight data is incomplete.
func (s *Service) FlightPosition(ctx context.Context, seaplaneName string) (*FlightPositionView, error) {
	seaplane, err := s.store.GetSeaplane(ctx, seaplaneName)
	if err != nil {
		return nil, err
	}
	if seaplane.Flight == nil {
		return nil, nil
	}
	leg := seaplane.Flight

	departure, err := s.store.GetPort(ctx, leg.DeparturePort)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	destination, err := s.store.GetPort(ctx, leg.DestinationPort)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	model, err := s.store.GetModelBySeaplane(ctx, seaplaneName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if model.AverageSpeedKmh <= 0 {
		return nil, nil
	}

	totalKm := geo.DistanceKm(departure.Latitude, departure.Longitude, destination.Latitude, destination.Longitude)

	now := s.now()
	elapsedHours := now.Sub(leg.DepartedAt.UTC()).Hours()
	traveledKm := elapsedHours * model.AverageSpeedKmh

	progress := 1.0
	if totalKm > 0 {
		progress = traveledKm / totalKm
		if progress > 1 {
			progress = 1
		}
	}

	lat, lon := geo.Interpolate(departure.Latitude, departure.Longitude, destination.Latitude, destination.Longitude, progress)

	remainingHours := totalKm/model.AverageSpeedKmh - elapsedHours
	if remainingHours < 0 {
		remainingHours = 0
	}

	remainingKm := totalKm - traveledKm
	if remainingKm < 0 {
		remainingKm = 0
	}

	return &FlightPositionView{
		SeaplaneName:        seaplaneName,
		Latitude:            round6(lat),
		Longitude:           round6(lon),
		ProgressPercent:     round2(progress * 100),
		DistanceTraveledKm:  round2(traveledKm),
		DistanceRemainingKm: round2(remainingKm),
		EstimatedArrival:    now.Add(time.Duration(remainingHours * float64(time.Hour))),
		DeparturePort:       leg.DeparturePort,
		DestinationPort:     leg.DestinationPort,
		DepartedAt:          leg.DepartedAt,
	}, nil
}

// FlyingPositions reports the live position of every seaplane currently in
// the air.
func (s *Service) FlyingPositions(ctx context.Context) ([]*FlightPositionView, error) {
	seaplanes, err := s.store.ListSeaplanes(ctx)
	if err != nil {
		return nil, err
	}
	positions := make([]*FlightPositionView, 0)
	for _, seaplane := range seaplanes {
		if seaplane.Status != domain.SeaplaneStatusFlying {
			continue
		}
		view, err := s.FlightPosition(ctx, seaplane.Name)
		if err != nil {
			return nil, err
		}
		if view != nil {
			positions = append(positions, view)
		}
	}
	return positions, nil
}
