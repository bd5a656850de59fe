package domain

import "fmt"

func ValidatePosition(pos Position) error {
	if pos.Latitude < -90 || pos.Latitude > 90 {
		return fmt.Errorf("latitude out of range")
	}
	if pos.Longitude < -180 || pos.Longitude > 180 {
		return fmt.Errorf("longitude out of range")
	}
	return nil
}

func ValidOrderStatus(status OrderStatus) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func ValidDeliveryStatus(status DeliveryStatus) bool {
	switch status {
	case DeliveryStatusPending, DeliveryStatusInProgress, DeliveryStatusCompleted, DeliveryStatusCancelled:
		return true
	default:
		return false
	}
}

func ValidSeaplaneStatus(status SeaplaneStatus) bool {
	switch status {
	case SeaplaneStatusDocked, SeaplaneStatusFlying, SeaplaneStatusMaintenance:
		return true
	default:
		return false
	}
}
