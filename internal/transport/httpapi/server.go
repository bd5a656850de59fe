package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/service"
	"seawing-logistics/internal/transport"
)

type Server struct {
	svc *service.Service
}

func NewServer(svc *service.Service) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", s.handleCreateOrder)
		r.Get("/", s.handleListOrders)
		r.Get("/{id}", s.handleGetOrder)
		r.Post("/{id}/cancel", s.handleCancelOrder)
	})

	r.Route("/deliveries", func(r chi.Router) {
		r.Post("/", s.handleCreateDelivery)
		r.Get("/", s.handleListDeliveries)
		r.Get("/{id}", s.handleGetDelivery)
		r.Post("/{id}/start", s.handleStartDelivery)
		r.Post("/{id}/cancel", s.handleCancelDelivery)
		r.Get("/{id}/progress", s.handleDeliveryProgress)
	})

	r.Route("/seaplanes", func(r chi.Router) {
		r.Get("/", s.handleListSeaplanes)
		r.Get("/positions", s.handleFlyingPositions)
		r.Get("/{name}", s.handleGetSeaplane)
		r.Get("/{name}/position", s.handleFlightPosition)
		r.Post("/{name}/maintenance/enter", s.handleEnterMaintenance)
		r.Post("/{name}/maintenance/exit", s.handleExitMaintenance)
	})

	r.Route("/ports", func(r chi.Router) {
		r.Get("/", s.handleListPorts)
		r.Get("/{name}", s.handleGetPort)
		r.Get("/{from}/path/{to}", s.handlePortPath)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID      string `json:"client_id"`
		WarehouseID   string `json:"warehouse_id"`
		LockerID      string `json:"locker_id"`
		CrateQuantity int    `json:"crate_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalid)
		return
	}
	order, err := s.svc.CreateOrder(r.Context(), req.ClientID, req.WarehouseID, req.LockerID, req.CrateQuantity)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transport.FromOrder(order))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	filter := service.OrderFilter{}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.OrderStatus(v)
		if !domain.ValidOrderStatus(status) {
			writeError(w, domain.ErrValidation)
			return
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("warehouse_id"); v != "" {
		filter.WarehouseID = &v
	}
	if v := r.URL.Query().Get("client_id"); v != "" {
		filter.ClientID = &v
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := s.svc.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]transport.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, transport.FromOrder(order))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.svc.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromOrder(order))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.svc.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromOrder(order))
}

func (s *Server) handleCreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderIDs     []string `json:"order_ids"`
		SeaplaneName string   `json:"seaplane_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalid)
		return
	}
	delivery, err := s.svc.CreateDelivery(r.Context(), req.OrderIDs, req.SeaplaneName)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transport.FromDelivery(delivery))
}

func (s *Server) handleListDeliveries(w http.ResponseWriter, r *http.Request) {
	filter := service.DeliveryFilter{}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.DeliveryStatus(v)
		if !domain.ValidDeliveryStatus(status) {
			writeError(w, domain.ErrValidation)
			return
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("seaplane"); v != "" {
		filter.SeaplaneName = &v
	}
	deliveries, err := s.svc.ListDeliveries(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]transport.DeliveryResponse, 0, len(deliveries))
	for _, delivery := range deliveries {
		resp = append(resp, transport.FromDelivery(delivery))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDelivery(w http.ResponseWriter, r *http.Request) {
	delivery, err := s.svc.GetDelivery(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromDelivery(delivery))
}

func (s *Server) handleStartDelivery(w http.ResponseWriter, r *http.Request) {
	delivery, err := s.svc.StartDelivery(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromDelivery(delivery))
}

func (s *Server) handleCancelDelivery(w http.ResponseWriter, r *http.Request) {
	delivery, err := s.svc.CancelDelivery(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromDelivery(delivery))
}

func (s *Server) handleDeliveryProgress(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.svc.DeliveryProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if snapshot == nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromProgress(snapshot))
}

func (s *Server) handleListSeaplanes(w http.ResponseWriter, r *http.Request) {
	seaplanes, err := s.svc.ListSeaplanes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" && !domain.ValidSeaplaneStatus(domain.SeaplaneStatus(status)) {
		writeError(w, domain.ErrValidation)
		return
	}
	port := r.URL.Query().Get("port")
	resp := make([]transport.SeaplaneResponse, 0, len(seaplanes))
	for _, seaplane := range seaplanes {
		if status != "" && string(seaplane.Status) != status {
			continue
		}
		if port != "" && (seaplane.DockedPort == nil || *seaplane.DockedPort != port) {
			continue
		}
		resp = append(resp, transport.FromSeaplane(seaplane))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSeaplane(w http.ResponseWriter, r *http.Request) {
	seaplane, err := s.svc.GetSeaplane(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromSeaplane(seaplane))
}

func (s *Server) handleFlightPosition(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.FlightPosition(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if view == nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromFlightPosition(view))
}

func (s *Server) handleFlyingPositions(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.FlyingPositions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]transport.FlightPositionResponse, 0, len(views))
	for _, view := range views {
		resp = append(resp, transport.FromFlightPosition(view))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEnterMaintenance(w http.ResponseWriter, r *http.Request) {
	seaplane, err := s.svc.EnterMaintenance(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromSeaplane(seaplane))
}

func (s *Server) handleExitMaintenance(w http.ResponseWriter, r *http.Request) {
	seaplane, err := s.svc.ExitMaintenance(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromSeaplane(seaplane))
}

func (s *Server) handleListPorts(w http.ResponseWriter, r *http.Request) {
	ports, err := s.svc.ListPorts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]transport.PortResponse, 0, len(ports))
	for _, port := range ports {
		resp = append(resp, transport.FromPort(port))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPort(w http.ResponseWriter, r *http.Request) {
	port, err := s.svc.GetPort(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromPort(port))
}

func (s *Server) handlePortPath(w http.ResponseWriter, r *http.Request) {
	path, err := s.svc.PortPath(r.Context(), chi.URLParam(r, "from"), chi.URLParam(r, "to"))
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transport.FromPath(path))
}
