package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"route-order-service/internal/api/dto"
	"route-order-service/internal/domain"
	"route-order-service/internal/ports"
	"route-order-service/internal/services"
	"strconv"
)

const (
	maxAddresses     = 25
	maxBodyBytes     = 1 << 20
	defaultListLimit = 20
)

type RouteHandler struct {
	Provider        ports.MatrixProvider
	Repo            ports.PlanRepository
	Sinks           []ports.PlanSink
	DefaultAPILimit int
	Concurrency     int
	DistanceUnit    string
}

// Routes dispatches POST (plan a tour) and GET (list saved plans).
func (h *RouteHandler) Routes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.plan(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// plan builds both matrices, solves both tours and returns them.
// Persistence and sinks run after the plan is complete.
func (h *RouteHandler) plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Addresses) == 0 {
		writeError(w, r, http.StatusBadRequest, "addresses are required")
		return
	}
	if len(req.Addresses) > maxAddresses {
		writeError(w, r, http.StatusBadRequest, "at most "+strconv.Itoa(maxAddresses)+" addresses are supported")
		return
	}

	apiLimit := req.APILimit
	if apiLimit == 0 {
		apiLimit = h.DefaultAPILimit
	}
	if apiLimit < 0 {
		writeError(w, r, http.StatusBadRequest, "api_limit must be positive")
		return
	}

	plan, err := services.PlanRoutes(r.Context(), services.PlanRequest{
		Labels:      req.Addresses,
		APILimit:    apiLimit,
		Concurrency: h.Concurrency,
	}, h.Provider)
	if err != nil {
		log.Printf("plan routes failed: %v", err)
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			msg = "internal server error"
		}
		writeError(w, r, status, msg)
		return
	}

	if h.Repo != nil {
		id, err := h.Repo.SavePlan(r.Context(), plan)
		if err != nil {
			log.Printf("save plan failed: %v", err)
		} else {
			plan.PlanID = id
		}
	}

	services.PublishPlan(r.Context(), h.Sinks, plan, h.DistanceUnit)

	writeJSON(w, r, http.StatusOK, dto.FromPlan(plan))
}

func (h *RouteHandler) list(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "plan history is not configured")
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	plans, err := h.Repo.ListPlans(r.Context(), limit)
	if err != nil {
		log.Printf("list plans failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPlanResponse{Plans: make([]dto.PlanResponse, 0, len(plans))}
	for _, p := range plans {
		res.Plans = append(res.Plans, dto.FromPlan(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// statusFor maps error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPrecondition):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
