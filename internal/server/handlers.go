package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/geometry"
	"github.com/boxlogic/stowplan/pkg/pipeline"
	"github.com/boxlogic/stowplan/pkg/scene/sink"
	"github.com/boxlogic/stowplan/pkg/store"
)

const maxRequestBytes = 1 << 20

// planRequest is the POST /plan body.
type planRequest struct {
	Container geometry.ContainerSpec `json:"container"`
	Items     []geometry.ItemSpec    `json:"items"`
	Packed    []geometry.PackedItem  `json:"packed,omitempty"`

	BiggerFirst     bool   `json:"bigger_first,omitempty"`
	DistributeItems bool   `json:"distribute_items,omitempty"`
	Refresh         bool   `json:"refresh,omitempty"`
	ContainerIndex  int    `json:"container_index,omitempty"`
	Name            string `json:"name,omitempty"`
}

// planResponse is the POST /plan reply.
type planResponse struct {
	ID          string          `json:"id"`
	Utilization string          `json:"utilization"`
	Containers  int             `json:"containers,omitempty"`
	Scene       json.RawMessage `json:"scene"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	opts := pipeline.Options{
		Container:       req.Container,
		Items:           req.Items,
		Packed:          req.Packed,
		BiggerFirst:     req.BiggerFirst,
		DistributeItems: req.DistributeItems,
		Refresh:         req.Refresh,
		ContainerIndex:  req.ContainerIndex,
		PlanName:        req.Name,
		Formats:         []string{pipeline.FormatJSON},
		Logger:          s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	plan := store.NewPlan(req.Container, req.Items, result.Scene, result.Utilization)
	if err := s.store.Put(r.Context(), plan); err != nil {
		s.writeError(w, err)
		return
	}

	resp := planResponse{
		ID:          plan.ID,
		Utilization: result.Utilization,
		Scene:       result.Artifacts[pipeline.FormatJSON],
	}
	if result.Response != nil {
		resp.Containers = result.Response.NumContainers
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": summaries})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handlePlanSVG(w http.ResponseWriter, r *http.Request) {
	plan, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	svgOpts := []sink.SVGOption{sink.WithSVGLabels()}
	if r.URL.Query().Get("side") == "true" {
		svgOpts = append(svgOpts, sink.WithSVGSideView())
	}
	data := sink.RenderSVG(plan.Scene, svgOpts...)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(code)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidContainer, errors.ErrCodeInvalidItem,
		errors.ErrCodeInvalidFormat, errors.ErrCodeNoItems, errors.ErrCodeItemTooLarge,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePlanNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeService, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
