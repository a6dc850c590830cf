// Package api exposes the profile lifecycle over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/citycarbon/footprint-cli/internal/model"
	"github.com/citycarbon/footprint-cli/internal/profile"
	"github.com/citycarbon/footprint-cli/internal/store"
	"github.com/citycarbon/footprint-cli/internal/validate"
)

// profileResponse mirrors the wire shape clients depend on: id and
// answers always, estimation outputs and scores only once estimated.
type profileResponse struct {
	ID string `json:"id"`

	MobilityAnswer *model.MobilityAnswer `json:"mobilityAnswer,omitempty"`
	HousingAnswer  *model.HousingAnswer  `json:"housingAnswer,omitempty"`
	FoodAnswer     *model.FoodAnswer     `json:"foodAnswer,omitempty"`
	OtherAnswer    *model.OtherAnswer    `json:"otherAnswer,omitempty"`

	Baselines     []model.EmissionItem   `json:"baselines,omitempty"`
	Estimations   []model.EmissionItem   `json:"estimations,omitempty"`
	MobilityScore []model.EmissionResult `json:"mobilityScore,omitempty"`
	FoodScore     []model.EmissionResult `json:"foodScore,omitempty"`
	HousingScore  []model.EmissionResult `json:"housingScore,omitempty"`
	OtherScore    []model.EmissionResult `json:"otherScore,omitempty"`
}

func toResponse(p *model.Profile, scores *profile.Scores) profileResponse {
	resp := profileResponse{
		ID:             p.ID,
		MobilityAnswer: p.MobilityAnswer,
		HousingAnswer:  p.HousingAnswer,
		FoodAnswer:     p.FoodAnswer,
		OtherAnswer:    p.OtherAnswer,
	}
	if p.Estimated && scores != nil {
		resp.Baselines = p.Baselines
		resp.Estimations = p.Estimations
		resp.MobilityScore = scores.Mobility
		resp.FoodScore = scores.Food
		resp.HousingScore = scores.Housing
		resp.OtherScore = scores.Other
	}
	return resp
}

// NewRouter builds the HTTP handler. The API is fully CORS-open, matching
// the browser clients it serves.
func NewRouter(svc *profile.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	h := &handler{svc: svc}

	r.Get("/health", h.health)
	r.Route("/calculates", func(r chi.Router) {
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Get("/{id}", h.get)
	})
	return r
}

type handler struct {
	svc *profile.Service
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	p, scores, err := h.svc.Create(r.Context(), *req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Creation and update responses are wrapped in a data envelope;
	// reads return the profile bare.
	writeJSON(w, http.StatusOK, map[string]any{"data": toResponse(p, scores)})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	p, scores, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), *req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": toResponse(p, scores)})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	p, scores, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p, scores))
}

// decodeRequest parses and validates the request body, writing the 400
// response itself on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*profile.Request, bool) {
	var req profile.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return nil, false
	}
	if errs := validate.Answers(req.MobilityAnswer, req.HousingAnswer); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid answers",
			"fields": errs,
		})
		return nil, false
	}
	return &req, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if eris.Is(err, store.ErrProfileNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	zap.L().Error("api: request failed",
		zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
