package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/services"
)

type RankingHandler struct {
	rankingService     *services.RankingService
	certificateService *services.CertificateService
}

func NewRankingHandler(rankingService *services.RankingService, certificateService *services.CertificateService) *RankingHandler {
	return &RankingHandler{
		rankingService:     rankingService,
		certificateService: certificateService,
	}
}

func levelParam(r *http.Request) (models.CompetitionLevel, error) {
	return models.ParseLevel(chi.URLParam(r, "level"))
}

func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidLevel)
		return
	}

	ranking, err := h.rankingService.GetRankings(r.Context(), level)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ranking": ranking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) GetProjectScore(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	level, err := levelParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidLevel)
		return
	}

	score, err := h.rankingService.GetProjectScore(r.Context(), projectID, level)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"score": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ArbitrationQueue lists the projects whose judges disagree beyond the
// threshold and still lack a coordinator score.
func (h *RankingHandler) ArbitrationQueue(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	queue, err := h.rankingService.ListArbitrationQueue(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"queue": queue}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RankingHandler) GenerateCertificate(w http.ResponseWriter, r *http.Request) {
	if h.certificateService == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "certificate storage is not configured")
		return
	}

	projectID, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	level, err := levelParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidLevel)
		return
	}

	certificate, err := h.certificateService.GenerateCertificate(r.Context(), projectID, level)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"certificate": certificate}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
