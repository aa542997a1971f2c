package handlers

import (
	"net/http"

	"github.com/Omondi01/sciencefair-system/middleware"
	"github.com/Omondi01/sciencefair-system/services"
)

type EditionHandler struct {
	editionService *services.EditionService
	userService    *services.UserService
}

func NewEditionHandler(editionService *services.EditionService, userService *services.UserService) *EditionHandler {
	return &EditionHandler{editionService: editionService, userService: userService}
}

func (h *EditionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	actor, err := h.userService.GetUserByID(r.Context(), actorID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input services.CreateEditionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	edition, err := h.editionService.CreateEdition(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"edition": edition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditionHandler) List(w http.ResponseWriter, r *http.Request) {
	editions, err := h.editionService.ListEditions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"editions": editions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	edition, completed, err := h.editionService.GetActiveEdition(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"edition":   edition,
		"completed": completed,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
