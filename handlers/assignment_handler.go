package handlers

import (
	"net/http"

	"github.com/Omondi01/sciencefair-system/middleware"
	"github.com/Omondi01/sciencefair-system/services"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	userService       *services.UserService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService, userService *services.UserService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService, userService: userService}
}

// AssignJudges creates assignments for every surviving project of one
// category at one level, one per listed judge.
func (h *AssignmentHandler) AssignJudges(w http.ResponseWriter, r *http.Request) {
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

	var input services.AssignJudgesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignments, err := h.assignmentService.AssignJudges(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"assignments": assignments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssignmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	assignments, err := h.assignmentService.ListMyAssignments(r.Context(), judgeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": assignments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssignmentHandler) MarkInProgress(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := idParam(r, "assignmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	assignment, err := h.assignmentService.MarkInProgress(r.Context(), assignmentID, judgeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssignmentHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := idParam(r, "assignmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	judgeID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.SubmitScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignment, err := h.assignmentService.SubmitScore(r.Context(), assignmentID, judgeID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
