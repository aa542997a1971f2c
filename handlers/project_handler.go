package handlers

import (
	"net/http"
	"strconv"

	"github.com/Omondi01/sciencefair-system/middleware"
	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	userService    *services.UserService
}

func NewProjectHandler(projectService *services.ProjectService, userService *services.UserService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, userService: userService}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	patronID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateProjectInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), patronID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"project": project}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	project, err := h.projectService.GetProjectByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"project": project}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter services.ListProjectsFilter

	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err := models.ParseLevel(raw)
		if err != nil {
			mapServiceErrorToHTTP(w, r, services.ErrInvalidLevel)
			return
		}
		filter.Level = &level
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		filter.Category = &raw
	}
	if raw := r.URL.Query().Get("patron_id"); raw != "" {
		patronID, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.PatronID = &patronID
	}
	if raw := r.URL.Query().Get("eliminated"); raw != "" {
		eliminated, err := strconv.ParseBool(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.Eliminated = &eliminated
	}

	projects, err := h.projectService.ListProjects(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"projects": projects}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := h.currentUser(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.UpdateProjectInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"project": project}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "projectID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, err := h.currentUser(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id, actor); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) currentUser(r *http.Request) (*models.User, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	return h.userService.GetUserByID(r.Context(), userID)
}
