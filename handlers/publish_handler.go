package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Omondi01/sciencefair-system/middleware"
	"github.com/Omondi01/sciencefair-system/services"
)

type PublishHandler struct {
	publishService *services.PublishService
	userService    *services.UserService
	emailService   *services.EmailService
	logger         *slog.Logger
}

func NewPublishHandler(
	publishService *services.PublishService,
	userService *services.UserService,
	emailService *services.EmailService,
	logger *slog.Logger,
) *PublishHandler {
	return &PublishHandler{
		publishService: publishService,
		userService:    userService,
		emailService:   emailService,
		logger:         logger,
	}
}

func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	level, err := levelParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidLevel)
		return
	}

	result, err := h.publishService.Publish(r.Context(), actorID, level)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	go h.notifyPatrons(result)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublishHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	level, err := levelParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidLevel)
		return
	}

	// The guard is advisory: force=true overrides it.
	if r.URL.Query().Get("force") != "true" {
		ok, err := h.publishService.CanRollback(r.Context(), level)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if !ok {
			mapServiceErrorToHTTP(w, r, services.ErrRollbackUnsafe)
			return
		}
	}

	result, err := h.publishService.Rollback(r.Context(), actorID, level)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublishHandler) CanRollback(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidLevel)
		return
	}

	ok, err := h.publishService.CanRollback(r.Context(), level)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"can_rollback": ok}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// notifyPatrons emails every affected patron after a publish. Runs
// detached from the request; failures are logged and never retried.
func (h *PublishHandler) notifyPatrons(result *services.PublishResult) {
	if h.emailService == nil {
		return
	}
	ctx := context.Background()

	if result.NextLevel != nil {
		for i := range result.Promoted {
			p := result.Promoted[i]
			patron, err := h.userService.GetUserByID(ctx, p.PatronID)
			if err != nil {
				h.logger.Error("failed to load patron for promotion email",
					slog.Int("project", p.ID), slog.Any("error", err))
				continue
			}
			if err := h.emailService.SendPromotionEmail(patron, &p, *result.NextLevel); err != nil {
				h.logger.Error("failed to send promotion email",
					slog.Int("project", p.ID), slog.Any("error", err))
			}
		}
	}

	for i := range result.Eliminated {
		p := result.Eliminated[i]
		patron, err := h.userService.GetUserByID(ctx, p.PatronID)
		if err != nil {
			h.logger.Error("failed to load patron for elimination email",
				slog.Int("project", p.ID), slog.Any("error", err))
			continue
		}
		if err := h.emailService.SendEliminationEmail(patron, &p, result.Level); err != nil {
			h.logger.Error("failed to send elimination email",
				slog.Int("project", p.ID), slog.Any("error", err))
		}
	}
}
