package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/handler/dto"
	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/service"
)

// UserHandler handles HTTP requests for user operations.
// Each method checks the verb itself because the routes accept any method.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /createUser.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req dto.CreateUserRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	id, err := h.svc.CreateUser(r.Context(), service.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_created", "user_id", id)

	writeJSON(w, http.StatusCreated, dto.CreateUserResponse{
		ID:      id,
		Message: "User created",
	})
}

// Get handles GET /getUser?name=.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	user, err := h.svc.GetUser(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Update handles PUT /updateUser?name=.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w)
		return
	}

	var req dto.UpdateUserRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body: "+err.Error())
		return
	}

	name := r.URL.Query().Get("name")
	err := h.svc.UpdateUser(r.Context(), service.UpdateUserInput{
		Name:  name,
		Patch: req.ToPatch(),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_updated",
		"changed_name", req.Name != nil,
		"changed_email", req.Email != nil,
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "User updated successfully"})
}

// Delete handles DELETE /deleteUser?name=.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}

	name := r.URL.Query().Get("name")
	if err := h.svc.DeleteUser(r.Context(), name); err != nil {
		if errors.Is(err, service.ErrDeleteTooSoon) {
			h.logger.Warn("user_delete_refused")
		}
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted")

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}

// handleServiceError maps service errors to HTTP responses.
// Unrecognised errors come from the store and are passed through verbatim.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "Missing name or email")
	case errors.Is(err, service.ErrKoreanName):
		writeError(w, http.StatusBadRequest, "KOREAN_NAME", "Name cannot contain Korean characters")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email format")
	case errors.Is(err, service.ErrMissingName):
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "Missing user name in query")
	case errors.Is(err, service.ErrMissingUpdate):
		writeError(w, http.StatusBadRequest, "MISSING_UPDATE", "Missing user name or update data")
	case errors.Is(err, service.ErrInvalidUpdateEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email format: missing @")
	case errors.Is(err, service.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "INVALID_NAME", "Name must be non-empty and cannot contain Korean characters")
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, dto.MessageResponse{Message: "User not found"})
	case errors.Is(err, service.ErrDeleteTooSoon):
		writeError(w, http.StatusForbidden, "DELETE_TOO_SOON", "User cannot be deleted within 1 minute of creation")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "STORE_FAILURE", err.Error())
	}
}
