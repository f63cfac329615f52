package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/tyrecheck/tyrecheck-go/internal/middleware"
	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /user_create requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if err := h.service.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired),
			errors.Is(err, service.ErrPasswordRequired),
			errors.Is(err, service.ErrPasswordTooLong):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUsernameTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			internalError(w, r, "registering user", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "User created successfully"})
}

// HandleLogin handles POST /user_login requests. The credentials arrive as
// an OAuth2 style form, or as JSON.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if !decodeJSON(w, r, &req, false) {
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid form body"))
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		default:
			internalError(w, r, "logging in", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(service.ErrUnauthenticated.Error()))
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{ID: user.ID, Username: user.Name})
}
