package http

import (
	"net/http"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/user"

	"github.com/go-chi/chi/v5"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type AuthHandler struct {
	service user.Service
}

func NewAuthHandler(service user.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/register", h.handleRegister)
	router.Post("/auth/login", h.handleLogin)
	router.Get("/auth/me", h.handleMe)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	token, u, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, authResponse{Token: token, User: u})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	token, u, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	u, err := h.service.GetUserByEmail(r.Context(), actor.Email)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, u)
}
