package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"todo-app/internal/account"
	"todo-app/internal/apperr"
	"todo-app/internal/http/middleware"
	"todo-app/internal/security"
)

type AuthHandler struct {
	accounts *account.Service
	sessions *security.SessionManager
	cookies  *security.CookieCodec
}

func NewAuthHandler(accounts *account.Service, sessions *security.SessionManager, cookies *security.CookieCodec) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		cookies:  cookies,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Confirm  string `json:"confirm"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	id, err := h.accounts.Register(r.Context(), req.Username, req.Password, req.Confirm)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", id)
	ok(w, map[string]interface{}{"message": "Registered successfully!"})
}

// Login verifies the credentials, starts a session and sets the session
// cookie. The token is also returned for clients that send it as a bearer
// token instead.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	userID, err := h.accounts.Verify(r.Context(), req.Username, req.Password)
	if errors.Is(err, apperr.ErrNotFound) {
		// Unknown users and wrong passwords look the same to the caller.
		err = apperr.ErrInvalidCredentials
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.cookies.Save(w, r, token); err != nil {
		writeError(w, r, err)
		return
	}

	ok(w, map[string]interface{}{"message": "Login successful", "token": token})
}

// Logout revokes the caller's session, if any, and clears the cookie. It
// always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.cookies.Token(r)
	if token == "" {
		token = middleware.BearerToken(r)
	}
	if err := h.sessions.Destroy(r.Context(), token); err != nil {
		slog.Warn("failed to destroy session", "request_id", middleware.RequestID(r.Context()), "error", err)
	}
	if err := h.cookies.Clear(w, r); err != nil {
		slog.Warn("failed to clear session cookie", "error", err)
	}
	ok(w, nil)
}

// Me returns the profile of the logged-in user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.accounts.Get(r.Context(), userID)
	if errors.Is(err, apperr.ErrNotFound) {
		// the session outlived its user
		err = apperr.ErrUnauthorized
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, map[string]interface{}{"user": user})
}

func Health(w http.ResponseWriter, r *http.Request) {
	ok(w, nil)
}
