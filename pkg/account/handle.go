package account

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/utils"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse carries the account summary after register and login.
type UserResponse struct {
	utils.Envelope
	User profile.Summary `json:"user"`
}

// SessionResponse is the body of GET /auth/session.
type SessionResponse struct {
	utils.Envelope
	UserID uuid.UUID `json:"userId"`
}

var errBadRequestBody = apperrors.ValidationFailed("Invalid request body")

type Handle struct {
	accountService *AccountService
	cookies        *session.CookieSetter
}

func NewHandle(accountService *AccountService, cookies *session.CookieSetter) Handle {
	return Handle{
		accountService: accountService,
		cookies:        cookies,
	}
}

// Register handles POST /auth/register
func (h Handle) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		utils.RespondError(w, r, errBadRequestBody)
		return
	}

	tok, u, err := h.accountService.Register(r.Context(), RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}

	h.cookies.Set(w, tok)
	utils.RespondOK(w, r, UserResponse{
		Envelope: utils.Envelope{Success: true, Message: "Registered successfully"},
		User:     profile.NewSummary(u),
	})
}

// Login handles POST /auth/login
func (h Handle) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		utils.RespondError(w, r, errBadRequestBody)
		return
	}

	tok, u, err := h.accountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}

	h.cookies.Set(w, tok)
	utils.RespondOK(w, r, UserResponse{
		Envelope: utils.Envelope{Success: true, Message: "Logged in successfully"},
		User:     profile.NewSummary(u),
	})
}

// Logout handles POST /auth/logout
func (h Handle) Logout(w http.ResponseWriter, r *http.Request) {
	_ = h.accountService.Logout(r.Context())
	h.cookies.Clear(w)
	utils.RespondMessage(w, r, "Logged out successfully")
}

// IsAuthenticated handles GET /auth/session. The session middleware has
// already rejected unauthenticated requests.
func (h Handle) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, r, apperrors.Unauthorized("Not authorized. Login again"))
		return
	}
	utils.RespondOK(w, r, SessionResponse{
		Envelope: utils.Envelope{Success: true, Message: "User is authenticated"},
		UserID:   userID,
	})
}
