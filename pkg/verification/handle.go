package verification

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/utils"
)

// ConfirmRequest is the body of POST /auth/otp/verify/confirm.
type ConfirmRequest struct {
	OTP string `json:"otp"`
}

// StatusResponse is the body of GET /auth/otp/verify/status.
type StatusResponse struct {
	utils.Envelope
	IsVerified bool `json:"isVerified"`
}

type Handle struct {
	verificationService *VerificationService
}

func NewHandle(verificationService *VerificationService) Handle {
	return Handle{verificationService: verificationService}
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, r, apperrors.Unauthorized("Not authorized. Login again"))
	}
	return userID, ok
}

// RequestVerification handles POST /auth/otp/verify/request
func (h Handle) RequestVerification(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.verificationService.RequestEmailVerification(r.Context(), userID); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, r, "OTP sent to your email")
}

// ConfirmVerification handles POST /auth/otp/verify/confirm
func (h Handle) ConfirmVerification(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ConfirmRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		utils.RespondError(w, r, apperrors.ValidationFailed("Invalid request body"))
		return
	}

	if err := h.verificationService.ConfirmEmailVerification(r.Context(), userID, req.OTP); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, r, "Account verified successfully")
}

// Status handles GET /auth/otp/verify/status
func (h Handle) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	verified, err := h.verificationService.Status(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondOK(w, r, StatusResponse{
		Envelope:   utils.Envelope{Success: true},
		IsVerified: verified,
	})
}
