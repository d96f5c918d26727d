package recovery

import (
	"net/http"

	"github.com/go-chi/render"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/utils"
)

// ResetRequest is the body of POST /auth/otp/reset/request.
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetConfirmRequest is the body of POST /auth/otp/reset/confirm.
type ResetConfirmRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

var errBadRequestBody = apperrors.ValidationFailed("Invalid request body")

type Handle struct {
	recoveryService *RecoveryService
}

func NewHandle(recoveryService *RecoveryService) Handle {
	return Handle{recoveryService: recoveryService}
}

// RequestReset handles POST /auth/otp/reset/request
func (h Handle) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		utils.RespondError(w, r, errBadRequestBody)
		return
	}
	if err := h.recoveryService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, r, "OTP sent to your email")
}

// ConfirmReset handles POST /auth/otp/reset/confirm
func (h Handle) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req ResetConfirmRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		utils.RespondError(w, r, errBadRequestBody)
		return
	}
	if err := h.recoveryService.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondMessage(w, r, "Password reset successfully")
}
