package profile

import (
	"net/http"

	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/utils"
)

// ProfileResponse is the body of GET /user/profile.
type ProfileResponse struct {
	utils.Envelope
	User Summary `json:"user"`
}

type Handle struct {
	profileService *ProfileService
}

func NewHandle(profileService *ProfileService) Handle {
	return Handle{profileService: profileService}
}

// GetProfile handles GET /user/profile
func (h Handle) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, r, apperrors.Unauthorized("Not authorized. Login again"))
		return
	}

	summary, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}

	utils.RespondOK(w, r, ProfileResponse{
		Envelope: utils.Envelope{Success: true},
		User:     summary,
	})
}
