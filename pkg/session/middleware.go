package session

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/utils"
)

// Middleware authenticates requests by the session cookie, falling back to an
// Authorization: Bearer header. Authenticated requests carry the user id in
// their context; others are answered with 401.
func Middleware(codec *Codec, cookies *CookieSetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.TokenFromRequest(r)
			if token == "" {
				token = jwtauth.TokenFromHeader(r)
			}

			claims, err := codec.Verify(r.Context(), token)
			if err != nil {
				utils.RespondError(w, r, err)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				utils.RespondError(w, r, apperrors.Unauthorized(msgNotAuthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
