package account

import (
	"net/http"

	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/session"
)

// RequireSession lets through requests whose session (resolved by
// session.Manager.Middleware) belongs to an existing user and stores that
// user in the context. Everyone else is sent to the sign-in page.
func (m *Module) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := session.UserIDFromContext(r.Context())
		if !ok {
			m.redirectToSignIn(w, r)
			return
		}

		user, err := m.users.GetUserByID(r.Context(), userID)
		if err != nil {
			m.logger.WarnContext(r.Context(), "session user not loaded",
				logger.Component("account"),
				logger.UserID(userID),
				logger.Error(err),
			)
			m.redirectToSignIn(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetUserToContext(r.Context(), user)))
	})
}

func (m *Module) redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	if err := handler.Redirect(pathSignIn).Render(w, r); err != nil {
		m.logger.ErrorContext(r.Context(), "failed to redirect to sign in", logger.Error(err))
	}
}
