package account

import (
	"github.com/dmitrymomot/authflow/handler"
	"github.com/dmitrymomot/authflow/pkg/auth"
	"github.com/dmitrymomot/authflow/pkg/logger"
	"github.com/dmitrymomot/authflow/pkg/session"
)

func (m *Module) home(ctx handler.Context, _ struct{}) handler.Response {
	if _, ok := session.UserIDFromContext(ctx); ok {
		return handler.Redirect(pathDashboard)
	}
	return handler.Redirect(pathSignIn)
}

func (m *Module) dashboard(ctx handler.Context, _ struct{}) handler.Response {
	return handler.Templ(m.views.DashboardPage(PageData{User: auth.GetUserFromContext(ctx)}))
}

func (m *Module) emailVerified(ctx handler.Context, _ struct{}) handler.Response {
	return handler.Templ(m.views.EmailVerifiedPage(PageData{User: auth.GetUserFromContext(ctx)}))
}

func (m *Module) signOut(ctx handler.Context, _ struct{}) handler.Response {
	log := m.logger.With(logger.Component("account"), logger.Handler("sign_out"))
	if err := m.sessions.Destroy(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		log.ErrorContext(ctx, "failed to destroy session", logger.Error(err))
	}
	if userID, ok := session.UserIDFromContext(ctx); ok {
		log.InfoContext(ctx, "user signed out", logger.UserID(userID))
	}
	return handler.Redirect(pathSignIn)
}
