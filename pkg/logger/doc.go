// Package logger builds *slog.Logger instances for the service and keeps
// attribute names consistent across packages.
//
// New applies functional options (format, level, output, static attributes)
// and wraps the handler with LogHandlerDecorator, which adds request-scoped
// attributes such as the request id at log time:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.AppName),
//		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
//	)
//
// Attribute helpers (Error, UserID, Email, OTP, Provider, Component...) return
// empty attributes for empty input, and mask personal data: Email keeps only
// the first letter of the local part, OTP keeps the first three digits.
package logger
