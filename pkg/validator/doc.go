// Package validator builds declarative field checks for the auth forms.
//
// Each helper returns a Rule (a check plus translatable error metadata).
// Apply evaluates rules in order and aggregates failures into
// ValidationErrors, which implements error:
//
//	err := validator.Apply(
//		validator.RequiredString("email", email),
//		validator.EmailShape("email", email),
//		validator.MinLenString("password", password, 8).
//			WithMessage("auth.password_too_short", "password must be at least 8 characters"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		last, _ := verrs.Last("email")
//		_ = last.TranslationKey
//	}
//
// Rules hold no state and are safe for concurrent use.
package validator
