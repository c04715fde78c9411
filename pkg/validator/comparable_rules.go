package validator

// Equal fails when value differs from other. The password confirmation field uses it.
func Equal[T comparable](field string, value, other T) Rule {
	return Rule{
		Check: func() bool {
			return value == other
		},
		Error: ValidationError{
			Field:             field,
			Message:           "values do not match",
			TranslationKey:    "validation.mismatch",
			TranslationValues: map[string]any{"field": field},
		},
	}
}
