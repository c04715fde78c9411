package account

// GeneralField holds errors that do not belong to a single input.
const GeneralField = "general"

// ActionResult is the outcome of a form action. Message and Errors are
// already translated into the request language.
type ActionResult struct {
	Success  bool
	Message  string
	Errors   map[string]string
	NeedsOTP bool
}

func (r *ActionResult) addError(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[field] = message
}

func (r ActionResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func success(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

func failure(message string) ActionResult {
	return ActionResult{Message: message}
}

// generalFailure sets both the message and the general error.
func generalFailure(message string) ActionResult {
	r := failure(message)
	r.addError(GeneralField, message)
	return r
}
