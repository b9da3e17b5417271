package validation

// PlaySessionRequest mirrors the fields needed to create or update a play session.
type PlaySessionRequest struct {
	Game int64
}

// ValidatePlaySessionRequest validates the fields of a play session request.
func ValidatePlaySessionRequest(req PlaySessionRequest) []FieldError {
	var errs []FieldError

	if req.Game <= 0 {
		errs = append(errs, FieldError{Field: "game", Message: "game is required and must be a positive integer"})
	}

	return errs
}
