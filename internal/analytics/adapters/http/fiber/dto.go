package fiber

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message" example:"limit must be an integer between 1 and 100"`
}

type HealthResponse struct {
	Status    string `json:"status" example:"OK"`
	Timestamp string `json:"timestamp" example:"2025-05-01T10:00:00.000Z"`
}
