package admin

// LoginRequest is the dashboard login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StatsResponse is the dashboard counters payload.
type StatsResponse struct {
	TotalApplications int `json:"total_applications"`
	Last24h           int `json:"last_24h"`
}
