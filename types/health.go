package types

type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "UP"
	HealthStatusDown     HealthStatus = "DOWN"
	HealthStatusDegraded HealthStatus = "DEGRADED"
)

type HealthComponent struct {
	Status  HealthStatus `json:"status"`
	Details string       `json:"details,omitempty"`
}

type HealthCheck struct {
	Status     HealthStatus               `json:"status"`
	Components map[string]HealthComponent `json:"components"`
	Version    string                     `json:"version"`
	Timestamp  string                     `json:"timestamp"`
	Uptime     string                     `json:"uptime"`
}

// Ping is the body of the lightweight /api/health liveness endpoint.
type Ping struct {
	Status    string `json:"status" example:"OK"`
	Message   string `json:"message" example:"Server is running"`
	Timestamp string `json:"timestamp" example:"2024-01-01T00:00:00Z"`
}
