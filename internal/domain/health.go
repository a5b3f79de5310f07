package domain

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// EngineMetrics is returned by GET /v1/metrics/engine.
type EngineMetrics struct {
	TotalSimulations int64   `json:"totalSimulations"`
	ErrorRate        float64 `json:"errorRate"`
	AvgHorizonDays   float64 `json:"avgHorizonDays"`
	OverdraftRate    float64 `json:"overdraftRate"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	Period           string  `json:"period"`
}
