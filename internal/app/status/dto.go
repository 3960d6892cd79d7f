package status

type Request struct {
	RunID string
}

type Response struct {
	RunID      string               `json:"run_id"`
	Seed       int64                `json:"seed"`
	Turn       uint64               `json:"turn"`
	Running    bool                 `json:"running"`
	AgentCount int                  `json:"agent_count"`
	Population map[string]int       `json:"population"`
	Classes    map[string]int       `json:"classes"`
	Ambience   string               `json:"ambience"`
	Visibility int                  `json:"visibility_radius,omitempty"`
	Forecast   []StarvationEstimate `json:"starvation_forecast"`
	Metrics    any                  `json:"metrics,omitempty"`
}
