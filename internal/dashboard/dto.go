package dashboard

type StatsResponse struct {
	Success bool   `json:"success"`
	Stats   *Stats `json:"stats"`
}

type ChartResponse struct {
	Success bool         `json:"success"`
	Year    int          `json:"year"`
	Data    []ChartPoint `json:"data"`
}

type BirthdaysResponse struct {
	Success   bool       `json:"success"`
	Birthdays []Birthday `json:"birthdays"`
}

type EventsResponse struct {
	Success bool    `json:"success"`
	Events  []Event `json:"events"`
}

type DistributionResponse struct {
	Success bool `json:"success"`
	*Distribution
}
