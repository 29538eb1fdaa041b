package resource

type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

type ListResponse struct {
	Success bool  `json:"success"`
	Data    []Row `json:"data"`
}

type ItemResponse struct {
	Success bool `json:"success"`
	Data    Row  `json:"data"`
}
