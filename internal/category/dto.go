package category

type CategoriesResponse struct {
	Success    bool       `json:"success"`
	Kind       Kind       `json:"kind"`
	Categories []Category `json:"categories"`
}
