package permission

type ReplacePermissionsDTO struct {
	UserID      int64    `json:"userId"`
	Permissions []string `json:"permissions"`
}

type PermissionsResponse struct {
	Success     bool     `json:"success"`
	EmployeeID  int64    `json:"employeeId"`
	Permissions []string `json:"permissions"`
}

type TablesResponse struct {
	Success bool    `json:"success"`
	Tables  []Table `json:"tables"`
}
