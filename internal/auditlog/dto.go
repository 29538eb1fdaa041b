package auditlog

type LogsResponse struct {
	Success bool        `json:"success"`
	Logs    []LogRecord `json:"logs"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}
