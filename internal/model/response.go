package model

// ErrorResponse is the stable error body shape: {"success":false,"error":"..."}.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type MessageResponse struct {
	Success bool        `json:"success"`
	Data    MessageData `json:"data"`
}

type MessageData struct {
	Message string `json:"message"`
}

// ListResponse wraps paginated collections (books listing).
type ListResponse struct {
	Success     bool  `json:"success"`
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Data        any   `json:"data"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
