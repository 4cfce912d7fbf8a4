package dto

// APIResponse is the standard success envelope: {status, message?, data?}
type APIResponse struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message,omitempty" example:"User created"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse creates a success envelope with a message
func NewSuccessResponse(message string) APIResponse {
	return APIResponse{Status: "success", Message: message}
}

// NewDataResponse creates a success envelope with a payload
func NewDataResponse(data interface{}) APIResponse {
	return APIResponse{Status: "success", Data: data}
}

// PaginationInfo describes the page window of a list response
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}
