package dto

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the envelope for failed responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// OK wraps data in a success envelope.
func OK(data any) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

// Fail builds an error envelope.
func Fail(message, code string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Code: code}
}
