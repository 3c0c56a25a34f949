package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

// LimitReachedResponse is the 429 envelope returned when a capacity
// ceiling blocks a create.
type LimitReachedResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	Message      string `json:"message,omitempty"`
	CurrentCount int64  `json:"currentCount"`
	Limit        int    `json:"limit"`
}
