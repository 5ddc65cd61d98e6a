package serverutils

// Standard response envelopes returned by every controller.

type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func SuccessResponse(message string, data interface{}) SuccessEnvelope {
	return SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code, message string) ErrorEnvelope {
	return ErrorEnvelope{
		Success: false,
		Code:    code,
		Message: message,
	}
}
