package response

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries one message per failing field path.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// ValidationResult answers the validation endpoints, which report invalid
// input as data rather than as an error.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Step   int               `json:"step,omitempty"`
	Title  string            `json:"title,omitempty"`
	Fields map[string]string `json:"fields"`
}
