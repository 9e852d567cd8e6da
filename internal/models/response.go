package models

// Response is the REST envelope used by every JSON endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []string    `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func ErrorsToStrings(errors []error) []string {
	result := make([]string, 0, len(errors))
	for _, err := range errors {
		result = append(result, err.Error())
	}
	return result
}
