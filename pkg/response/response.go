package response

// Envelope is the uniform API response shape. Status is "success" or
// "error"; exactly one of Data and Error is set.
type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// ListData wraps a collection payload with its pagination counters.
type ListData struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Success wraps data in a success envelope.
func Success(statusCode int, data interface{}) Envelope {
	return Envelope{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// List wraps a page of items and its counters in a success envelope.
func List(statusCode int, items interface{}, total int64, page, limit int) Envelope {
	return Success(statusCode, ListData{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Error wraps an error message in an error envelope.
func Error(statusCode int, err string) Envelope {
	return Envelope{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
