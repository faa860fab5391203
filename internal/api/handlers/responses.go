package handlers

import "github.com/fittrackd/fittrackd/internal/db/models"

// successBody is the envelope for successful responses
type successBody struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// success wraps payloads in the standard success envelope
func success(data interface{}) successBody {
	return successBody{Status: "success", Data: data}
}

// ListResponse defines a generic response structure for listing resources
type ListResponse[T any] struct {
	Rows       []T               `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
}
