// Package dto provides request and response types for the PromptOzer API.
// These types are used by huma to generate OpenAPI documentation and perform
// validation, and by the HTTP client to decode responses.
package dto

// ListResponse is a generic list response.
type ListResponse[T any] struct {
	Items []T `json:"items" doc:"List of items"`
	Total int `json:"total" doc:"Number of items"`
}

// NewListResponse wraps items, never returning a nil slice.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

// IDPathInput is the common {id} path parameter.
type IDPathInput struct {
	ID string `path:"id" minLength:"1" doc:"Record ID"`
}
