package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/promptozer/promptozer/internal/http/response"
)

// EnvelopeTransformer wraps every response body in a response.Envelope.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		return response.Failure(body.Code, body.Message, body.Details), nil
	case response.Envelope, *response.Envelope:
		return v, nil
	default:
		return response.OK(v), nil
	}
}
