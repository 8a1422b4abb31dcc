package api

import "github.com/promptozer/promptozer/internal/service"

// Services groups the business services used by the API server.
type Services struct {
	Auth   *service.AuthService
	Prompt *service.PromptService
}
