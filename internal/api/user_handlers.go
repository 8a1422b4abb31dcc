package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptozer/promptozer/internal/api/dto"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user by ID",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUserPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/prompts",
		Summary:     "List user prompts",
		Description: "Returns the user's prompts, newest first. Unknown users have no prompts.",
		Tags:        []string{"Users", "Prompts"},
	}, s.handleListUserPrompts)
}

func (s *Server) handleGetUser(ctx context.Context, input *dto.IDPathInput) (*dto.UserOutput, error) {
	user, err := s.services.Auth.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &dto.UserOutput{Body: dto.NewUserResponse(user)}, nil
}

func (s *Server) handleListUserPrompts(ctx context.Context, input *dto.IDPathInput) (*dto.PromptListOutput, error) {
	prompts, err := s.services.Prompt.ListPrompts(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &dto.PromptListOutput{Body: dto.NewListResponse(dto.NewPromptResponses(prompts))}, nil
}
