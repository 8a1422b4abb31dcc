package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptozer/promptozer/internal/api/dto"
	"github.com/promptozer/promptozer/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Returns the user registered under the email, creating it on first login",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)
}

func (s *Server) handleLogin(ctx context.Context, input *dto.LoginInput) (*dto.UserOutput, error) {
	user, err := s.services.Auth.Login(ctx, service.LoginRequest{Email: input.Body.Email})
	if err != nil {
		return nil, err
	}
	return &dto.UserOutput{Body: dto.NewUserResponse(user)}, nil
}
