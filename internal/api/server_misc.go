package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fennwick/barboard/internal/dashboard"
)

func registerMiscHandlers(api huma.API, svc Service) {
	type healthOutput struct {
		Body dashboard.Health
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/api/v1/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body = svc.Health(ctx)
			return out, nil
		})
}
