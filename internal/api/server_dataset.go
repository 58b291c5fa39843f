package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fennwick/barboard/internal/market"
)

func registerDatasetHandlers(api huma.API, svc Service) {
	type summaryOutput struct {
		Body struct {
			Symbol  string         `json:"symbol"`
			Summary market.Summary `json:"summary"`
			Issues  int            `json:"issues"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-dataset-summary", Method: http.MethodGet, Path: "/api/v1/dataset/summary", Summary: "Get dataset summary statistics", Tags: []string{"Dataset"}},
		func(ctx context.Context, input *struct{}) (*summaryOutput, error) {
			out := &summaryOutput{}
			out.Body.Symbol = svc.Symbol()
			out.Body.Summary = svc.DatasetSummary(ctx)
			out.Body.Issues = len(svc.DatasetIssues(ctx))
			return out, nil
		})

	type issuesOutput struct {
		Body struct {
			Issues []market.Issue `json:"issues"`
			Count  int            `json:"count"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-dataset-issues", Method: http.MethodGet, Path: "/api/v1/dataset/issues", Summary: "List rows with suspect values", Description: "Rows that parsed but look incoherent (inverted high/low, negative volume). The rows are still served; this is a validation report, not a filter.", Tags: []string{"Dataset"}},
		func(ctx context.Context, input *struct{}) (*issuesOutput, error) {
			out := &issuesOutput{}
			out.Body.Issues = svc.DatasetIssues(ctx)
			out.Body.Count = len(out.Body.Issues)
			return out, nil
		})

	type barsOutput struct {
		Body struct {
			Bars   []market.Bar `json:"bars"`
			Offset int          `json:"offset"`
			Total  int          `json:"total"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-dataset-bars", Method: http.MethodGet, Path: "/api/v1/dataset/bars", Summary: "Page through the bar table", Tags: []string{"Dataset"}},
		func(ctx context.Context, input *struct {
			Offset int `query:"offset" default:"0" doc:"First bar index to return"`
			Limit  int `query:"limit" default:"0" doc:"Page size, up to 500. Zero means the default page size."`
		}) (*barsOutput, error) {
			bars, total, err := svc.DatasetBars(ctx, input.Offset, input.Limit)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &barsOutput{}
			out.Body.Bars = bars
			out.Body.Offset = input.Offset
			out.Body.Total = total
			return out, nil
		})
}
