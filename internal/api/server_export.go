package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fennwick/barboard/internal/dashboard"
	"github.com/fennwick/barboard/internal/export"
)

func registerExportHandlers(api huma.API, svc Service) {
	type createExportOutput struct {
		Body struct {
			Export export.Meta `json:"export"`
			URL    string      `json:"url"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "create-export", Method: http.MethodPost, Path: "/api/v1/exports", Summary: "Export a chart still", Description: "HTML is self-contained and opens in any browser. PNG needs a headless Chromium endpoint configured and rasterizes the same page.", Tags: []string{"Exports"}},
		func(ctx context.Context, input *struct {
			Body struct {
				SessionID string `json:"session_id,omitempty" doc:"Pin the frame to this session's playhead"`
				Frame     *int   `json:"frame,omitempty" doc:"Explicit frame override"`
				Format    string `json:"format,omitempty" enum:"html,png" doc:"Defaults to html"`
				Width     int    `json:"width,omitempty" doc:"PNG viewport width"`
				Height    int    `json:"height,omitempty" doc:"PNG viewport height"`
			}
		}) (*createExportOutput, error) {
			meta, err := svc.CreateExport(ctx, dashboard.ExportRequest{
				SessionID: input.Body.SessionID,
				Frame:     input.Body.Frame,
				Format:    input.Body.Format,
				Width:     input.Body.Width,
				Height:    input.Body.Height,
			})
			if err != nil {
				return nil, mapErr(err)
			}
			out := &createExportOutput{}
			out.Body.Export = meta
			out.Body.URL = "/api/v1/exports/" + meta.ID + "/file"
			return out, nil
		})

	type listExportsOutput struct {
		Body struct {
			Exports []export.Meta `json:"exports"`
			Count   int           `json:"count"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-exports", Method: http.MethodGet, Path: "/api/v1/exports", Summary: "List exports, newest first", Tags: []string{"Exports"}},
		func(ctx context.Context, input *struct{}) (*listExportsOutput, error) {
			metas, err := svc.ListExports(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			if metas == nil {
				metas = []export.Meta{}
			}
			out := &listExportsOutput{}
			out.Body.Exports = metas
			out.Body.Count = len(metas)
			return out, nil
		})

	type exportIDInput struct {
		ExportID string `path:"export_id"`
	}
	type getExportOutput struct {
		Body export.Meta
	}
	huma.Register(api, huma.Operation{OperationID: "get-export", Method: http.MethodGet, Path: "/api/v1/exports/{export_id}", Summary: "Get export metadata", Tags: []string{"Exports"}},
		func(ctx context.Context, input *exportIDInput) (*getExportOutput, error) {
			meta, err := svc.GetExport(ctx, input.ExportID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &getExportOutput{}
			out.Body = meta
			return out, nil
		})

	type deleteExportOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "delete-export", Method: http.MethodDelete, Path: "/api/v1/exports/{export_id}", Summary: "Delete an export", Tags: []string{"Exports"}},
		func(ctx context.Context, input *exportIDInput) (*deleteExportOutput, error) {
			if err := svc.DeleteExport(ctx, input.ExportID); err != nil {
				return nil, mapErr(err)
			}
			out := &deleteExportOutput{}
			out.Body.Status = "deleted"
			return out, nil
		})
}
