package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/procnode/internal/api/models"
)

// registerRuntimeRoutes registers runtime detection and path override endpoints.
func (s *Server) registerRuntimeRoutes() {
	// Detect installed runtimes
	huma.Register(s.api, huma.Operation{
		OperationID: "detect-runtimes",
		Method:      http.MethodGet,
		Path:        "/api/runtimes",
		Summary:     "Detect Runtimes",
		Description: "Probe the host for installed JavaScript runtimes and their versions",
		Tags:        []string{"runtimes"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.RuntimeListResponse, error) {
		infos, err := s.service.DetectRuntimes(ctx)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		apiRuntimes := make([]models.RuntimeData, len(infos))
		for i, info := range infos {
			apiRuntimes[i] = models.RuntimeData{
				Name:      info.Name,
				Path:      info.Path,
				Version:   info.Version,
				Available: info.Available,
			}
		}

		return &models.RuntimeListResponse{
			Body: models.RuntimeListData{Runtimes: apiRuntimes},
		}, nil
	})

	// Get configured path overrides
	huma.Register(s.api, huma.Operation{
		OperationID: "get-runtime-paths",
		Method:      http.MethodGet,
		Path:        "/api/runtimes/paths",
		Summary:     "Get Runtime Paths",
		Description: "Get all configured runtime executable path overrides",
		Tags:        []string{"runtimes"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.RuntimePathsResponse, error) {
		paths, err := s.service.GetRuntimePaths(ctx)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		return &models.RuntimePathsResponse{
			Body: models.RuntimePathsData{Paths: paths},
		}, nil
	})

	// Set or remove a path override
	huma.Register(s.api, huma.Operation{
		OperationID: "set-runtime-path",
		Method:      http.MethodPut,
		Path:        "/api/runtimes/{runtime}/path",
		Summary:     "Set Runtime Path",
		Description: "Set an executable path override for a runtime. An empty path removes the override.",
		Tags:        []string{"runtimes"},
		Errors:      []int{400, 401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Runtime string `path:"runtime" enum:"bun,node,deno" example:"node" doc:"Runtime name"`
		models.RuntimePathRequest
	}) (*models.RuntimePathsResponse, error) {
		if err := s.service.SetRuntimePath(ctx, input.Runtime, input.Body.Path); err != nil {
			return nil, s.mapProcessError(err)
		}

		paths, err := s.service.GetRuntimePaths(ctx)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		return &models.RuntimePathsResponse{
			Body: models.RuntimePathsData{Paths: paths},
		}, nil
	})
}
