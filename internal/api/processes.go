package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/procnode/internal/api/models"
	"github.com/smazurov/procnode/internal/supervisor"
)

// registerProcessRoutes registers all process-related endpoints.
func (s *Server) registerProcessRoutes() {
	// List managed processes
	huma.Register(s.api, huma.Operation{
		OperationID: "list-processes",
		Method:      http.MethodGet,
		Path:        "/api/processes",
		Summary:     "List Processes",
		Description: "Get a list of all currently managed processes",
		Tags:        []string{"processes"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.ProcessListResponse, error) {
		infos, err := s.service.ListProcesses(ctx)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		apiProcs := make([]models.ProcessData, len(infos))
		for i, info := range infos {
			apiProcs[i] = domainToAPIProcess(info)
		}

		return &models.ProcessListResponse{
			Body: models.ProcessListData{
				Processes: apiProcs,
				Count:     len(apiProcs),
			},
		}, nil
	})

	// Spawn a new process
	huma.Register(s.api, huma.Operation{
		OperationID: "spawn-process",
		Method:      http.MethodPost,
		Path:        "/api/processes",
		Summary:     "Spawn Process",
		Description: "Launch a new managed process from a runtime/script pair or an explicit command",
		Tags:        []string{"processes"},
		Errors:      []int{400, 401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.SpawnRequest) (*models.ProcessResponse, error) {
		config := supervisor.SpawnConfig{
			Runtime: input.Body.Runtime,
			Command: input.Body.Command,
			Script:  input.Body.Script,
			Args:    input.Body.Args,
			Cwd:     input.Body.Cwd,
			Env:     input.Body.Env,
		}

		info, err := s.service.Spawn(ctx, input.Body.Name, config)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		return &models.ProcessResponse{
			Body: domainToAPIProcess(info),
		}, nil
	})

	// Kill all processes
	huma.Register(s.api, huma.Operation{
		OperationID: "kill-all-processes",
		Method:      http.MethodDelete,
		Path:        "/api/processes",
		Summary:     "Kill All Processes",
		Description: "Terminate every managed process",
		Tags:        []string{"processes"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.KillAllResponse, error) {
		infos, err := s.service.ListProcesses(ctx)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		if err := s.service.KillAll(ctx); err != nil {
			return nil, s.mapProcessError(err)
		}

		return &models.KillAllResponse{
			Body: models.KillAllData{Killed: len(infos)},
		}, nil
	})

	// Get process status
	huma.Register(s.api, huma.Operation{
		OperationID: "get-process",
		Method:      http.MethodGet,
		Path:        "/api/processes/{name}",
		Summary:     "Get Process",
		Description: "Get status of a specific managed process",
		Tags:        []string{"processes"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"worker" doc:"Process name"`
	}) (*models.ProcessResponse, error) {
		info, err := s.service.GetStatus(ctx, input.Name)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		return &models.ProcessResponse{
			Body: domainToAPIProcess(info),
		}, nil
	})

	// Kill a process
	huma.Register(s.api, huma.Operation{
		OperationID: "kill-process",
		Method:      http.MethodDelete,
		Path:        "/api/processes/{name}",
		Summary:     "Kill Process",
		Description: "Terminate a managed process and remove it from the table",
		Tags:        []string{"processes"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"worker" doc:"Process name"`
	}) (*struct{}, error) {
		if err := s.service.Kill(ctx, input.Name); err != nil {
			return nil, s.mapProcessError(err)
		}

		return &struct{}{}, nil
	})

	// Restart a process
	huma.Register(s.api, huma.Operation{
		OperationID: "restart-process",
		Method:      http.MethodPost,
		Path:        "/api/processes/{name}/restart",
		Summary:     "Restart Process",
		Description: "Kill a process and spawn it again under the same name, optionally with a replacement configuration",
		Tags:        []string{"processes"},
		Errors:      []int{400, 401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"worker" doc:"Process name"`
		models.RestartRequest
	}) (*models.ProcessResponse, error) {
		var config *supervisor.SpawnConfig
		if !input.Body.IsZero() {
			config = &supervisor.SpawnConfig{
				Runtime: input.Body.Runtime,
				Command: input.Body.Command,
				Script:  input.Body.Script,
				Args:    input.Body.Args,
				Cwd:     input.Body.Cwd,
				Env:     input.Body.Env,
			}
		}

		info, err := s.service.Restart(ctx, input.Name, config)
		if err != nil {
			return nil, s.mapProcessError(err)
		}

		return &models.ProcessResponse{
			Body: domainToAPIProcess(info),
		}, nil
	})

	// Write to process stdin
	huma.Register(s.api, huma.Operation{
		OperationID: "write-process-stdin",
		Method:      http.MethodPost,
		Path:        "/api/processes/{name}/stdin",
		Summary:     "Write Stdin",
		Description: "Write data to the standard input of a managed process",
		Tags:        []string{"processes"},
		Errors:      []int{400, 401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"worker" doc:"Process name"`
		models.StdinRequest
	}) (*struct{}, error) {
		if err := s.service.WriteStdin(ctx, input.Name, input.Body.Data); err != nil {
			return nil, s.mapProcessError(err)
		}

		return &struct{}{}, nil
	})
}

// domainToAPIProcess converts a supervisor process info to API process data.
func domainToAPIProcess(info supervisor.ProcessInfo) models.ProcessData {
	return models.ProcessData{
		Name:    info.Name,
		Pid:     info.Pid,
		Running: info.Running,
	}
}

// mapProcessError maps domain errors to HTTP errors.
func (s *Server) mapProcessError(err error) error {
	var procErr *supervisor.ProcessError
	if errors.As(err, &procErr) {
		switch procErr.Code {
		case supervisor.ErrCodeNotFound:
			return huma.Error404NotFound(procErr.Message, err)
		case supervisor.ErrCodeAlreadyExists:
			return huma.Error409Conflict(procErr.Message, err)
		case supervisor.ErrCodeNotRunning:
			return huma.Error409Conflict(procErr.Message, err)
		case supervisor.ErrCodeInvalidConfig:
			return huma.Error400BadRequest(procErr.Message, err)
		case supervisor.ErrCodeIOFailure, supervisor.ErrCodeStdinWrite:
			return huma.Error500InternalServerError(procErr.Message, err)
		default:
			return huma.Error500InternalServerError("internal server error", err)
		}
	}
	return huma.Error500InternalServerError("internal server error", err)
}
