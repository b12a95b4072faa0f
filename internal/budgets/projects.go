package budgets

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/assotools/finledger/constants"
	"github.com/assotools/finledger/internal/common"
	"github.com/assotools/finledger/internal/entity"
	"github.com/assotools/finledger/internal/money"
	"github.com/assotools/finledger/internal/refcode"
	"github.com/assotools/finledger/internal/repository"
)

// ProjectService handles ad-hoc project budgets.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	logger      *slog.Logger
}

// NewProjectService creates a new project budget service.
func NewProjectService(projectRepo repository.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// ProjectLineInput is one planned spend; the actual amount always starts at
// zero.
type ProjectLineInput struct {
	Label           string
	AllocatedAmount float64
}

// CreateProjectRequest represents project creation parameters.
type CreateProjectRequest struct {
	Title       string
	Status      constants.ProjectStatus
	StartDate   time.Time
	EndDate     *time.Time
	Description *string
	Lines       []ProjectLineInput
}

// CreateProject creates a project and any initial lines as one atomic unit.
func (s *ProjectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*entity.BudgetProject, error) {
	validator := common.NewValidator()
	validator.Field("title", req.Title, common.Required)
	validator.Field("start_date", req.StartDate, common.NotZeroTime)
	if err := common.ValidateAndReturnError(validator); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = constants.ProjectStatusPlanned
	}
	if !constants.KnownProjectStatus(status) {
		return nil, common.ValidationError("unknown project status " + string(status))
	}

	now := time.Now().UTC()
	p := &entity.BudgetProject{
		ID:          refcode.NewID(),
		Title:       strings.TrimSpace(req.Title),
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, in := range req.Lines {
		line, err := buildProjectLine(p.ID, in, now)
		if err != nil {
			return nil, err
		}
		p.Lines = append(p.Lines, *line)
	}

	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, common.WrapError(err, "create project")
	}
	s.logger.Info("project created", "id", p.ID, "title", p.Title)
	return p, nil
}

// UpdateProjectRequest carries a partial project update.
type UpdateProjectRequest struct {
	Title       *string
	Status      *constants.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Description *string
}

// UpdateProject merges the supplied fields into a project.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*entity.BudgetProject, error) {
	p, err := s.projectRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		validator := common.NewValidator()
		validator.Field("title", *req.Title, common.Required)
		if err := common.ValidateAndReturnError(validator); err != nil {
			return nil, err
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Status != nil {
		if !constants.KnownProjectStatus(*req.Status) {
			return nil, common.ValidationError("unknown project status " + string(*req.Status))
		}
		p.Status = *req.Status
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes a project and all of its lines.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return common.WrapError(err, "delete project")
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}

// GetProject returns one project with its lines.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*entity.BudgetProject, error) {
	return s.projectRepo.Get(ctx, id)
}

// ListProjects filters by status and by the year of start_date; zero values
// mean no filter.
func (s *ProjectService) ListProjects(ctx context.Context, status constants.ProjectStatus, year int) ([]*entity.BudgetProject, error) {
	if status != "" && !constants.KnownProjectStatus(status) {
		return nil, common.ValidationError("unknown project status " + string(status))
	}
	return s.projectRepo.List(ctx, string(status), year)
}

// CreateProjectLine adds a planned spend to a project; actual_amount starts
// at zero.
func (s *ProjectService) CreateProjectLine(ctx context.Context, projectID string, req ProjectLineInput) (*entity.BudgetProjectLine, error) {
	// existence check so a bad project id surfaces as NotFound, not an FK error
	if _, err := s.projectRepo.Get(ctx, projectID); err != nil {
		return nil, err
	}

	line, err := buildProjectLine(projectID, req, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.CreateLine(ctx, line); err != nil {
		return nil, common.WrapError(err, "create project line")
	}
	return line, nil
}

// UpdateProjectLineRequest carries a partial line update.
type UpdateProjectLineRequest struct {
	Label           *string
	AllocatedAmount *float64
	ActualAmount    *float64
}

// UpdateProjectLine merges the supplied fields into a project line. This is
// where callers record actual spend.
func (s *ProjectService) UpdateProjectLine(ctx context.Context, projectID, lineID string, req UpdateProjectLineRequest) (*entity.BudgetProjectLine, error) {
	p, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for i := range p.Lines {
		if p.Lines[i].ID != lineID {
			continue
		}
		line := &p.Lines[i]
		if req.Label != nil {
			line.Label = strings.TrimSpace(*req.Label)
		}
		if req.AllocatedAmount != nil {
			line.AllocatedAmount = money.Round2(*req.AllocatedAmount)
		}
		if req.ActualAmount != nil {
			line.ActualAmount = money.Round2(*req.ActualAmount)
		}
		line.UpdatedAt = time.Now().UTC()

		if err := s.projectRepo.UpdateLine(ctx, line); err != nil {
			return nil, err
		}
		return line, nil
	}
	return nil, common.NotFoundErrorf("project line %s in project %s", lineID, projectID)
}

// DeleteProjectLine removes one planned spend.
func (s *ProjectService) DeleteProjectLine(ctx context.Context, lineID string) error {
	return s.projectRepo.DeleteLine(ctx, lineID)
}

func buildProjectLine(projectID string, in ProjectLineInput, now time.Time) (*entity.BudgetProjectLine, error) {
	validator := common.NewValidator()
	validator.Field("label", in.Label, common.Required)
	validator.Field("allocated_amount", in.AllocatedAmount, common.NonNegative)
	if err := common.ValidateAndReturnError(validator); err != nil {
		return nil, err
	}

	return &entity.BudgetProjectLine{
		ID:              refcode.NewID(),
		ProjectID:       projectID,
		Label:           strings.TrimSpace(in.Label),
		AllocatedAmount: money.Round2(in.AllocatedAmount),
		ActualAmount:    0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
