package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/service/risk"
	"github.com/secmon-lab/riskgrid/pkg/utils/errutil"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// projectGrid is the installed state of one project: its cells and the
// providers indexed for it. It is replaced as a whole on refresh.
type projectGrid struct {
	cells     []*model.GridCell
	providers []interfaces.RiskProvider
	loadedAt  time.Time
}

// GridUseCase builds the risk grid of a project and folds provider scores over it
type GridUseCase struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig

	refreshMu sync.Mutex
	mu        sync.RWMutex
	grids     map[types.ProjectID]*projectGrid
}

func NewGridUseCase(repo interfaces.Repository, cfg *config.RiskConfig) *GridUseCase {
	if cfg == nil {
		cfg = config.DefaultRiskConfig()
	}
	return &GridUseCase{
		repo:       repo,
		riskConfig: cfg,
		grids:      make(map[types.ProjectID]*projectGrid),
	}
}

// newProviders returns one instance of every provider in display order
func (uc *GridUseCase) newProviders() []interfaces.RiskProvider {
	return []interfaces.RiskProvider{
		risk.NewStaticProvider(uc.riskConfig.Static),
		risk.NewBugProvider(uc.repo.Bug().List, uc.riskConfig.Bug),
		risk.NewChurnProvider(uc.repo.Checkin().List, uc.riskConfig.Churn),
		risk.NewCoverageProvider(uc.repo.TestCase().List, uc.riskConfig.Coverage),
	}
}

// loadCells reads the hierarchy of a project and builds its cells
func (uc *GridUseCase) loadCells(ctx context.Context, projectID types.ProjectID) ([]*model.GridCell, error) {
	if _, err := getProject(ctx, uc.repo, projectID); err != nil {
		return nil, err
	}

	attributes, err := uc.repo.Attribute().List(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list attributes", goerr.V(ProjectIDKey, projectID))
	}
	components, err := uc.repo.Component().List(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list components", goerr.V(ProjectIDKey, projectID))
	}
	capabilities, err := uc.repo.Capability().List(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list capabilities", goerr.V(ProjectIDKey, projectID))
	}

	cells, orphans := model.BuildGrid(attributes, components, capabilities)
	for _, c := range orphans {
		logging.From(ctx).Warn("capability points at unknown attribute or component",
			ProjectIDKey, projectID,
			"capability_id", c.ID,
			AttributeIDKey, c.AttributeID,
			ComponentIDKey, c.ComponentID,
		)
	}

	return cells, nil
}

// Refresh rebuilds the cells of a project and re-initializes every provider
// concurrently. A provider that fails keeps its previous index; the failure
// is logged and does not fail the refresh.
func (uc *GridUseCase) Refresh(ctx context.Context, projectID types.ProjectID) error {
	uc.refreshMu.Lock()
	defer uc.refreshMu.Unlock()

	cells, err := uc.loadCells(ctx, projectID)
	if err != nil {
		return err
	}

	uc.mu.RLock()
	current := uc.grids[projectID]
	uc.mu.RUnlock()

	providers := uc.newProviders()
	if current != nil {
		providers = current.providers
	}

	var eg errgroup.Group
	for _, p := range providers {
		eg.Go(func() error {
			if err := p.Initialize(ctx, cells); err != nil {
				_ = errutil.Handle(ctx, goerr.Wrap(err, "risk provider refresh failed",
					goerr.V(ProviderKey, p.Name()),
					goerr.V(ProjectIDKey, projectID)), "risk provider refresh failed")
			}
			return nil
		})
	}
	_ = eg.Wait()

	uc.mu.Lock()
	uc.grids[projectID] = &projectGrid{
		cells:     cells,
		providers: providers,
		loadedAt:  time.Now().UTC(),
	}
	uc.mu.Unlock()

	logging.From(ctx).Info("grid refreshed",
		ProjectIDKey, projectID,
		"cells", len(cells),
	)
	return nil
}

// RefreshAll refreshes every project in the repository. It stops at the
// first project that cannot be loaded.
func (uc *GridUseCase) RefreshAll(ctx context.Context) error {
	projects, err := uc.repo.Project().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list projects")
	}

	for _, p := range projects {
		if err := uc.Refresh(ctx, p.ID); err != nil {
			return goerr.Wrap(err, "failed to refresh project", goerr.V(ProjectIDKey, p.ID))
		}
	}
	return nil
}

// grid returns the installed grid of a project, loading it on first use
func (uc *GridUseCase) grid(ctx context.Context, projectID types.ProjectID) (*projectGrid, error) {
	uc.mu.RLock()
	g := uc.grids[projectID]
	uc.mu.RUnlock()
	if g != nil {
		return g, nil
	}

	if err := uc.Refresh(ctx, projectID); err != nil {
		return nil, err
	}

	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.grids[projectID], nil
}

// Scores folds every provider over every cell of the project
func (uc *GridUseCase) Scores(ctx context.Context, projectID types.ProjectID) (*model.GridScore, error) {
	g, err := uc.grid(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := &model.GridScore{
		ProjectID: projectID,
		Cells:     make([]model.CellScore, 0, len(g.cells)),
	}

	totals := make([]float64, 0, len(g.cells))
	for _, cell := range g.cells {
		score := model.CellScore{
			AttributeID:   cell.AttributeID(),
			AttributeName: cell.Attribute().Name,
			ComponentID:   cell.ComponentID(),
			ComponentName: cell.Component().Name,
			Capabilities:  len(cell.Capabilities()),
		}
		for _, p := range g.providers {
			s := p.CalculateRisk(cell)
			score.Scores = append(score.Scores, model.ProviderScore{Provider: p.Name(), Score: s})
			score.Total += s
		}
		result.Cells = append(result.Cells, score)
		totals = append(totals, score.Total)
	}

	result.Summary = summarize(totals)
	for _, p := range g.providers {
		result.Snapshots = append(result.Snapshots, model.ProviderSnapshot{
			Provider:      p.Name(),
			IndexSnapshot: p.Snapshot(),
		})
	}

	return result, nil
}

func summarize(totals []float64) model.GridSummary {
	summary := model.GridSummary{Cells: len(totals)}
	if len(totals) == 0 {
		return summary
	}

	summary.Mean = stat.Mean(totals, nil)
	summary.Min = floats.Min(totals)
	summary.Max = floats.Max(totals)
	if len(totals) > 1 {
		summary.StdDev = stat.StdDev(totals, nil)
	}
	return summary
}

// Detail returns the drill-down of one cell. An empty provider name returns
// the details of every provider.
func (uc *GridUseCase) Detail(ctx context.Context, projectID types.ProjectID, attributeID types.AttributeID, componentID types.ComponentID, provider string) ([]*model.RiskDetail, error) {
	g, err := uc.grid(ctx, projectID)
	if err != nil {
		return nil, err
	}

	cell := model.FindCell(g.cells, attributeID, componentID)
	if cell == nil {
		return nil, goerr.Wrap(ErrCellNotFound, "no such cell",
			goerr.V(ProjectIDKey, projectID),
			goerr.V(AttributeIDKey, attributeID),
			goerr.V(ComponentIDKey, componentID))
	}

	var details []*model.RiskDetail
	for _, p := range g.providers {
		if provider != "" && p.Name() != provider {
			continue
		}
		details = append(details, p.Detail(cell))
	}

	if provider != "" && len(details) == 0 {
		return nil, goerr.Wrap(ErrUnknownProvider, "no provider with that name", goerr.V(ProviderKey, provider))
	}

	return details, nil
}

// Projects lists every project that can be scored
func (uc *GridUseCase) Projects(ctx context.Context) ([]*model.Project, error) {
	projects, err := uc.repo.Project().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}
	return projects, nil
}
