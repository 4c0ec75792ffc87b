package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/service/slack"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	goslack "github.com/slack-go/slack"
)

const defaultReportTop = 10

// ReportUseCase posts grid summaries to Slack
type ReportUseCase struct {
	repo         interfaces.Repository
	grid         *GridUseCase
	slackService slack.Service
}

func NewReportUseCase(repo interfaces.Repository, grid *GridUseCase, slackService slack.Service) *ReportUseCase {
	return &ReportUseCase{
		repo:         repo,
		grid:         grid,
		slackService: slackService,
	}
}

// ReportInput selects the project, the destination and how many cells to list
type ReportInput struct {
	ProjectID types.ProjectID
	// Channel is a channel ID or "#name"
	Channel string
	Top     int
	// BaseURL links each cell to its detail endpoint when set
	BaseURL string
}

// TopCells returns the n cells with the highest total. Cells with equal
// totals keep grid order.
func TopCells(score *model.GridScore, n int) []model.CellScore {
	cells := slices.Clone(score.Cells)
	slices.SortStableFunc(cells, func(a, b model.CellScore) int {
		return cmp.Compare(b.Total, a.Total)
	})
	if n > 0 && len(cells) > n {
		cells = cells[:n]
	}
	return cells
}

func formatScores(scores []model.ProviderScore) string {
	parts := make([]string, 0, len(scores))
	for _, s := range scores {
		parts = append(parts, fmt.Sprintf("%s %+.2f", s.Provider, s.Score))
	}
	return strings.Join(parts, "  |  ")
}

// buildReportBlocks constructs Block Kit blocks for a risk report message.
func buildReportBlocks(project *model.Project, score *model.GridScore, top []model.CellScore, baseURL string) []goslack.Block {
	blocks := []goslack.Block{
		goslack.NewHeaderBlock(
			goslack.NewTextBlockObject(goslack.PlainTextType, "Risk report: "+project.Name, true, false),
		),
		goslack.NewContextBlock("",
			goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf(
				"%d cells  |  mean %.2f  |  stddev %.2f  |  max %.2f",
				score.Summary.Cells, score.Summary.Mean, score.Summary.StdDev, score.Summary.Max,
			), false, false),
		),
		goslack.NewDividerBlock(),
	}

	if len(top) == 0 {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, "_The grid has no cells._", false, false),
			nil, nil,
		))
		return blocks
	}

	for i, cell := range top {
		title := fmt.Sprintf("*%d. %s x %s*  total *%.2f*", i+1, cell.AttributeName, cell.ComponentName, cell.Total)
		if baseURL != "" {
			link := fmt.Sprintf("%s/api/projects/%d/cells/%d/%d/details",
				strings.TrimSuffix(baseURL, "/"), project.ID, cell.AttributeID, cell.ComponentID)
			title += fmt.Sprintf("  <%s|details>", link)
		}

		blocks = append(blocks,
			goslack.NewSectionBlock(
				goslack.NewTextBlockObject(goslack.MarkdownType, title, false, false),
				nil, nil,
			),
			goslack.NewContextBlock("",
				goslack.NewTextBlockObject(goslack.MarkdownType,
					fmt.Sprintf("%d capabilities  |  %s", cell.Capabilities, formatScores(cell.Scores)), false, false),
			),
		)
	}

	return blocks
}

// Post scores the project and posts its highest-risk cells
func (uc *ReportUseCase) Post(ctx context.Context, input ReportInput) (string, error) {
	if uc.slackService == nil {
		return "", goerr.Wrap(ErrSourceNotEnabled, "Slack is not configured")
	}

	project, err := getProject(ctx, uc.repo, input.ProjectID)
	if err != nil {
		return "", err
	}

	score, err := uc.grid.Scores(ctx, input.ProjectID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to score grid", goerr.V(ProjectIDKey, input.ProjectID))
	}

	n := input.Top
	if n <= 0 {
		n = defaultReportTop
	}
	top := TopCells(score, n)

	channelID, err := uc.slackService.ResolveChannel(ctx, input.Channel)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve channel", goerr.V("channel", input.Channel))
	}

	blocks := buildReportBlocks(project, score, top, input.BaseURL)
	fallbackText := fmt.Sprintf("Risk report for %s", project.Name)
	ts, err := uc.slackService.PostMessage(ctx, channelID, blocks, fallbackText)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post risk report",
			goerr.V(ProjectIDKey, input.ProjectID),
			goerr.V("channel_id", channelID))
	}

	logging.From(ctx).Info("risk report posted",
		ProjectIDKey, input.ProjectID,
		"channel_id", channelID,
		"cells", len(top),
		"ts", ts,
	)

	return ts, nil
}
