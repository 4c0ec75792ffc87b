package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskgrid/pkg/controller/http"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

var (
	scoreHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	scoreCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	scoreHighStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Padding(0, 1)
	scoreTitleStyle  = lipgloss.NewStyle().Bold(true)
	scoreMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// highRiskTotal marks totals rendered in the warning color
const highRiskTotal = 1.0

func cmdScore() *cli.Command {
	var projectID int64
	var format string
	var appCfg config.AppConfig
	var repoCfg config.Repository

	flags := []cli.Flag{
		projectIDFlag(&projectID),
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"o"},
			Usage:       "Output format [table|json]",
			Value:       "table",
			Destination: &format,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "score",
		Usage: "Print the risk grid of a project",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if format != "table" && format != "json" {
				return goerr.New("unsupported output format", goerr.V("format", format))
			}

			riskCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load risk configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithRiskConfig(riskCfg))
			score, err := uc.Grid.Scores(ctx, types.ProjectID(projectID))
			if err != nil {
				return err
			}

			if format == "json" {
				return httpctrl.EncodeGrid(os.Stdout, score)
			}
			return writeScoreTable(os.Stdout, score)
		},
	}
}

// writeScoreTable renders one row per cell with a column per provider
func writeScoreTable(w io.Writer, score *model.GridScore) error {
	var providers []string
	if len(score.Cells) > 0 {
		for _, s := range score.Cells[0].Scores {
			providers = append(providers, s.Provider)
		}
	}

	headers := append([]string{"Attribute", "Component", "Caps"}, providers...)
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(score.Cells))
	for _, cell := range score.Cells {
		row := []string{cell.AttributeName, cell.ComponentName, strconv.Itoa(cell.Capabilities)}
		for _, s := range cell.Scores {
			row = append(row, strconv.FormatFloat(s.Score, 'f', 2, 64))
		}
		row = append(row, strconv.FormatFloat(cell.Total, 'f', 2, 64))
		rows = append(rows, row)
	}

	totalCol := len(headers) - 1
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return scoreHeaderStyle
			}
			if col == totalCol && row >= 0 && row < len(score.Cells) && score.Cells[row].Total >= highRiskTotal {
				return scoreHighStyle
			}
			return scoreCellStyle
		})

	s := score.Summary
	summary := fmt.Sprintf("cells %d  mean %.2f  stddev %.2f  min %.2f  max %.2f",
		s.Cells, s.Mean, s.StdDev, s.Min, s.Max)

	if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		scoreTitleStyle.Render(fmt.Sprintf("Project %d", score.ProjectID)),
		t.Render(),
		scoreMutedStyle.Render(summary)); err != nil {
		return goerr.Wrap(err, "failed to write grid score")
	}
	return nil
}
