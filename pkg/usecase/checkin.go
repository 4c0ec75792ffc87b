package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/sourcegraph/go-diff/diff"
)

// CheckinUseCase records code changes given as unified diffs
type CheckinUseCase struct {
	repo interfaces.Repository
}

func NewCheckinUseCase(repo interfaces.Repository) *CheckinUseCase {
	return &CheckinUseCase{repo: repo}
}

// CheckinInput describes one change. Diff is a unified diff, possibly
// spanning several files.
type CheckinInput struct {
	ProjectID   types.ProjectID
	ExternalID  int64
	Summary     string
	URL         string
	PathPrefix  string
	Diff        []byte
	Association model.Association
	SubmittedAt time.Time
}

// DiffFiles returns the paths of every file a unified diff touches. Renamed
// files contribute both names. The git "a/" prefix is removed from the old
// name and "b/" from the new one.
func DiffFiles(data []byte) ([]string, error) {
	fileDiffs, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidDiff, err), "failed to parse diff")
	}

	var files []string
	add := func(name, prefix string) {
		if name == "" || name == "/dev/null" {
			return
		}
		files = append(files, strings.TrimPrefix(name, prefix))
	}
	for _, fd := range fileDiffs {
		add(fd.OrigName, "a/")
		add(fd.NewName, "b/")
	}
	if len(files) == 0 {
		return nil, goerr.Wrap(ErrInvalidDiff, "diff touches no files")
	}
	return files, nil
}

// Record stores a checkin whose directories are the directories of the files
// in the diff. A checkin with a known external ID replaces the stored one.
func (uc *CheckinUseCase) Record(ctx context.Context, input CheckinInput) (*model.Checkin, error) {
	if input.ExternalID <= 0 {
		return nil, goerr.Wrap(ErrInvalidCheckin, "checkin ID must be positive", goerr.V("checkin_id", input.ExternalID))
	}
	if _, err := getProject(ctx, uc.repo, input.ProjectID); err != nil {
		return nil, err
	}

	files, err := DiffFiles(input.Diff)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid checkin diff", goerr.V("checkin_id", input.ExternalID))
	}

	submitted := input.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now().UTC()
	}

	checkin := &model.Checkin{
		ExternalID:  input.ExternalID,
		ProjectID:   input.ProjectID,
		Summary:     input.Summary,
		Directories: touchedDirectories(input.PathPrefix, files),
		ChangeURL:   input.URL,
		State:       "SUBMITTED",
		Association: input.Association,
		SubmittedAt: submitted,
	}

	if err := uc.repo.Checkin().SaveMany(ctx, input.ProjectID, []*model.Checkin{checkin}); err != nil {
		return nil, goerr.Wrap(err, "failed to save checkin",
			goerr.V(ProjectIDKey, input.ProjectID),
			goerr.V("checkin_id", input.ExternalID))
	}

	logging.From(ctx).Info("checkin recorded",
		ProjectIDKey, input.ProjectID,
		"checkin_id", checkin.ExternalID,
		"directories", checkin.Directories,
	)

	return checkin, nil
}
