package usecase

import (
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/secmon-lab/riskgrid/pkg/service/github"
	"github.com/secmon-lab/riskgrid/pkg/service/notion"
	"github.com/secmon-lab/riskgrid/pkg/service/slack"
)

type UseCases struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
	github     github.Service
	notion     notion.Service
	slack      slack.Service

	Grid    *GridUseCase
	Import  *ImportUseCase
	Sync    *SyncUseCase
	Checkin *CheckinUseCase
	Report  *ReportUseCase
}

type Option func(*UseCases)

func WithRiskConfig(cfg *config.RiskConfig) Option {
	return func(uc *UseCases) {
		uc.riskConfig = cfg
	}
}

func WithGitHub(svc github.Service) Option {
	return func(uc *UseCases) {
		uc.github = svc
	}
}

func WithNotion(svc notion.Service) Option {
	return func(uc *UseCases) {
		uc.notion = svc
	}
}

func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slack = svc
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Grid = NewGridUseCase(repo, uc.riskConfig)
	uc.Import = NewImportUseCase(repo)
	uc.Sync = NewSyncUseCase(repo, uc.github, uc.notion)
	uc.Checkin = NewCheckinUseCase(repo)
	uc.Report = NewReportUseCase(repo, uc.Grid, uc.slack)

	return uc
}
