package services

import (
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Rule = NewRuleService(repos.RuleRepo)

	// The posting pipeline: rule selection, template resolution, entry
	// construction, then the orchestrator that ties them to storage.
	ruleSelector := NewRuleEngineService(repos.RuleRepo)
	resolver := NewTemplateResolver()
	builder := NewEntryBuilder(repos.AccountRepo, cfg.BalanceTolerance, cfg.BaseCurrency)
	container.Posting = NewPostingService(ruleSelector, resolver, builder, repos.JournalRepo, repos.AccountRepo)

	container.Journal = NewJournalService(builder, repos.JournalRepo, repos.AccountRepo)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.ReportingRepo, cfg.BalanceTolerance)

	return container
}
