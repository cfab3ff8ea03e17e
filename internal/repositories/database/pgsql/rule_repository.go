package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/models"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = `rule_id, company_id, rule_code, source_type, trigger_event, conditions, template,
	priority, rule_pack_version, financial_year, effective_from, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxRuleRepository reads externally authored posting rules and their usage
// audit trail. Rules are written by the rule-pack loader, never by this
// service, so there is no write path here.
type PgxRuleRepository struct {
	BaseRepository
}

func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

func scanRule(row pgx.Row) (models.PostingRule, error) {
	var m models.PostingRule
	err := row.Scan(
		&m.RuleID,
		&m.CompanyID,
		&m.RuleCode,
		&m.SourceType,
		&m.TriggerEvent,
		&m.Conditions,
		&m.Template,
		&m.Priority,
		&m.RulePackVersion,
		&m.FinancialYear,
		&m.EffectiveFrom,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectRules(rows pgx.Rows) ([]domain.PostingRule, error) {
	defer rows.Close()
	rules := []domain.PostingRule{}
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		d, err := mapping.ToDomainPostingRule(m)
		if err != nil {
			return nil, err
		}
		rules = append(rules, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule rows: %w", err)
	}
	return rules, nil
}

// ListActiveRules retrieves active rules for one (company, source type,
// trigger event) scoped to a financial year.
func (r *PgxRuleRepository) ListActiveRules(ctx context.Context, companyID, sourceType, triggerEvent, financialYear string) ([]domain.PostingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM posting_rules
		WHERE company_id = $1 AND source_type = $2 AND trigger_event = $3 AND financial_year = $4 AND is_active = TRUE
		ORDER BY priority DESC, effective_from DESC;`

	rows, err := r.Pool.Query(ctx, query, companyID, sourceType, triggerEvent, financialYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query active rules for %s/%s: %w", sourceType, triggerEvent, err)
	}
	return collectRules(rows)
}

// FindRuleByID retrieves a single rule.
func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.PostingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM posting_rules WHERE rule_id = $1;`
	m, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rule by ID %s: %w", ruleID, err)
	}
	d, err := mapping.ToDomainPostingRule(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListRules retrieves all rules for a company, optionally filtered by source
// type (empty means all).
func (r *PgxRuleRepository) ListRules(ctx context.Context, companyID string, sourceType string) ([]domain.PostingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM posting_rules WHERE company_id = $1`
	args := []interface{}{companyID}
	if sourceType != "" {
		query += ` AND source_type = $2`
		args = append(args, sourceType)
	}
	query += ` ORDER BY source_type, rule_code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules for company %s: %w", companyID, err)
	}
	return collectRules(rows)
}

func collectUsageLogs(rows pgx.Rows) ([]domain.PostingRuleUsageLog, error) {
	defer rows.Close()
	logs := []domain.PostingRuleUsageLog{}
	for rows.Next() {
		var m models.PostingRuleUsageLog
		if err := rows.Scan(
			&m.LogID,
			&m.RuleID,
			&m.RuleCode,
			&m.EntryID,
			&m.SourceType,
			&m.SourceID,
			&m.EventSnapshot,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage log row: %w", err)
		}
		d, err := mapping.ToDomainRuleUsageLog(m)
		if err != nil {
			return nil, err
		}
		logs = append(logs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage log rows: %w", err)
	}
	return logs, nil
}

// ListUsageLogsByRule retrieves recent applications of one rule.
func (r *PgxRuleRepository) ListUsageLogsByRule(ctx context.Context, ruleID string, limit int) ([]domain.PostingRuleUsageLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT log_id, rule_id, rule_code, entry_id, source_type, source_id, event_snapshot, created_at
		FROM posting_rule_usage_logs
		WHERE rule_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage logs for rule %s: %w", ruleID, err)
	}
	return collectUsageLogs(rows)
}

// FindUsageLogsBySource retrieves the audit trail for one business event.
func (r *PgxRuleRepository) FindUsageLogsBySource(ctx context.Context, sourceType, sourceID string) ([]domain.PostingRuleUsageLog, error) {
	query := `
		SELECT log_id, rule_id, rule_code, entry_id, source_type, source_id, event_snapshot, created_at
		FROM posting_rule_usage_logs
		WHERE source_type = $1 AND source_id = $2
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage logs for source %s/%s: %w", sourceType, sourceID, err)
	}
	return collectUsageLogs(rows)
}
