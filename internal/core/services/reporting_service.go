package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// subtypeOther labels accounts without an explicit subtype in grouped
// statements.
const subtypeOther = "OTHER"

// currentPeriodEarnings is the synthetic equity group carrying the net
// result of income/expense activity, so the balance sheet reflects
// unclosed-period profit without force-balancing anything.
const currentPeriodEarnings = "CURRENT_PERIOD_EARNINGS"

// reportingService computes financial reports over committed entries. All
// aggregation math lives here; the repository only returns raw per-account
// sums and lines.
type reportingService struct {
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
	tolerance     decimal.Decimal
}

// NewReportingService creates a new reporting service.
func NewReportingService(accountRepo portsrepo.AccountReader, reportingRepo portsrepo.ReportingRepository, tolerance decimal.Decimal) portssvc.ReportingSvcFacade {
	return &reportingService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		tolerance:     tolerance,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance computes per-account opening, period movement and closing as
// of a date. Closing balances split into debit/credit presentation columns
// by each account's normal balance; a global debit/credit mismatch rides
// along as a data-quality alert, never as an error.
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time, includeZeroBalances bool) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for trial balance: %w", err)
	}
	totals, err := s.reportingRepo.GetActivityTotalsAsOf(ctx, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity for trial balance: %w", err)
	}

	report := &domain.TrialBalanceReport{
		CompanyID:   companyID,
		AsOf:        asOf,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, account := range accounts {
		activity := totals[account.AccountID]
		closing := account.OpeningBalance.Add(account.SignedDelta(activity.TotalDebit, activity.TotalCredit))

		if !includeZeroBalances &&
			account.OpeningBalance.IsZero() && activity.TotalDebit.IsZero() &&
			activity.TotalCredit.IsZero() && closing.IsZero() {
			continue
		}

		row := domain.TrialBalanceRow{
			AccountID:      account.AccountID,
			AccountCode:    account.Code,
			AccountName:    account.Name,
			AccountType:    account.AccountType,
			NormalBalance:  account.NormalBalance,
			OpeningBalance: account.OpeningBalance,
			PeriodDebit:    activity.TotalDebit,
			PeriodCredit:   activity.TotalCredit,
			ClosingBalance: closing,
		}
		row.DebitColumn, row.CreditColumn = presentationColumns(account.NormalBalance, closing)
		report.TotalDebit = report.TotalDebit.Add(row.DebitColumn)
		report.TotalCredit = report.TotalCredit.Add(row.CreditColumn)
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].AccountCode < report.Rows[j].AccountCode
	})

	if diff := report.TotalDebit.Sub(report.TotalCredit); diff.Abs().GreaterThan(s.tolerance) {
		logger.Warn("Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("difference", diff.String()))
		report.Alerts = append(report.Alerts, domain.DataQualityAlert{
			Code:     "TRIAL_BALANCE_MISMATCH",
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("total debits %s and credits %s differ by %s", report.TotalDebit, report.TotalCredit, diff),
			Amount:   diff,
		})
	}
	return report, nil
}

// presentationColumns places a closing balance into the account's normal
// column, flipping sides when the balance runs negative.
func presentationColumns(normal domain.NormalBalance, closing decimal.Decimal) (debit, credit decimal.Decimal) {
	if closing.IsNegative() {
		if normal == domain.NormalDebit {
			return decimal.Zero, closing.Neg()
		}
		return closing.Neg(), decimal.Zero
	}
	if normal == domain.NormalDebit {
		return closing, decimal.Zero
	}
	return decimal.Zero, closing
}

// AccountLedger returns the drill-down of one account: an opening balance
// computed from all activity strictly before the window, then chronological
// lines with a running balance in the account's presentation convention.
func (s *reportingService) AccountLedger(ctx context.Context, companyID, accountID string, from, to time.Time) (*domain.AccountLedgerReport, error) {
	account, err := s.companyAccount(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	before, err := s.reportingRepo.GetActivityTotalBefore(ctx, companyID, accountID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	opening := account.OpeningBalance.Add(account.SignedDelta(before.TotalDebit, before.TotalCredit))

	lines, err := s.reportingRepo.GetAccountLedgerLines(ctx, companyID, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger lines: %w", err)
	}

	running := opening
	for i := range lines {
		running = running.Add(account.SignedDelta(lines[i].Debit, lines[i].Credit))
		lines[i].RunningBalance = running
	}

	return &domain.AccountLedgerReport{
		Account:        *account,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          lines,
		ClosingBalance: running,
	}, nil
}

// IncomeStatement sums income and expense activity for a period, grouped by
// account subtype. Net profit is income minus expenses.
func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, from, to time.Time) (*domain.IncomeStatementReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for income statement: %w", err)
	}
	totals, err := s.reportingRepo.GetActivityTotalsBetween(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity for income statement: %w", err)
	}

	incomeAmounts := make(map[string][]domain.AccountAmount)
	expenseAmounts := make(map[string][]domain.AccountAmount)
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero

	for _, account := range accounts {
		activity, ok := totals[account.AccountID]
		if !ok {
			continue
		}
		net := account.SignedDelta(activity.TotalDebit, activity.TotalCredit)
		amount := domain.AccountAmount{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			Name:        account.Name,
			Amount:      net,
		}
		subtype := account.SubType
		if subtype == "" {
			subtype = subtypeOther
		}
		switch account.AccountType {
		case domain.Income:
			incomeAmounts[subtype] = append(incomeAmounts[subtype], amount)
			totalIncome = totalIncome.Add(net)
		case domain.Expense:
			expenseAmounts[subtype] = append(expenseAmounts[subtype], amount)
			totalExpense = totalExpense.Add(net)
		}
	}

	return &domain.IncomeStatementReport{
		CompanyID:    companyID,
		From:         from,
		To:           to,
		Income:       toSubtypeGroups(incomeAmounts),
		Expenses:     toSubtypeGroups(expenseAmounts),
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		NetProfit:    totalIncome.Sub(totalExpense),
	}, nil
}

// BalanceSheet computes asset/liability/equity balances as of a date.
// Income and expense activity up to the date appears as a synthetic
// current-period-earnings equity group. The accounting identity is checked
// and reported, never force-balanced: a discrepancy takes an explicit
// correcting entry to fix.
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for balance sheet: %w", err)
	}
	totals, err := s.reportingRepo.GetActivityTotalsAsOf(ctx, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity for balance sheet: %w", err)
	}

	grouped := map[domain.AccountType]map[string][]domain.AccountAmount{
		domain.Asset:     {},
		domain.Liability: {},
		domain.Equity:    {},
	}
	sums := map[domain.AccountType]decimal.Decimal{
		domain.Asset:     decimal.Zero,
		domain.Liability: decimal.Zero,
		domain.Equity:    decimal.Zero,
	}
	earnings := decimal.Zero

	for _, account := range accounts {
		activity := totals[account.AccountID]
		closing := account.OpeningBalance.Add(account.SignedDelta(activity.TotalDebit, activity.TotalCredit))

		switch account.AccountType {
		case domain.Income:
			earnings = earnings.Add(closing)
			continue
		case domain.Expense:
			earnings = earnings.Sub(closing)
			continue
		}

		if closing.IsZero() {
			continue
		}
		subtype := account.SubType
		if subtype == "" {
			subtype = subtypeOther
		}
		grouped[account.AccountType][subtype] = append(grouped[account.AccountType][subtype], domain.AccountAmount{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			Name:        account.Name,
			Amount:      closing,
		})
		sums[account.AccountType] = sums[account.AccountType].Add(closing)
	}

	equityGroups := toSubtypeGroups(grouped[domain.Equity])
	if !earnings.IsZero() {
		equityGroups = append(equityGroups, domain.SubtypeGroup{
			SubType: currentPeriodEarnings,
			Accounts: []domain.AccountAmount{
				{Name: "Current Period Earnings", Amount: earnings},
			},
			Total: earnings,
		})
		sums[domain.Equity] = sums[domain.Equity].Add(earnings)
	}

	report := &domain.BalanceSheetReport{
		CompanyID:        companyID,
		AsOf:             asOf,
		Assets:           toSubtypeGroups(grouped[domain.Asset]),
		Liabilities:      toSubtypeGroups(grouped[domain.Liability]),
		Equity:           equityGroups,
		TotalAssets:      sums[domain.Asset],
		TotalLiabilities: sums[domain.Liability],
		TotalEquity:      sums[domain.Equity],
	}
	report.Difference = report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity))
	if report.Difference.Abs().GreaterThan(s.tolerance) {
		report.Alerts = append(report.Alerts, domain.DataQualityAlert{
			Code:     "BALANCE_SHEET_MISMATCH",
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("assets differ from liabilities plus equity by %s", report.Difference),
			Amount:   report.Difference,
		})
	}
	return report, nil
}

// AbnormalBalances lists accounts whose actual balance sign contradicts
// their normal balance, excluding declared contra accounts.
func (s *reportingService) AbnormalBalances(ctx context.Context, companyID string) (*domain.AbnormalBalanceReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for abnormal balance report: %w", err)
	}

	report := &domain.AbnormalBalanceReport{
		CompanyID: companyID,
		AsOf:      time.Now().UTC(),
	}
	for _, account := range accounts {
		if account.IsContra || !account.CurrentBalance.IsNegative() {
			continue
		}
		severity := domain.SeverityWarning
		if account.Classification() == domain.ClassControl ||
			account.AccountType == domain.Asset || account.AccountType == domain.Liability {
			severity = domain.SeverityCritical
		}
		report.Accounts = append(report.Accounts, domain.AbnormalAccount{
			AccountID:     account.AccountID,
			AccountCode:   account.Code,
			AccountName:   account.Name,
			AccountType:   account.AccountType,
			NormalBalance: account.NormalBalance,
			Balance:       account.CurrentBalance,
			Severity:      severity,
			ProbableCause: probableCause(account),
		})
	}
	sort.Slice(report.Accounts, func(i, j int) bool {
		return report.Accounts[i].AccountCode < report.Accounts[j].AccountCode
	})
	return report, nil
}

// probableCause suggests a likely explanation for a sign anomaly based on
// the account's regime, falling back to its fundamental type.
func probableCause(account domain.Account) string {
	switch account.Classification() {
	case domain.ClassControl:
		if account.ControlAccountType == domain.SubledgerVendor {
			return "payments to vendors may exceed recorded bills, or an opening balance is missing"
		}
		return "receipts from customers may exceed recorded invoices, or an opening balance is missing"
	case domain.ClassLegacyParty:
		return "party ledger runs against its normal side; check unapplied payments or a missing opening balance"
	}
	switch {
	case account.AccountType == domain.Asset:
		return "credits exceed debits; check for missing purchase or opening entries"
	case account.AccountType == domain.Liability:
		return "debits exceed credits; check for duplicate payments or missing bills"
	case account.AccountType == domain.Income:
		return "income account carries a net debit; check refunds and reversal entries"
	case account.AccountType == domain.Expense:
		return "expense account carries a net credit; check reclassification entries"
	default:
		return "balance sign contradicts the account's normal balance"
	}
}

// Aging buckets each party's outstanding balance by the age of the
// originating entries as of the reference date.
func (s *reportingService) Aging(ctx context.Context, companyID string, partyType domain.SubledgerType, asOf time.Time) (*domain.AgingReport, error) {
	lines, err := s.reportingRepo.GetSubledgerLines(ctx, companyID, partyType, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load subledger lines for aging: %w", err)
	}

	rowsByParty := make(map[string]*domain.PartyAgingRow)
	for _, line := range lines {
		row, ok := rowsByParty[line.PartyID]
		if !ok {
			row = &domain.PartyAgingRow{PartyType: partyType, PartyID: line.PartyID}
			rowsByParty[line.PartyID] = row
		}
		amount := partySignedAmount(partyType, line.Debit, line.Credit)
		bucketAdd(row, ageInDays(line.EntryDate, asOf), amount)
	}

	report := &domain.AgingReport{
		CompanyID: companyID,
		PartyType: partyType,
		AsOf:      asOf,
		Totals:    domain.PartyAgingRow{PartyType: partyType},
	}
	for _, row := range rowsByParty {
		if row.Total.IsZero() &&
			row.Current.IsZero() && row.Days1To30.IsZero() &&
			row.Days31To60.IsZero() && row.Days61To90.IsZero() && row.Over90.IsZero() {
			continue
		}
		report.Rows = append(report.Rows, *row)
		report.Totals.Current = report.Totals.Current.Add(row.Current)
		report.Totals.Days1To30 = report.Totals.Days1To30.Add(row.Days1To30)
		report.Totals.Days31To60 = report.Totals.Days31To60.Add(row.Days31To60)
		report.Totals.Days61To90 = report.Totals.Days61To90.Add(row.Days61To90)
		report.Totals.Over90 = report.Totals.Over90.Add(row.Over90)
		report.Totals.Total = report.Totals.Total.Add(row.Total)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].PartyID < report.Rows[j].PartyID
	})
	return report, nil
}

// partySignedAmount converts a debit/credit pair into the party's
// outstanding convention: payables grow with credits, receivables with
// debits.
func partySignedAmount(partyType domain.SubledgerType, debit, credit decimal.Decimal) decimal.Decimal {
	if partyType == domain.SubledgerVendor {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// ageInDays computes whole days between the entry date and the reference
// date; same-day and future-dated entries age zero.
func ageInDays(entryDate, asOf time.Time) int {
	days := int(asOf.Sub(entryDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// bucketAdd assigns an amount to the standard aging buckets.
func bucketAdd(row *domain.PartyAgingRow, days int, amount decimal.Decimal) {
	switch {
	case days <= 0:
		row.Current = row.Current.Add(amount)
	case days <= 30:
		row.Days1To30 = row.Days1To30.Add(amount)
	case days <= 60:
		row.Days31To60 = row.Days31To60.Add(amount)
	case days <= 90:
		row.Days61To90 = row.Days61To90.Add(amount)
	default:
		row.Over90 = row.Over90.Add(amount)
	}
	row.Total = row.Total.Add(amount)
}

// PartyLedger returns the chronological movements for one party across both
// chart regimes, with a running balance in the party's outstanding
// convention.
func (s *reportingService) PartyLedger(ctx context.Context, companyID string, partyType domain.SubledgerType, partyID string, from, to time.Time) (*domain.PartyLedgerReport, error) {
	subLines, err := s.reportingRepo.GetPartyLedgerLines(ctx, companyID, partyType, partyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load party ledger lines: %w", err)
	}

	running := decimal.Zero
	lines := make([]domain.LedgerLine, len(subLines))
	for i, sub := range subLines {
		running = running.Add(partySignedAmount(partyType, sub.Debit, sub.Credit))
		lines[i] = domain.LedgerLine{
			EntryID:        sub.EntryID,
			JournalNumber:  sub.JournalNumber,
			EntryDate:      sub.EntryDate,
			Description:    sub.Description,
			Debit:          sub.Debit,
			Credit:         sub.Credit,
			RunningBalance: running,
		}
	}

	return &domain.PartyLedgerReport{
		CompanyID: companyID,
		PartyType: partyType,
		PartyID:   partyID,
		From:      from,
		To:        to,
		Lines:     lines,
		Balance:   running,
	}, nil
}

// ControlAccountReconciliation compares each control account's computed
// balance against the sum of its subledger-tagged line movements. Drift is a
// data-integrity finding to surface, never to silently patch.
func (s *reportingService) ControlAccountReconciliation(ctx context.Context, companyID string, asOf time.Time) (*domain.ControlReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	controls, err := s.accountRepo.ListControlAccounts(ctx, companyID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list control accounts: %w", err)
	}
	totals, err := s.reportingRepo.GetActivityTotalsAsOf(ctx, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity for reconciliation: %w", err)
	}

	report := &domain.ControlReconciliationReport{CompanyID: companyID, AsOf: asOf}
	for _, partyType := range []domain.SubledgerType{domain.SubledgerVendor, domain.SubledgerCustomer} {
		lines, err := s.reportingRepo.GetSubledgerLines(ctx, companyID, partyType, asOf)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s subledger lines: %w", partyType, err)
		}
		for _, control := range controls {
			if control.ControlAccountType != partyType {
				continue
			}
			activity := totals[control.AccountID]
			controlBalance := control.OpeningBalance.Add(control.SignedDelta(activity.TotalDebit, activity.TotalCredit))

			subledgerTotal := control.OpeningBalance
			for _, line := range lines {
				if line.AccountID != control.AccountID {
					continue
				}
				subledgerTotal = subledgerTotal.Add(control.SignedDelta(line.Debit, line.Credit))
			}

			diff := controlBalance.Sub(subledgerTotal)
			row := domain.ControlReconciliationRow{
				AccountID:      control.AccountID,
				AccountCode:    control.Code,
				AccountName:    control.Name,
				ControlType:    partyType,
				ControlBalance: controlBalance,
				SubledgerTotal: subledgerTotal,
				Difference:     diff,
				Reconciled:     diff.Abs().LessThanOrEqual(s.tolerance),
			}
			report.Rows = append(report.Rows, row)
			if !row.Reconciled {
				logger.Warn("Control account out of step with subledger",
					slog.String("account_code", control.Code),
					slog.String("difference", diff.String()))
				report.Alerts = append(report.Alerts, domain.DataQualityAlert{
					Code:      "CONTROL_SUBLEDGER_DRIFT",
					Severity:  domain.SeverityCritical,
					Message:   fmt.Sprintf("control account %s differs from its subledger by %s; untagged lines are the usual cause", control.Code, diff),
					AccountID: control.AccountID,
					Amount:    diff,
				})
			}
		}
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].AccountCode < report.Rows[j].AccountCode
	})
	return report, nil
}

// toSubtypeGroups orders grouped account amounts deterministically.
func toSubtypeGroups(bySubtype map[string][]domain.AccountAmount) []domain.SubtypeGroup {
	groups := make([]domain.SubtypeGroup, 0, len(bySubtype))
	for subtype, accounts := range bySubtype {
		sort.Slice(accounts, func(i, j int) bool {
			return accounts[i].AccountCode < accounts[j].AccountCode
		})
		total := decimal.Zero
		for _, a := range accounts {
			total = total.Add(a.Amount)
		}
		groups = append(groups, domain.SubtypeGroup{SubType: subtype, Accounts: accounts, Total: total})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].SubType < groups[j].SubType
	})
	return groups
}

// companyAccount fetches an account and verifies company ownership.
func (s *reportingService) companyAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}
