package repositories

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entries.
type EntryReader interface {
	// FindEntryByID retrieves a journal entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of a single entry in line order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// FindEntryBySource retrieves the non-reversal entry generated for a
	// business event, if any.
	FindEntryBySource(ctx context.Context, companyID, sourceType, sourceID string) (*domain.JournalEntry, error)

	// HasPostedFor is the idempotency gate: reports whether a non-reversal
	// entry already exists for the given business event.
	HasPostedFor(ctx context.Context, companyID, sourceType, sourceID string) (bool, error)

	// ListEntries retrieves a paginated list of entries for a company using
	// token-based pagination.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines the write path of the ledger store. All writes for one
// event happen inside a single database transaction.
type EntryWriter interface {
	// SaveEntry persists the entry with its lines, allocates the per-company
	// journal number, applies balance deltas and records the optional rule
	// usage log, all atomically. The storage-layer uniqueness constraint on
	// (company, source type, source id) surfaces concurrent duplicates as
	// apperrors.ErrDuplicate. Unbalanced entries are rejected outright.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, usage *domain.PostingRuleUsageLog) (*domain.JournalEntry, error)

	// SaveReversalEntry persists a reversal entry and flips the original
	// entry's status to REVERSED in the same transaction. Only the original's
	// status and reversal link are touched, never its lines.
	SaveReversalEntry(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)

	// MarkEntryPosted transitions a draft entry to POSTED, applying its
	// balance deltas in the same transaction.
	MarkEntryPosted(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, actor string, now time.Time) error
}

// JournalRepositoryFacade combines the ledger store's read and write surfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}
