package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

// JournalSvcFacade covers the manual-entry and read surface of the ledger.
type JournalSvcFacade interface {
	// CreateManualEntry validates and persists a manually keyed entry through
	// the same balanced-entry path as auto-posting.
	CreateManualEntry(ctx context.Context, companyID string, req dto.CreateManualEntryRequest, actor string) (*domain.JournalEntry, error)

	// PostDraftEntry transitions a draft entry to POSTED.
	PostDraftEntry(ctx context.Context, companyID, entryID, actor string) (*domain.JournalEntry, error)

	// ReverseEntry creates the exact line-wise negation of a posted entry and
	// marks the original REVERSED. Reversals cannot themselves be reversed.
	ReverseEntry(ctx context.Context, companyID, entryID, actor, reason string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
