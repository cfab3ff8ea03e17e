package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// PostEventRequest is the payload an event adapter submits for rule-driven
// posting. EventData is the flat field map the adapter owns the semantics of.
type PostEventRequest struct {
	SourceType   string           `json:"sourceType" binding:"required"`
	SourceID     string           `json:"sourceID" binding:"required"`
	TriggerEvent string           `json:"triggerEvent" binding:"required"`
	EventDate    time.Time        `json:"eventDate" binding:"required"`
	EventData    domain.EventData `json:"eventData" binding:"required"`
}

// PostEventResponse reports what the posting engine did with the event.
type PostEventResponse struct {
	Outcome string                `json:"outcome"` // POSTED, ALREADY_POSTED, NO_MATCHING_RULE
	Entry   *JournalEntryResponse `json:"entry,omitempty"`
}

// ReverseEntryRequest asks for a compensating entry against a posted entry.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}
