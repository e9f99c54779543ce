// Package action orchestrates the removal of a user from a group: validate,
// authenticate, read the group version, issue the versioned removal. One
// invocation, no internal retries, no state outliving the run.
package action

import (
	"strings"
	"time"
)

// unknownField substitutes for identifiers that were not available when an
// invocation was halted.
const unknownField = "unknown"

// RemovalRequest identifies the membership to remove. Immutable once
// validated. Fields are checked in declaration order, so a request missing
// several fields reports groupId first.
type RemovalRequest struct {
	GroupID      string `json:"groupId" yaml:"groupId" validate:"notblank"`
	UserID       string `json:"userId" yaml:"userId" validate:"notblank"`
	AuthMethodID string `json:"authMethodId" yaml:"authMethodId" validate:"notblank"`
}

// RemovalResult is the structured success document returned to the invoking
// framework.
type RemovalResult struct {
	GroupID      string `json:"groupId" yaml:"groupId"`
	UserID       string `json:"userId" yaml:"userId"`
	AuthMethodID string `json:"authMethodId" yaml:"authMethodId"`
	UserRemoved  bool   `json:"userRemoved" yaml:"userRemoved"`
	RemovedAt    string `json:"removedAt" yaml:"removedAt"`
}

// String renders the result for text output
func (r *RemovalResult) String() string {
	return "removed user " + r.UserID + " from group " + r.GroupID + " at " + r.RemovedAt
}

// HaltResult is the structured document produced when an invocation is
// externally cancelled before completion. It does not guarantee the removal
// occurred; it only records what was known at cancellation time.
type HaltResult struct {
	GroupID          string `json:"groupId" yaml:"groupId"`
	UserID           string `json:"userId" yaml:"userId"`
	AuthMethodID     string `json:"authMethodId" yaml:"authMethodId"`
	Reason           string `json:"reason" yaml:"reason"`
	HaltedAt         string `json:"haltedAt" yaml:"haltedAt"`
	CleanupCompleted bool   `json:"cleanupCompleted" yaml:"cleanupCompleted"`
}

// String renders the halt document for text output
func (h *HaltResult) String() string {
	return "halted (" + h.Reason + ") before removing user " + h.UserID + " from group " + h.GroupID
}

// NewHaltResult builds a best-effort halt document from whatever identifiers
// were available. req may be nil. CleanupCompleted is always true: the
// sequence holds no external resources needing teardown.
func NewHaltResult(req *RemovalRequest, reason string) *HaltResult {
	h := &HaltResult{
		GroupID:          unknownField,
		UserID:           unknownField,
		AuthMethodID:     unknownField,
		Reason:           reason,
		HaltedAt:         time.Now().UTC().Format(time.RFC3339),
		CleanupCompleted: true,
	}
	if h.Reason == "" {
		h.Reason = unknownField
	}

	if req != nil {
		// Whitespace-only identifiers count as unavailable, the same
		// rule validation applies.
		if strings.TrimSpace(req.GroupID) != "" {
			h.GroupID = req.GroupID
		}
		if strings.TrimSpace(req.UserID) != "" {
			h.UserID = req.UserID
		}
		if strings.TrimSpace(req.AuthMethodID) != "" {
			h.AuthMethodID = req.AuthMethodID
		}
	}

	return h
}
