package workflow

import (
	"fmt"

	"journal-portal-api/models"
)

// Status is a journal's position in the publication lifecycle. The set is
// closed: the engine rejects any value outside it instead of passing it
// through.
type Status string

const (
	StatusSubmitted     Status = "submitted"
	StatusReceived      Status = "received"
	StatusAssigned      Status = "assigned"
	StatusBeingReviewed Status = "being_reviewed"
	StatusApproved      Status = "approved"
	StatusPublished     Status = "published"
	StatusRejected      Status = "rejected"
)

var allStatuses = []Status{
	StatusSubmitted,
	StatusReceived,
	StatusAssigned,
	StatusBeingReviewed,
	StatusApproved,
	StatusPublished,
	StatusRejected,
}

// Statuses returns the closed set of journal statuses.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts a stored status string into a Status, failing on
// anything outside the closed set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown journal status %q", raw)
	}
	return s, nil
}

// Event names a requested transition.
type Event string

const (
	EventSubmit      Event = "submit"
	EventReceive     Event = "receive"
	EventAssign      Event = "assign"
	EventStartReview Event = "start_review"
	EventApprove     Event = "approve"
	EventReject      Event = "reject"
	EventPublish     Event = "publish"
	EventUnpublish   Event = "unpublish"
)

// Role is an actor's portal role.
type Role string

const (
	RolePublisher  Role = "publisher"
	RoleReviewer   Role = "reviewer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// RoleFromID maps a roles table ID onto a workflow role. Unknown IDs map to
// the empty role, which no authorization rule accepts.
func RoleFromID(roleID int) Role {
	switch roleID {
	case models.RolePublisherID:
		return RolePublisher
	case models.RoleReviewerID:
		return RoleReviewer
	case models.RoleAdminID:
		return RoleAdmin
	case models.RoleSuperAdminID:
		return RoleSuperAdmin
	default:
		return ""
	}
}

// Actor is the user attempting a transition. It is always passed in
// explicitly; the engine never reads identity from ambient state.
type Actor struct {
	ID   int
	Role Role
}

// Payload carries the event-specific request data. Fields not used by the
// requested event are ignored.
type Payload struct {
	// Submit
	Title    string
	Abstract string
	FilePath string

	// Assign: the target reviewer and that user's role as looked up by the
	// caller. The engine has no user store to consult.
	ReviewerID   int
	ReviewerRole Role

	// Approve / Reject
	Comments string

	// Publish. Blank on re-publish reuses the journal's stored number.
	PublicationNumber string
}
