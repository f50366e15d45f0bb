package workflow

import (
	"strings"
	"time"

	"journal-portal-api/models"
)

// Outcome is the full set of derived changes a legal transition produces.
// The caller persists all of it or none of it.
type Outcome struct {
	// Journal is a copy of the input journal with the derived field changes
	// applied. The input is never mutated.
	Journal models.Journal

	// Review is the verdict row to create alongside the status change. Set
	// only for approve and reject events.
	Review *models.JournalReview

	// NoOp marks a repeated publish of an already-published journal with
	// the same publication number: a success that changes nothing.
	NoOp bool
}

// legalSources lists, per event, the statuses the event may fire from.
// EventSubmit is absent because it creates the journal from no status.
var legalSources = map[Event][]Status{
	EventReceive:     {StatusSubmitted},
	EventAssign:      {StatusSubmitted, StatusReceived},
	EventStartReview: {StatusAssigned},
	EventApprove:     {StatusAssigned, StatusBeingReviewed},
	EventReject:      {StatusAssigned, StatusBeingReviewed},
	EventPublish:     {StatusApproved},
	EventUnpublish:   {StatusPublished},
}

func legalFrom(event Event, current Status) bool {
	for _, s := range legalSources[event] {
		if s == current {
			return true
		}
	}
	return false
}

// authorized is the single authorization predicate for every event. Pages
// never re-derive these rules.
func authorized(j models.Journal, event Event, actor Actor) bool {
	switch event {
	case EventSubmit:
		return actor.Role == RolePublisher
	case EventReceive, EventAssign:
		return actor.Role == RoleAdmin || actor.Role == RoleSuperAdmin
	case EventStartReview, EventApprove, EventReject, EventPublish:
		// Only the single assigned reviewer. There is no claim step, so a
		// journal with no reviewer rejects every reviewer.
		return actor.Role == RoleReviewer && j.ReviewerID != nil && *j.ReviewerID == actor.ID
	case EventUnpublish:
		// Any reviewer or admin may unpublish, not only the assigned one.
		return actor.Role == RoleReviewer || actor.Role == RoleAdmin || actor.Role == RoleSuperAdmin
	default:
		return false
	}
}

// Can reports whether actor could trigger event on j in its current status,
// ignoring payload requirements. The UI uses it to decide whether to offer
// the control at all.
func Can(j models.Journal, event Event, actor Actor) bool {
	if !authorized(j, event, actor) {
		return false
	}
	if event == EventSubmit {
		return j.Status == ""
	}
	return legalFrom(event, Status(j.Status))
}

// AllowedEvents lists every event actor could trigger on j right now.
func AllowedEvents(j models.Journal, actor Actor) []Event {
	events := []Event{
		EventReceive, EventAssign, EventStartReview,
		EventApprove, EventReject, EventPublish, EventUnpublish,
	}
	allowed := make([]Event, 0, len(events))
	for _, event := range events {
		if Can(j, event, actor) {
			allowed = append(allowed, event)
		}
	}
	return allowed
}

// Decide is the single entry point for every journal transition. It is a
// pure decision over (journal snapshot, event, actor, payload): no I/O, no
// ambient state, no partial application. On any error the returned Outcome
// is zero and the input journal is untouched.
//
// Authorization is checked before transition validity so unauthorized
// callers learn nothing about the workflow topology.
func Decide(j models.Journal, event Event, actor Actor, p Payload, now time.Time) (Outcome, error) {
	if _, known := legalSources[event]; !known && event != EventSubmit {
		return Outcome{}, ErrInvalidTransition
	}

	if !authorized(j, event, actor) {
		return Outcome{}, ErrUnauthorized
	}

	if event == EventSubmit {
		return decideSubmit(j, actor, p, now)
	}

	current, err := ParseStatus(j.Status)
	if err != nil {
		return Outcome{}, err
	}

	if !legalFrom(event, current) {
		// Repeating publish on an already-published journal with the same
		// effective number is a no-op success rather than a failure.
		if event == EventPublish && current == StatusPublished && publishIsRepeat(j, p) {
			return Outcome{Journal: j, NoOp: true}, nil
		}
		return Outcome{}, ErrInvalidTransition
	}

	if err := validatePayload(j, event, p); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Journal: j}
	out.Journal.UpdatedAt = now

	switch event {
	case EventReceive:
		out.Journal.Status = string(StatusReceived)

	case EventAssign:
		reviewerID := p.ReviewerID
		out.Journal.Status = string(StatusAssigned)
		out.Journal.ReviewerID = &reviewerID
		out.Journal.Reviewer = nil

	case EventStartReview:
		out.Journal.Status = string(StatusBeingReviewed)

	case EventApprove, EventReject:
		verdict := models.ReviewStatusApproved
		out.Journal.Status = string(StatusApproved)
		if event == EventReject {
			verdict = models.ReviewStatusRejected
			out.Journal.Status = string(StatusRejected)
		}
		comments := strings.TrimSpace(p.Comments)
		out.Review = &models.JournalReview{
			JournalID:    j.JournalID,
			ReviewerID:   actor.ID,
			ReviewRound:  len(j.Reviews) + 1,
			ReviewStatus: verdict,
			Comments:     &comments,
			ReviewedAt:   now,
		}

	case EventPublish:
		number := effectivePublicationNumber(j, p)
		publishedAt := now
		out.Journal.Status = string(StatusPublished)
		out.Journal.PublicationNumber = &number
		out.Journal.PublishedDate = &publishedAt

	case EventUnpublish:
		// Status only; publication_number and published_date are retained
		// for a later re-publish.
		out.Journal.Status = string(StatusApproved)
	}

	return out, nil
}

func decideSubmit(j models.Journal, actor Actor, p Payload, now time.Time) (Outcome, error) {
	if j.Status != "" || j.JournalID != 0 {
		return Outcome{}, ErrInvalidTransition
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return Outcome{}, validationErr("title", "title is required")
	}

	return Outcome{
		Journal: models.Journal{
			Title:       title,
			Abstract:    p.Abstract,
			FilePath:    p.FilePath,
			Status:      string(StatusSubmitted),
			PublisherID: actor.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}, nil
}

func validatePayload(j models.Journal, event Event, p Payload) error {
	switch event {
	case EventAssign:
		if p.ReviewerID <= 0 {
			return validationErr("reviewer_id", "a reviewer is required")
		}
		if p.ReviewerRole != RoleReviewer {
			return validationErr("reviewer_id", "assignee must have the reviewer role")
		}
	case EventApprove, EventReject:
		if strings.TrimSpace(p.Comments) == "" {
			return validationErr("comments", "review comments are required")
		}
	case EventPublish:
		if effectivePublicationNumber(j, p) == "" {
			return validationErr("publication_number", "publication number is required")
		}
	}
	return nil
}

// effectivePublicationNumber resolves the number a publish would record: the
// payload value when given, otherwise the number retained from an earlier
// publication.
func effectivePublicationNumber(j models.Journal, p Payload) string {
	if number := strings.TrimSpace(p.PublicationNumber); number != "" {
		return number
	}
	if j.PublicationNumber != nil {
		return strings.TrimSpace(*j.PublicationNumber)
	}
	return ""
}

func publishIsRepeat(j models.Journal, p Payload) bool {
	if j.PublicationNumber == nil {
		return false
	}
	return effectivePublicationNumber(j, p) == strings.TrimSpace(*j.PublicationNumber)
}
