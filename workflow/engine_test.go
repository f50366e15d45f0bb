package workflow

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"journal-portal-api/models"
)

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// journalAt builds a journal snapshot in the given status with reviewer 7
// assigned and, for published journals, publication metadata present.
func journalAt(status Status) models.Journal {
	j := models.Journal{
		JournalID:   1,
		Title:       "On the Migration of Swifts",
		Abstract:    "Tracking data from three breeding seasons.",
		FilePath:    "uploads/abc.pdf",
		Status:      string(status),
		PublisherID: 2,
		ReviewerID:  intPtr(7),
		CreatedAt:   testNow.Add(-48 * time.Hour),
		UpdatedAt:   testNow.Add(-24 * time.Hour),
	}
	if status == StatusPublished {
		published := testNow.Add(-12 * time.Hour)
		j.PublicationNumber = strPtr("PUB-2026-001")
		j.PublishedDate = &published
	}
	return j
}

// actorFor returns an actor authorized for the event, so transition-matrix
// failures are about legality, not authorization.
func actorFor(event Event) Actor {
	switch event {
	case EventSubmit:
		return Actor{ID: 2, Role: RolePublisher}
	case EventStartReview, EventApprove, EventReject, EventPublish:
		return Actor{ID: 7, Role: RoleReviewer}
	default:
		return Actor{ID: 9, Role: RoleAdmin}
	}
}

func validPayload(event Event) Payload {
	switch event {
	case EventAssign:
		return Payload{ReviewerID: 7, ReviewerRole: RoleReviewer}
	case EventApprove, EventReject:
		return Payload{Comments: "Good work"}
	case EventPublish:
		return Payload{PublicationNumber: "PUB-2026-009"}
	default:
		return Payload{}
	}
}

func TestTransitionMatrix(t *testing.T) {
	targets := map[Event]map[Status]Status{
		EventReceive: {StatusSubmitted: StatusReceived},
		EventAssign: {
			StatusSubmitted: StatusAssigned,
			StatusReceived:  StatusAssigned,
		},
		EventStartReview: {StatusAssigned: StatusBeingReviewed},
		EventApprove: {
			StatusAssigned:      StatusApproved,
			StatusBeingReviewed: StatusApproved,
		},
		EventReject: {
			StatusAssigned:      StatusRejected,
			StatusBeingReviewed: StatusRejected,
		},
		EventPublish:   {StatusApproved: StatusPublished},
		EventUnpublish: {StatusPublished: StatusApproved},
	}

	events := []Event{
		EventReceive, EventAssign, EventStartReview,
		EventApprove, EventReject, EventPublish, EventUnpublish,
	}

	for _, event := range events {
		for _, status := range Statuses() {
			journal := journalAt(status)
			before := journalAt(status)

			out, err := Decide(journal, event, actorFor(event), validPayload(event), testNow)

			if target, legal := targets[event][status]; legal {
				if err != nil {
					t.Fatalf("%s from %s: expected success, got %v", event, status, err)
				}
				if out.Journal.Status != string(target) {
					t.Fatalf("%s from %s: expected %s, got %s", event, status, target, out.Journal.Status)
				}
				if !out.Journal.UpdatedAt.Equal(testNow) {
					t.Fatalf("%s from %s: updated_at not set", event, status)
				}
			} else {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("%s from %s: expected ErrInvalidTransition, got %v", event, status, err)
				}
			}

			// The input snapshot is never mutated regardless of outcome.
			if !reflect.DeepEqual(journal, before) {
				t.Fatalf("%s from %s: input journal was mutated", event, status)
			}
		}
	}
}

func TestUnknownEventRejected(t *testing.T) {
	journal := journalAt(StatusSubmitted)
	_, err := Decide(journal, Event("escalate"), Actor{ID: 9, Role: RoleAdmin}, Payload{}, testNow)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for unknown event, got %v", err)
	}
}

func TestStrayStatusRejected(t *testing.T) {
	journal := journalAt(StatusSubmitted)
	journal.Status = "in_limbo"

	_, err := Decide(journal, EventReceive, Actor{ID: 9, Role: RoleAdmin}, Payload{}, testNow)
	if err == nil {
		t.Fatal("expected an error for a status outside the closed set")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stray status misreported as authorization failure: %v", err)
	}
}

func TestPublisherCannotAssign(t *testing.T) {
	publisher := Actor{ID: 2, Role: RolePublisher}

	// Unauthorized regardless of journal status.
	for _, status := range Statuses() {
		journal := journalAt(status)
		_, err := Decide(journal, EventAssign, publisher, validPayload(EventAssign), testNow)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("assign by publisher from %s: expected ErrUnauthorized, got %v", status, err)
		}
	}
}

func TestUnauthorizedCheckedBeforeValidity(t *testing.T) {
	// Publish from submitted is both unauthorized for a publisher and an
	// illegal transition; the actor must see the authorization failure so
	// the workflow topology is not leaked.
	journal := journalAt(StatusSubmitted)
	publisher := Actor{ID: 2, Role: RolePublisher}

	_, err := Decide(journal, EventPublish, publisher, Payload{PublicationNumber: "PUB-1"}, testNow)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestOnlyAssignedReviewerActs(t *testing.T) {
	otherReviewer := Actor{ID: 8, Role: RoleReviewer}

	for _, event := range []Event{EventStartReview, EventApprove, EventReject, EventPublish} {
		journal := journalAt(StatusAssigned)
		if event == EventPublish {
			journal = journalAt(StatusApproved)
		}

		_, err := Decide(journal, event, otherReviewer, validPayload(event), testNow)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s by non-assigned reviewer: expected ErrUnauthorized, got %v", event, err)
		}
	}

	// No assigned reviewer at all: there is no claim step, every reviewer
	// is rejected.
	journal := journalAt(StatusAssigned)
	journal.ReviewerID = nil
	_, err := Decide(journal, EventApprove, otherReviewer, validPayload(EventApprove), testNow)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("approve with no assignee: expected ErrUnauthorized, got %v", err)
	}
}

func TestSubmitCreatesJournal(t *testing.T) {
	actor := Actor{ID: 2, Role: RolePublisher}
	payload := Payload{Title: "  On the Migration of Swifts  ", Abstract: "Tracking data."}

	out, err := Decide(models.Journal{}, EventSubmit, actor, payload, testNow)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if out.Journal.Status != string(StatusSubmitted) {
		t.Fatalf("expected submitted, got %s", out.Journal.Status)
	}
	if out.Journal.Title != "On the Migration of Swifts" {
		t.Fatalf("title not trimmed: %q", out.Journal.Title)
	}
	if out.Journal.PublisherID != 2 {
		t.Fatalf("publisher not recorded: %d", out.Journal.PublisherID)
	}
	if !out.Journal.CreatedAt.Equal(testNow) || !out.Journal.UpdatedAt.Equal(testNow) {
		t.Fatal("timestamps not set at submission")
	}

	// Blank title fails validation.
	_, err = Decide(models.Journal{}, EventSubmit, actor, Payload{Title: "   "}, testNow)
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}

	// Submit against an existing journal is illegal.
	_, err = Decide(journalAt(StatusSubmitted), EventSubmit, actor, payload, testNow)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// Only publishers submit.
	_, err = Decide(models.Journal{}, EventSubmit, Actor{ID: 9, Role: RoleAdmin}, payload, testNow)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestScenarioAssignReviewer(t *testing.T) {
	journal := journalAt(StatusSubmitted)
	journal.ReviewerID = nil
	admin := Actor{ID: 9, Role: RoleAdmin}

	out, err := Decide(journal, EventAssign, admin, Payload{ReviewerID: 7, ReviewerRole: RoleReviewer}, testNow)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if out.Journal.Status != string(StatusAssigned) {
		t.Fatalf("expected assigned, got %s", out.Journal.Status)
	}
	if out.Journal.ReviewerID == nil || *out.Journal.ReviewerID != 7 {
		t.Fatalf("reviewer_id not set: %v", out.Journal.ReviewerID)
	}

	// Assigning a user without the reviewer role fails validation.
	_, err = Decide(journal, EventAssign, admin, Payload{ReviewerID: 3, ReviewerRole: RolePublisher}, testNow)
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "reviewer_id" {
		t.Fatalf("expected reviewer_id validation error, got %v", err)
	}

	// Missing reviewer id fails validation too.
	_, err = Decide(journal, EventAssign, admin, Payload{}, testNow)
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScenarioPublishWithoutNumber(t *testing.T) {
	journal := journalAt(StatusApproved)
	before := journalAt(StatusApproved)
	reviewer := Actor{ID: 7, Role: RoleReviewer}

	_, err := Decide(journal, EventPublish, reviewer, Payload{PublicationNumber: ""}, testNow)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validation.Field != "publication_number" {
		t.Fatalf("expected publication_number field, got %s", validation.Field)
	}
	if !reflect.DeepEqual(journal, before) {
		t.Fatal("journal changed on failed publish")
	}
}

func TestScenarioSubmitReview(t *testing.T) {
	journal := journalAt(StatusAssigned)
	reviewer := Actor{ID: 7, Role: RoleReviewer}

	out, err := Decide(journal, EventApprove, reviewer, Payload{Comments: "Good work"}, testNow)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if out.Journal.Status != string(StatusApproved) {
		t.Fatalf("expected approved, got %s", out.Journal.Status)
	}
	if out.Review == nil {
		t.Fatal("expected a review row")
	}
	if out.Review.ReviewStatus != models.ReviewStatusApproved {
		t.Fatalf("expected approved verdict, got %s", out.Review.ReviewStatus)
	}
	if out.Review.ReviewerID != 7 || out.Review.JournalID != 1 {
		t.Fatalf("review row misattributed: %+v", out.Review)
	}
	if out.Review.Comments == nil || *out.Review.Comments != "Good work" {
		t.Fatalf("comments not recorded: %v", out.Review.Comments)
	}
	if out.Review.ReviewRound != 1 {
		t.Fatalf("expected review round 1, got %d", out.Review.ReviewRound)
	}

	// A second verdict on a journal with history increments the round.
	journal.Reviews = []models.JournalReview{{ReviewID: 11, ReviewStatus: models.ReviewStatusRejected}}
	out, err = Decide(journal, EventReject, reviewer, Payload{Comments: "Methodology flawed"}, testNow)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if out.Journal.Status != string(StatusRejected) {
		t.Fatalf("expected rejected, got %s", out.Journal.Status)
	}
	if out.Review.ReviewRound != 2 {
		t.Fatalf("expected review round 2, got %d", out.Review.ReviewRound)
	}

	// Blank comments fail validation for either verdict.
	var validation *ValidationError
	_, err = Decide(journalAt(StatusAssigned), EventReject, reviewer, Payload{Comments: "   "}, testNow)
	if !errors.As(err, &validation) || validation.Field != "comments" {
		t.Fatalf("expected comments validation error, got %v", err)
	}
}

func TestScenarioUnpublishByAnyReviewer(t *testing.T) {
	journal := journalAt(StatusPublished)

	// A reviewer who is not the assigned one may still unpublish.
	out, err := Decide(journal, EventUnpublish, Actor{ID: 8, Role: RoleReviewer}, Payload{}, testNow)
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if out.Journal.Status != string(StatusApproved) {
		t.Fatalf("expected approved, got %s", out.Journal.Status)
	}

	// Publication metadata is retained for a later re-publish.
	if out.Journal.PublicationNumber == nil || *out.Journal.PublicationNumber != "PUB-2026-001" {
		t.Fatalf("publication_number cleared: %v", out.Journal.PublicationNumber)
	}
	if out.Journal.PublishedDate == nil {
		t.Fatal("published_date cleared")
	}

	// Publishers may not unpublish.
	_, err = Decide(journal, EventUnpublish, Actor{ID: 2, Role: RolePublisher}, Payload{}, testNow)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRepeatPublishIsNoOp(t *testing.T) {
	journal := journalAt(StatusPublished)
	reviewer := Actor{ID: 7, Role: RoleReviewer}

	// Same number: no-op success, state observably identical.
	out, err := Decide(journal, EventPublish, reviewer, Payload{PublicationNumber: "PUB-2026-001"}, testNow)
	if err != nil {
		t.Fatalf("repeat publish failed: %v", err)
	}
	if !out.NoOp {
		t.Fatal("expected a no-op outcome")
	}
	if !reflect.DeepEqual(out.Journal, journal) {
		t.Fatal("no-op publish changed the journal")
	}

	// Blank number reuses the stored one: still the same state.
	out, err = Decide(journal, EventPublish, reviewer, Payload{}, testNow)
	if err != nil || !out.NoOp {
		t.Fatalf("expected no-op, got (%v, %v)", out.NoOp, err)
	}

	// A different number on a published journal is not a publish.
	_, err = Decide(journal, EventPublish, reviewer, Payload{PublicationNumber: "PUB-2026-002"}, testNow)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRoundTripLifecycle(t *testing.T) {
	publisher := Actor{ID: 2, Role: RolePublisher}
	admin := Actor{ID: 9, Role: RoleAdmin}
	reviewer := Actor{ID: 7, Role: RoleReviewer}

	step := func(j models.Journal, event Event, actor Actor, p Payload) models.Journal {
		t.Helper()
		out, err := Decide(j, event, actor, p, testNow)
		if err != nil {
			t.Fatalf("%s failed: %v", event, err)
		}
		return out.Journal
	}

	out, err := Decide(models.Journal{}, EventSubmit, publisher, Payload{Title: "Swifts"}, testNow)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	j := out.Journal
	j.JournalID = 1 // persistence would assign the id

	j = step(j, EventReceive, admin, Payload{})
	j = step(j, EventAssign, admin, Payload{ReviewerID: 7, ReviewerRole: RoleReviewer})
	j = step(j, EventStartReview, reviewer, Payload{})
	j = step(j, EventApprove, reviewer, Payload{Comments: "Solid"})

	prePublish := j

	j = step(j, EventPublish, reviewer, Payload{PublicationNumber: "PUB-2026-001"})
	if j.PublicationNumber == nil || j.PublishedDate == nil {
		t.Fatal("publication metadata missing after publish")
	}

	j = step(j, EventUnpublish, admin, Payload{})

	// Back to the pre-publish state except the retained publication fields.
	restored := j
	restored.PublicationNumber = prePublish.PublicationNumber
	restored.PublishedDate = prePublish.PublishedDate
	if !reflect.DeepEqual(restored, prePublish) {
		t.Fatalf("round trip diverged:\n pre-publish: %+v\n restored:    %+v", prePublish, restored)
	}

	// Re-publish works and may keep the retained number.
	out, err = Decide(j, EventPublish, reviewer, Payload{}, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("re-publish failed: %v", err)
	}
	if out.Journal.PublicationNumber == nil || *out.Journal.PublicationNumber != "PUB-2026-001" {
		t.Fatalf("retained number not reused: %v", out.Journal.PublicationNumber)
	}
	if out.Journal.PublishedDate == nil || !out.Journal.PublishedDate.Equal(testNow.Add(time.Hour)) {
		t.Fatal("published_date not reset on re-publish")
	}

	// Or replace it explicitly.
	out, err = Decide(j, EventPublish, reviewer, Payload{PublicationNumber: "PUB-2026-002"}, testNow)
	if err != nil {
		t.Fatalf("re-publish with new number failed: %v", err)
	}
	if *out.Journal.PublicationNumber != "PUB-2026-002" {
		t.Fatalf("new number not applied: %v", *out.Journal.PublicationNumber)
	}
}

func TestStatusClosedSet(t *testing.T) {
	for _, status := range Statuses() {
		if !status.Valid() {
			t.Fatalf("%s should be valid", status)
		}
		if parsed, err := ParseStatus(string(status)); err != nil || parsed != status {
			t.Fatalf("ParseStatus(%q) = (%v, %v)", status, parsed, err)
		}
	}
	if len(Statuses()) != 7 {
		t.Fatalf("expected 7 statuses, got %d", len(Statuses()))
	}

	for _, raw := range []string{"", "Submitted", "in_review", "draft"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Fatalf("ParseStatus(%q) should fail", raw)
		}
	}
}

func TestAllowedEvents(t *testing.T) {
	admin := Actor{ID: 9, Role: RoleAdmin}
	assigned := Actor{ID: 7, Role: RoleReviewer}

	events := AllowedEvents(journalAt(StatusSubmitted), admin)
	if !reflect.DeepEqual(events, []Event{EventReceive, EventAssign}) {
		t.Fatalf("admin on submitted: got %v", events)
	}

	events = AllowedEvents(journalAt(StatusAssigned), assigned)
	if !reflect.DeepEqual(events, []Event{EventStartReview, EventApprove, EventReject}) {
		t.Fatalf("assigned reviewer on assigned: got %v", events)
	}

	events = AllowedEvents(journalAt(StatusPublished), Actor{ID: 2, Role: RolePublisher})
	if len(events) != 0 {
		t.Fatalf("publisher on published: got %v", events)
	}
}
