package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"journal-portal-api/models"
	"journal-portal-api/workflow"

	"gorm.io/gorm"
)

// ErrPersistence marks a transition that failed at the database rather than
// in the workflow decision. Callers may retry the same transition: nothing
// was applied.
var ErrPersistence = errors.New("persistence failure")

// RequestMeta carries request attribution for the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type JournalService struct {
	db *gorm.DB
}

func NewJournalService(db *gorm.DB) *JournalService {
	return &JournalService{db: db}
}

// GetJournal loads a journal with its publisher, reviewer and chronological
// reviews.
func (s *JournalService) GetJournal(id int) (*models.Journal, error) {
	var journal models.Journal
	err := s.db.Preload("Publisher").
		Preload("Reviewer").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviewed_at ASC")
		}).
		Preload("Reviews.Reviewer").
		Where("journal_id = ? AND delete_at IS NULL", id).
		First(&journal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load journal: %v", ErrPersistence, err)
	}
	return &journal, nil
}

// ListJournals returns the journals the actor may see: publishers their own
// submissions, reviewers their assignments, admins everything.
func (s *JournalService) ListJournals(actor workflow.Actor) ([]models.Journal, error) {
	query := s.db.Preload("Publisher").Preload("Reviewer").
		Where("delete_at IS NULL")

	switch actor.Role {
	case workflow.RolePublisher:
		query = query.Where("publisher_id = ?", actor.ID)
	case workflow.RoleReviewer:
		query = query.Where("reviewer_id = ?", actor.ID)
	case workflow.RoleAdmin, workflow.RoleSuperAdmin:
		// no filter
	default:
		return []models.Journal{}, nil
	}

	var journals []models.Journal
	if err := query.Order("updated_at DESC").Find(&journals).Error; err != nil {
		return nil, fmt.Errorf("%w: list journals: %v", ErrPersistence, err)
	}
	return journals, nil
}

// ListPublished returns the public listing of published journals, newest
// publication first.
func (s *JournalService) ListPublished() ([]models.Journal, error) {
	var journals []models.Journal
	err := s.db.Preload("Publisher").
		Where("status = ? AND delete_at IS NULL", string(workflow.StatusPublished)).
		Order("published_date DESC").
		Find(&journals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list published: %v", ErrPersistence, err)
	}
	return journals, nil
}

// ListReviewers returns all active users holding the reviewer role.
func (s *JournalService) ListReviewers() ([]models.User, error) {
	var reviewers []models.User
	err := s.db.Where("role_id = ? AND delete_at IS NULL", models.RoleReviewerID).
		Order("user_fname ASC").
		Find(&reviewers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list reviewers: %v", ErrPersistence, err)
	}
	return reviewers, nil
}

// ListReviews returns a journal's reviews in chronological order.
func (s *JournalService) ListReviews(journalID int) ([]models.JournalReview, error) {
	var reviews []models.JournalReview
	err := s.db.Preload("Reviewer").
		Where("journal_id = ?", journalID).
		Order("reviewed_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list reviews: %v", ErrPersistence, err)
	}
	return reviews, nil
}

// GetReviewerForAssignment looks up the assignment target so the workflow
// payload can carry the target's role.
func (s *JournalService) GetReviewerForAssignment(reviewerID int) (*models.User, error) {
	var user models.User
	err := s.db.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load reviewer: %v", ErrPersistence, err)
	}
	return &user, nil
}

// ApplyTransition runs the workflow decision for (journal, event, actor,
// payload) and persists the outcome atomically: the journal change, a status
// history row, the review row for verdict events, and an audit log entry all
// commit together or not at all.
func (s *JournalService) ApplyTransition(journal models.Journal, event workflow.Event, actor workflow.Actor, p workflow.Payload, meta RequestMeta) (*models.Journal, error) {
	now := time.Now()

	outcome, err := workflow.Decide(journal, event, actor, p, now)
	if err != nil {
		return nil, err
	}
	if outcome.NoOp {
		return &outcome.Journal, nil
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrPersistence, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	updated := outcome.Journal

	if event == workflow.EventSubmit {
		if err := tx.Create(&updated).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: create journal: %v", ErrPersistence, err)
		}
	} else {
		if err := tx.Model(&models.Journal{}).
			Where("journal_id = ?", journal.JournalID).
			Updates(transitionUpdates(event, updated)).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: update journal: %v", ErrPersistence, err)
		}
	}

	history := models.JournalStatusHistory{
		JournalID: updated.JournalID,
		NewStatus: updated.Status,
		ChangedBy: actor.ID,
		CreatedAt: now,
	}
	if event != workflow.EventSubmit {
		oldStatus := journal.Status
		history.OldStatus = &oldStatus
	}
	if comments := strings.TrimSpace(p.Comments); comments != "" {
		history.Reason = &comments
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: log status history: %v", ErrPersistence, err)
	}

	if outcome.Review != nil {
		outcome.Review.JournalID = updated.JournalID
		if err := tx.Create(outcome.Review).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: save review: %v", ErrPersistence, err)
		}
	}

	if err := tx.Create(buildAuditLog(event, actor, updated, meta, now)).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: write audit log: %v", ErrPersistence, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrPersistence, err)
	}

	s.notifyTransition(event, &updated, actor)

	return &updated, nil
}

// transitionUpdates builds the column set a transition writes. Only derived
// fields appear here so concurrent edits to unrelated columns are not
// clobbered.
func transitionUpdates(event workflow.Event, updated models.Journal) map[string]interface{} {
	values := map[string]interface{}{
		"status":     updated.Status,
		"updated_at": updated.UpdatedAt,
	}
	switch event {
	case workflow.EventAssign:
		values["reviewer_id"] = updated.ReviewerID
	case workflow.EventPublish:
		values["publication_number"] = updated.PublicationNumber
		values["published_date"] = updated.PublishedDate
	}
	return values
}

func buildAuditLog(event workflow.Event, actor workflow.Actor, updated models.Journal, meta RequestMeta, now time.Time) *models.AuditLog {
	serialized, _ := json.Marshal(map[string]interface{}{
		"status":      updated.Status,
		"reviewer_id": updated.ReviewerID,
	})
	values := string(serialized)
	description := fmt.Sprintf("journal %s", event)
	entityID := updated.JournalID

	audit := &models.AuditLog{
		UserID:      actor.ID,
		Action:      string(event),
		EntityType:  "journal",
		EntityID:    &entityID,
		NewValues:   &values,
		Description: &description,
		IPAddress:   meta.IPAddress,
		CreatedAt:   now,
	}
	if ua := strings.TrimSpace(meta.UserAgent); ua != "" {
		audit.UserAgent = &ua
	}
	return audit
}

// notifyTransition fans out in-app and email notifications after commit.
// Failures are logged, never surfaced: the transition already succeeded.
func (s *JournalService) notifyTransition(event workflow.Event, journal *models.Journal, actor workflow.Actor) {
	var (
		recipientID int
		title       string
		message     string
		kind        string
	)

	switch event {
	case workflow.EventAssign:
		if journal.ReviewerID == nil {
			return
		}
		recipientID = *journal.ReviewerID
		title = "New review assignment"
		message = fmt.Sprintf("You have been assigned to review \"%s\".", journal.Title)
		kind = "info"
	case workflow.EventApprove:
		recipientID = journal.PublisherID
		title = "Manuscript approved"
		message = fmt.Sprintf("Your manuscript \"%s\" was approved by the reviewer.", journal.Title)
		kind = "success"
	case workflow.EventReject:
		recipientID = journal.PublisherID
		title = "Manuscript rejected"
		message = fmt.Sprintf("Your manuscript \"%s\" was rejected. See the review comments for details.", journal.Title)
		kind = "error"
	case workflow.EventPublish:
		recipientID = journal.PublisherID
		title = "Manuscript published"
		message = fmt.Sprintf("Your manuscript \"%s\" is now published.", journal.Title)
		kind = "success"
	default:
		return
	}

	if err := NotifyUser(s.db, recipientID, title, message, kind, journal.JournalID); err != nil {
		log.Printf("Warning: notification for journal %d failed: %v", journal.JournalID, err)
	}
}
