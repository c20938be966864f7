package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/models"
)

type RSVPService struct {
	rsvpRepo   models.RSVPRepo
	eventsRepo models.EventsRepo
	deps       Deps
}

func NewRSVPService(rsvpRepo models.RSVPRepo, eventsRepo models.EventsRepo, deps Deps) *RSVPService {
	return &RSVPService{
		rsvpRepo:   rsvpRepo,
		eventsRepo: eventsRepo,
		deps:       deps,
	}
}

// SubmitRSVP records the principal's RSVP for an event, or updates the
// existing one. The boolean result reports whether a new RSVP was created.
func (rs *RSVPService) SubmitRSVP(ctx context.Context, principal *models.Principal, eventID string, input *models.RSVPInput) (*models.RSVP, bool, error) {
	if err := models.Authorize(principal, models.CapRSVP); err != nil {
		rs.deps.Metrics.RSVP("rejected")
		return nil, false, err
	}
	if input == nil {
		input = &models.RSVPInput{}
	}
	input.Sanitize()
	if err := models.ValidateStruct(input); err != nil {
		rs.deps.Metrics.RSVP("rejected")
		return nil, false, err
	}

	id, err := uuid.Parse(eventID)
	if err != nil {
		rs.deps.Metrics.RSVP("rejected")
		return nil, false, models.ErrNotFound
	}
	if _, err := rs.eventsRepo.GetEventByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			rs.deps.Metrics.RSVP("rejected")
		}
		return nil, false, err
	}

	created := false
	if _, err := rs.rsvpRepo.GetRSVP(ctx, principal.ID, id); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, false, err
		}
		created = true
	}

	now := rs.deps.now()
	saved, err := rs.rsvpRepo.UpsertRSVP(ctx, &models.RSVP{
		ID:            uuid.New(),
		UserID:        principal.ID,
		EventID:       id,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         input.Phone,
		FutureUpdates: input.WantsUpdates(),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		rs.deps.logger().Error("failed to save rsvp", "error", err, "user_id", principal.ID, "event_id", id)
		return nil, false, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	rs.deps.Metrics.RSVP(outcome)
	rs.deps.logger().Info("rsvp saved", "rsvp_id", saved.ID, "event_id", id, "user_id", principal.ID, "outcome", outcome)
	return saved, created, nil
}

// ListRSVPsForUser returns the events the user has RSVP'd to, most recent
// RSVP first.
func (rs *RSVPService) ListRSVPsForUser(ctx context.Context, userID string) ([]models.RSVPRef, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId", "is required")
	}
	rsvps, err := rs.rsvpRepo.ListRSVPsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	refs := make([]models.RSVPRef, 0, len(rsvps))
	for _, r := range rsvps {
		refs = append(refs, models.RSVPRef{EventID: r.EventID})
	}
	return refs, nil
}
