package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/media"
	"github.com/joshua-takyi/rendez/internal/models"
)

type VenuesService struct {
	venuesRepo models.VenuesRepo
	deps       Deps
}

func NewVenuesService(venuesRepo models.VenuesRepo, deps Deps) *VenuesService {
	return &VenuesService{
		venuesRepo: venuesRepo,
		deps:       deps,
	}
}

// CreateVenue registers a venue. Only principals that may manage the
// catalog can create venues.
func (vs *VenuesService) CreateVenue(ctx context.Context, principal *models.Principal, input *models.VenueInput) (*models.Venue, error) {
	if err := models.Authorize(principal, models.CapManageCatalog); err != nil {
		vs.deps.Metrics.CatalogWrite("venue", "rejected")
		return nil, err
	}
	if input == nil {
		input = &models.VenueInput{}
	}
	input.Sanitize()
	if err := models.ValidateStruct(input); err != nil {
		vs.deps.Metrics.CatalogWrite("venue", "rejected")
		return nil, err
	}

	mediaURLs, uploaded, err := media.Resolve(ctx, vs.deps.Uploader, input.Media, media.VenueFolder)
	if err != nil {
		vs.deps.Metrics.CatalogWrite("venue", "rejected")
		return nil, err
	}

	venue := &models.Venue{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		Media:       mediaURLs,
		CreatedAt:   vs.deps.now(),
	}

	created, err := vs.venuesRepo.CreateVenue(ctx, venue)
	if err != nil {
		media.Cleanup(ctx, vs.deps.Uploader, uploaded, vs.deps.logger())
		vs.deps.logger().Error("failed to create venue", "error", err, "user_id", principal.ID)
		return nil, err
	}

	vs.deps.Metrics.CatalogWrite("venue", "created")
	vs.deps.logger().Info("venue created", "venue_id", created.ID, "user_id", principal.ID)
	return created, nil
}

func (vs *VenuesService) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return vs.venuesRepo.GetVenueByID(ctx, venueID)
}

func (vs *VenuesService) ListVenues(ctx context.Context) ([]*models.Venue, error) {
	return vs.venuesRepo.ListVenues(ctx)
}
