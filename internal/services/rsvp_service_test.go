package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedKickoff(t *testing.T, store *memStore) *models.Event {
	t.Helper()
	ctx := context.Background()
	venue, err := NewVenuesService(store, testDeps(fixedNow)).CreateVenue(ctx, admin, hallA())
	require.NoError(t, err)
	event, err := NewEventsService(store, store, time.UTC, testDeps(fixedNow)).CreateEvent(ctx, admin, kickoff(venue.ID))
	require.NoError(t, err)
	return event
}

func adaContact() *models.RSVPInput {
	return &models.RSVPInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 555 0100",
	}
}

func TestSubmitRSVP_CreatesThenUpdates(t *testing.T) {
	store := newMemStore()
	event := seedKickoff(t, store)
	svc := NewRSVPService(store, store, testDeps(fixedNow))
	ctx := context.Background()

	first, created, err := svc.SubmitRSVP(ctx, member, event.ID.String(), adaContact())
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.FutureUpdates)
	assert.Equal(t, member.ID, first.UserID)
	assert.Equal(t, event.ID, first.EventID)

	optOut := false
	second, created, err := svc.SubmitRSVP(ctx, member, event.ID.String(), &models.RSVPInput{
		FirstName:     "Augusta",
		LastName:      "King",
		Email:         "  Augusta@Example.com ",
		FutureUpdates: &optOut,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, 1, store.rsvpCount())
	stored, err := store.GetRSVP(ctx, member.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", stored.FirstName)
	assert.Equal(t, "King", stored.LastName)
	assert.Equal(t, "augusta@example.com", stored.Email)
	assert.Empty(t, stored.Phone)
	assert.False(t, stored.FutureUpdates)
}

func TestSubmitRSVP_SeparateUsersKeepSeparateRecords(t *testing.T) {
	store := newMemStore()
	event := seedKickoff(t, store)
	svc := NewRSVPService(store, store, testDeps(fixedNow))

	for _, p := range []*models.Principal{member, guest, admin} {
		_, created, err := svc.SubmitRSVP(context.Background(), p, event.ID.String(), adaContact())
		require.NoError(t, err)
		assert.True(t, created)
	}
	assert.Equal(t, 3, store.rsvpCount())
}

func TestSubmitRSVP_Rejections(t *testing.T) {
	store := newMemStore()
	event := seedKickoff(t, store)
	svc := NewRSVPService(store, store, testDeps(fixedNow))

	tests := []struct {
		name      string
		principal *models.Principal
		eventID   string
		edit      func(*models.RSVPInput)
		field     string
		wantErr   error
	}{
		{name: "anonymous", eventID: event.ID.String(), wantErr: models.ErrUnauthenticated},
		{name: "principal without id", principal: &models.Principal{Role: models.RoleMember}, eventID: event.ID.String(), wantErr: models.ErrUnauthenticated},
		{name: "missing email", principal: member, eventID: event.ID.String(), edit: func(in *models.RSVPInput) { in.Email = "" }, field: "email"},
		{name: "malformed email", principal: member, eventID: event.ID.String(), edit: func(in *models.RSVPInput) { in.Email = "ada-at-example" }, field: "email"},
		{name: "missing first name", principal: member, eventID: event.ID.String(), edit: func(in *models.RSVPInput) { in.FirstName = " " }, field: "firstName"},
		{name: "missing last name", principal: member, eventID: event.ID.String(), edit: func(in *models.RSVPInput) { in.LastName = "" }, field: "lastName"},
		{name: "unknown event", principal: member, eventID: uuid.NewString(), wantErr: models.ErrNotFound},
		{name: "malformed event id", principal: member, eventID: "kickoff", wantErr: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := adaContact()
			if tt.edit != nil {
				tt.edit(in)
			}
			rsvp, created, err := svc.SubmitRSVP(context.Background(), tt.principal, tt.eventID, in)
			assert.Nil(t, rsvp)
			assert.False(t, created)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var ve *models.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.field, ve.Field)
			}
			assert.Zero(t, store.rsvpCount())
		})
	}
}

func TestSubmitRSVP_StoreErrorSurfaces(t *testing.T) {
	store := newMemStore()
	event := seedKickoff(t, store)
	store.rsvpErr = storeFailure("upsert rsvp")
	svc := NewRSVPService(store, store, testDeps(fixedNow))

	_, _, err := svc.SubmitRSVP(context.Background(), member, event.ID.String(), adaContact())
	var se *models.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "upsert rsvp: connection refused", err.Error())
}

func TestListRSVPsForUser(t *testing.T) {
	store := newMemStore()
	first := seedKickoff(t, store)
	second := seedKickoff(t, store)
	ctx := context.Background()

	clock := fixedNow
	deps := testDeps(fixedNow)
	deps.Clock = func() time.Time { return clock }
	svc := NewRSVPService(store, store, deps)

	_, _, err := svc.SubmitRSVP(ctx, member, first.ID.String(), adaContact())
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	_, _, err = svc.SubmitRSVP(ctx, member, second.ID.String(), adaContact())
	require.NoError(t, err)
	_, _, err = svc.SubmitRSVP(ctx, guest, first.ID.String(), adaContact())
	require.NoError(t, err)

	refs, err := svc.ListRSVPsForUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.RSVPRef{{EventID: second.ID}, {EventID: first.ID}}, refs)

	refs, err = svc.ListRSVPsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = svc.ListRSVPsForUser(ctx, "")
	assert.True(t, models.IsValidationError(err))
}
