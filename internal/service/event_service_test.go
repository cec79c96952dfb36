package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-share/internal/model"
	"event-share/internal/repository"
	"event-share/pkg/apierror"
)

var (
	alice = model.Identity{ID: "u-alice", Username: "alice", Email: "alice@example.com"}
	bob   = model.Identity{ID: "u-bob", Username: "bob", Email: "bob@example.com"}
)

func newEventService(t *testing.T) (*EventService, model.Event) {
	t.Helper()
	svc := NewEventService(repository.NewMemoryEventRepository())

	event, err := svc.Create(context.Background(), alice, model.CreateEventRequest{
		Title:       "Go meetup",
		Description: "Talks and pizza",
		Date:        "2026-11-05T18:30:00Z",
	})
	require.NoError(t, err)
	return svc, event
}

func TestEventService_Create(t *testing.T) {
	_, event := newEventService(t)

	assert.Equal(t, model.Creator{UserID: alice.ID, Username: "alice"}, event.CreatedBy)
	assert.Equal(t, time.Date(2026, 11, 5, 18, 30, 0, 0, time.UTC), event.Date)
	assert.Empty(t, event.Participants)
	assert.Empty(t, event.Comments)

	t.Run("date only", func(t *testing.T) {
		svc := NewEventService(repository.NewMemoryEventRepository())
		created, err := svc.Create(context.Background(), alice, model.CreateEventRequest{Title: "a", Description: "b", Date: "2026-12-24"})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), created.Date)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewEventService(repository.NewMemoryEventRepository())
		_, err := svc.Create(context.Background(), alice, model.CreateEventRequest{Title: "  ", Date: "2026-12-24"})
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err, 0))
		assert.Equal(t, "VALIDATION_ERROR", apierror.CodeOf(err))
	})

	t.Run("bad date", func(t *testing.T) {
		svc := NewEventService(repository.NewMemoryEventRepository())
		_, err := svc.Create(context.Background(), alice, model.CreateEventRequest{Title: "a", Description: "b", Date: "next tuesday"})
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err, 0))
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("creator changes only given fields", func(t *testing.T) {
		svc, event := newEventService(t)

		updated, err := svc.Update(ctx, alice, event.ID, model.UpdateEventRequest{Title: "Go meetup #2"})
		require.NoError(t, err)
		assert.Equal(t, "Go meetup #2", updated.Title)
		assert.Equal(t, "Talks and pizza", updated.Description)
		assert.Equal(t, event.Date, updated.Date)
	})

	t.Run("non creator is forbidden", func(t *testing.T) {
		svc, event := newEventService(t)

		_, err := svc.Update(ctx, bob, event.ID, model.UpdateEventRequest{Title: "hijacked"})
		assert.Equal(t, http.StatusForbidden, apierror.StatusOf(err, 0))

		unchanged, err := svc.Get(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Go meetup", unchanged.Title)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _ := newEventService(t)

		_, err := svc.Update(ctx, alice, "nope", model.UpdateEventRequest{Title: "x"})
		assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err, 0))
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, event := newEventService(t)

	err := svc.Delete(ctx, bob, event.ID)
	assert.Equal(t, http.StatusForbidden, apierror.StatusOf(err, 0))

	require.NoError(t, svc.Delete(ctx, alice, event.ID))

	_, err = svc.Get(ctx, event.ID)
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err, 0))
}

func TestEventService_JoinUnjoin(t *testing.T) {
	ctx := context.Background()
	svc, event := newEventService(t)

	joined, err := svc.Join(ctx, bob, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, joined.Participants)

	_, err = svc.Join(ctx, bob, event.ID)
	assert.Equal(t, "ALREADY_PARTICIPANT", apierror.CodeOf(err))
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err, 0))

	_, err = svc.Unjoin(ctx, alice, event.ID)
	assert.Equal(t, "NOT_PARTICIPANT", apierror.CodeOf(err))

	left, err := svc.Unjoin(ctx, bob, event.ID)
	require.NoError(t, err)
	assert.Empty(t, left.Participants)

	_, err = svc.Join(ctx, bob, "missing")
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err, 0))
}

func TestEventService_Comment(t *testing.T) {
	ctx := context.Background()
	svc, event := newEventService(t)

	commented, err := svc.Comment(ctx, bob, event.ID, model.CommentRequest{Text: " see you there "})
	require.NoError(t, err)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "see you there", commented.Comments[0].Text)
	assert.Equal(t, "bob", commented.Comments[0].Username)
	assert.Equal(t, bob.ID, commented.Comments[0].UserID)
	assert.False(t, commented.Comments[0].CreatedAt.IsZero())

	_, err = svc.Comment(ctx, bob, event.ID, model.CommentRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err, 0))

	_, err = svc.Comment(ctx, bob, "missing", model.CommentRequest{Text: "hi"})
	assert.Equal(t, http.StatusNotFound, apierror.StatusOf(err, 0))
}
