package services

import (
	"context"
	"errors"
	"testing"

	"github.com/traveljournal/apiserver/internal/events"
	"github.com/traveljournal/apiserver/internal/store"
	"github.com/traveljournal/apiserver/types"
)

type stubStoryRepo struct {
	stories map[int]types.Story
	nextID  int
}

func newStubStoryRepo() *stubStoryRepo {
	return &stubStoryRepo{stories: make(map[int]types.Story)}
}

func (r *stubStoryRepo) Create(_ context.Context, story types.Story) (types.Story, error) {
	r.nextID++
	story.ID = r.nextID
	r.stories[story.ID] = story
	return story, nil
}

func (r *stubStoryRepo) Get(_ context.Context, id, userID int) (types.Story, error) {
	story, ok := r.stories[id]
	if !ok || story.UserID != userID {
		return types.Story{}, store.ErrNotFound
	}
	return story, nil
}

func (r *stubStoryRepo) ListByUser(_ context.Context, userID int) ([]types.Story, error) {
	var out []types.Story
	for _, story := range r.stories {
		if story.UserID == userID {
			out = append(out, story)
		}
	}
	return out, nil
}

func (r *stubStoryRepo) Update(_ context.Context, story types.Story) (types.Story, error) {
	if _, ok := r.stories[story.ID]; !ok {
		return types.Story{}, store.ErrNotFound
	}
	r.stories[story.ID] = story
	return story, nil
}

func (r *stubStoryRepo) SetFavourite(_ context.Context, id, userID int, favourite bool) (types.Story, error) {
	story, err := r.Get(context.Background(), id, userID)
	if err != nil {
		return types.Story{}, err
	}
	story.IsFavourite = favourite
	r.stories[id] = story
	return story, nil
}

func (r *stubStoryRepo) Delete(_ context.Context, id, userID int) error {
	if _, err := r.Get(context.Background(), id, userID); err != nil {
		return err
	}
	delete(r.stories, id)
	return nil
}

type recordingBackend struct {
	actions []string
	fail    bool
}

func (b *recordingBackend) Publish(_ context.Context, _ string, _ []byte, attrs map[string]string) (string, error) {
	if b.fail {
		return "", errors.New("broker down")
	}
	b.actions = append(b.actions, attrs["action"])
	return "id", nil
}

func (b *recordingBackend) Subscribe(context.Context, string, events.Handler) error { return nil }
func (b *recordingBackend) Close() error                                            { return nil }

func TestStoryServiceLifecycleEvents(t *testing.T) {
	repo := newStubStoryRepo()
	backend := &recordingBackend{}
	service := NewStoryService(repo, events.NewPublisher(backend))
	ctx := context.Background()

	created, err := service.Create(ctx, types.Story{UserID: 1, Title: "Osaka"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	deleted, err := service.Delete(ctx, created.ID, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Title != "Osaka" {
		t.Fatalf("delete must return the removed story, got %+v", deleted)
	}

	want := []string{events.ActionStoryCreated, events.ActionStoryDeleted}
	if len(backend.actions) != len(want) {
		t.Fatalf("actions = %v, want %v", backend.actions, want)
	}
	for i := range want {
		if backend.actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", backend.actions, want)
		}
	}
}

func TestStoryServicePublishFailureDoesNotFailRequest(t *testing.T) {
	repo := newStubStoryRepo()
	service := NewStoryService(repo, events.NewPublisher(&recordingBackend{fail: true}))

	if _, err := service.Create(context.Background(), types.Story{UserID: 1, Title: "Hakone"}); err != nil {
		t.Fatalf("a broker failure must not fail story creation: %v", err)
	}
}

func TestStoryServiceWithoutPublisher(t *testing.T) {
	repo := newStubStoryRepo()
	service := NewStoryService(repo, nil)
	ctx := context.Background()

	created, err := service.Create(ctx, types.Story{UserID: 1, Title: "Nikko"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Delete(ctx, created.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestStoryServiceDeleteScopedToOwner(t *testing.T) {
	repo := newStubStoryRepo()
	service := NewStoryService(repo, nil)
	ctx := context.Background()

	created, err := service.Create(ctx, types.Story{UserID: 1, Title: "Sapporo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Delete(ctx, created.ID, 2); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign delete must report not found, got %v", err)
	}
	if _, err := repo.Get(ctx, created.ID, 1); err != nil {
		t.Fatalf("story must still exist: %v", err)
	}
}
