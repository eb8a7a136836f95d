package services

import (
	"context"
	"log/slog"

	"github.com/traveljournal/apiserver/internal/events"
	"github.com/traveljournal/apiserver/types"
)

// StoryRepository defines persistence operations for journal stories.
type StoryRepository interface {
	Create(ctx context.Context, story types.Story) (types.Story, error)
	Get(ctx context.Context, id, userID int) (types.Story, error)
	ListByUser(ctx context.Context, userID int) ([]types.Story, error)
	Update(ctx context.Context, story types.Story) (types.Story, error)
	SetFavourite(ctx context.Context, id, userID int, favourite bool) (types.Story, error)
	Delete(ctx context.Context, id, userID int) error
}

// StoryService encapsulates story use-cases. When a publisher is
// configured, lifecycle changes are emitted as activity events;
// publish failures are logged and never fail the request.
type StoryService struct {
	repo      StoryRepository
	publisher *events.Publisher
}

func NewStoryService(repo StoryRepository, publisher *events.Publisher) *StoryService {
	return &StoryService{repo: repo, publisher: publisher}
}

func (s *StoryService) Create(ctx context.Context, story types.Story) (types.Story, error) {
	created, err := s.repo.Create(ctx, story)
	if err != nil {
		return types.Story{}, err
	}
	s.publish(ctx, events.ActionStoryCreated, created)
	return created, nil
}

func (s *StoryService) Get(ctx context.Context, id, userID int) (types.Story, error) {
	return s.repo.Get(ctx, id, userID)
}

func (s *StoryService) ListByUser(ctx context.Context, userID int) ([]types.Story, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *StoryService) Update(ctx context.Context, story types.Story) (types.Story, error) {
	return s.repo.Update(ctx, story)
}

func (s *StoryService) SetFavourite(ctx context.Context, id, userID int, favourite bool) (types.Story, error) {
	return s.repo.SetFavourite(ctx, id, userID, favourite)
}

// Delete removes the story and returns the deleted record so the
// caller can clean up its stored image.
func (s *StoryService) Delete(ctx context.Context, id, userID int) (types.Story, error) {
	story, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return types.Story{}, err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return types.Story{}, err
	}
	s.publish(ctx, events.ActionStoryDeleted, story)
	return story, nil
}

func (s *StoryService) publish(ctx context.Context, action string, story types.Story) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStory(ctx, action, story); err != nil {
		slog.Warn("failed to publish story event", "action", action, "storyId", story.ID, "err", err)
	}
}
