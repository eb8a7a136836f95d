// Package events publishes journal activity to a message broker so
// downstream consumers (feeds, thumbnailers) can react to changes
// without the API server knowing about them.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/traveljournal/apiserver/types"
)

// TopicStoryActivity is the channel all story lifecycle events go to.
const TopicStoryActivity = "journal.story-activity"

// Story lifecycle actions.
const (
	ActionStoryCreated = "story.created"
	ActionStoryDeleted = "story.deleted"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// StoryEvent is the JSON body published for story lifecycle changes.
type StoryEvent struct {
	Action     string    `json:"action"`
	StoryID    int       `json:"storyId"`
	UserID     int       `json:"userId"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher wraps a backend with journal-specific publish helpers.
type Publisher struct {
	backend Backend
}

// NewPublisher constructs a Publisher for the provided backend.
func NewPublisher(backend Backend) *Publisher {
	return &Publisher{backend: backend}
}

// PublishStory emits a story lifecycle event. The action is also set as
// a message attribute so subscribers can filter without decoding.
func (p *Publisher) PublishStory(ctx context.Context, action string, story types.Story) error {
	event := StoryEvent{
		Action:     action,
		StoryID:    story.ID,
		UserID:     story.UserID,
		Title:      story.Title,
		OccurredAt: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	attrs := map[string]string{
		"action":  action,
		"storyId": strconv.Itoa(story.ID),
	}
	_, err = p.backend.Publish(ctx, TopicStoryActivity, data, attrs)
	return err
}

// Subscribe consumes story activity messages.
func (p *Publisher) Subscribe(ctx context.Context, handler Handler) error {
	return p.backend.Subscribe(ctx, TopicStoryActivity, handler)
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}
