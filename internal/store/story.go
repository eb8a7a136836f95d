package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/traveljournal/apiserver/types"
)

// StoryRepository handles persistence for journal stories.
type StoryRepository struct {
	db *sql.DB
}

func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

func (r *StoryRepository) Create(ctx context.Context, story types.Story) (types.Story, error) {
	now := time.Now()
	story.CreatedAt = now
	story.UpdatedAt = now

	const query = `
		INSERT INTO stories (user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		story.UserID,
		story.Title,
		story.Story,
		story.VisitedLocation,
		story.ImageURL,
		story.VisitedDate,
		story.IsFavourite,
		story.CreatedAt,
		story.UpdatedAt,
	).Scan(&story.ID); err != nil {
		return types.Story{}, err
	}
	return story, nil
}

func (r *StoryRepository) Get(ctx context.Context, id, userID int) (types.Story, error) {
	const query = `
		SELECT id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at
		FROM stories
		WHERE id = $1 AND user_id = $2`
	var story types.Story
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&story.ID,
		&story.UserID,
		&story.Title,
		&story.Story,
		&story.VisitedLocation,
		&story.ImageURL,
		&story.VisitedDate,
		&story.IsFavourite,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Story{}, ErrNotFound
		}
		return types.Story{}, err
	}
	return story, nil
}

// ListByUser returns all stories owned by userID, favourites first,
// most recent visit first within each group.
func (r *StoryRepository) ListByUser(ctx context.Context, userID int) ([]types.Story, error) {
	const query = `
		SELECT id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at
		FROM stories
		WHERE user_id = $1
		ORDER BY is_favourite DESC, visited_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := make([]types.Story, 0)
	for rows.Next() {
		var story types.Story
		if err := rows.Scan(
			&story.ID,
			&story.UserID,
			&story.Title,
			&story.Story,
			&story.VisitedLocation,
			&story.ImageURL,
			&story.VisitedDate,
			&story.IsFavourite,
			&story.CreatedAt,
			&story.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *StoryRepository) Update(ctx context.Context, story types.Story) (types.Story, error) {
	story.UpdatedAt = time.Now()

	const query = `
		UPDATE stories
		SET title = $1,
			story = $2,
			visited_location = $3,
			image_url = $4,
			visited_date = $5,
			updated_at = $6
		WHERE id = $7 AND user_id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		story.Title,
		story.Story,
		story.VisitedLocation,
		story.ImageURL,
		story.VisitedDate,
		story.UpdatedAt,
		story.ID,
		story.UserID,
	)
	if err != nil {
		return types.Story{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Story{}, err
	}
	if affected == 0 {
		return types.Story{}, ErrNotFound
	}
	return story, nil
}

func (r *StoryRepository) SetFavourite(ctx context.Context, id, userID int, favourite bool) (types.Story, error) {
	const query = `
		UPDATE stories
		SET is_favourite = $1,
			updated_at = $2
		WHERE id = $3 AND user_id = $4`
	result, err := r.db.ExecContext(ctx, query, favourite, time.Now(), id, userID)
	if err != nil {
		return types.Story{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Story{}, err
	}
	if affected == 0 {
		return types.Story{}, ErrNotFound
	}
	return r.Get(ctx, id, userID)
}

func (r *StoryRepository) Delete(ctx context.Context, id, userID int) error {
	const query = `DELETE FROM stories WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
