package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/post/entity"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/utilities"
)

// Repository is the post store behind PostService.
type Repository interface {
	List(ctx context.Context) ([]*entity.Post, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Create(ctx context.Context, p *entity.Post) error
	Update(ctx context.Context, id string, patch entity.Patch) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidInput = errors.New("title and content are required")
	ErrPostNotFound = errors.New("post not found")
	ErrTitleTaken   = errors.New("post with that title already exists")
	ErrForbidden    = errors.New("post belongs to another user")
)

type PostService struct {
	repo  Repository
	newID func() string
}

func NewPostService(repo Repository) *PostService {
	return &PostService{repo: repo, newID: utilities.NewSnowflakeID}
}

func (s *PostService) List(ctx context.Context) ([]*entity.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Create stores a post authored by authorID.
func (s *PostService) Create(ctx context.Context, authorID, title, content string) (*entity.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	now := time.Now().UTC()
	p := &entity.Post{
		ID:        s.newID(),
		UserID:    authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Update applies patch when actorID is the author. Absent fields keep their
// stored value; present fields must not be blank.
func (s *PostService) Update(ctx context.Context, actorID, id string, patch entity.Patch) (*entity.Post, error) {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, ErrInvalidInput
		}
		patch.Title = &t
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.authorize(ctx, actorID, id); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Delete removes the post when actorID is the author.
func (s *PostService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.authorize(ctx, actorID, id); err != nil {
		return err
	}
	return translate(s.repo.Delete(ctx, id))
}

func (s *PostService) authorize(ctx context.Context, actorID, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return translate(err)
	}
	if p.UserID != actorID {
		return ErrForbidden
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return ErrPostNotFound
	case errors.Is(err, database.ErrConflict):
		if c := database.ConflictConstraint(err); c != "" {
			return fmt.Errorf("%w: %s", ErrTitleTaken, c)
		}
		return ErrTitleTaken
	default:
		return err
	}
}
