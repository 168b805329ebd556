package service

import (
	"strings"
	"time"

	"github.com/decalforge/decalforge/internal/models"
	"github.com/decalforge/decalforge/internal/repository"
)

// PostService handles the blog.
type PostService struct {
	repo repository.PostRepository
}

// NewPostService creates a blog service.
func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// PostInput is the create/update payload.
type PostInput struct {
	Slug        string
	Title       string
	Summary     string
	Content     string
	Thumbnail   string
	IsPublished *bool
}

// ListPublic returns published posts.
func (s *PostService) ListPublic(page, pageSize int) ([]models.Post, int64, error) {
	return s.repo.List(repository.PostListFilter{
		PublishedOnly: true,
		Page:          page,
		PageSize:      pageSize,
	})
}

// GetPublicBySlug returns one published post.
func (s *PostService) GetPublicBySlug(slug string) (*models.Post, error) {
	post, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// ListAdmin returns all posts for the back office.
func (s *PostService) ListAdmin(page, pageSize int) ([]models.Post, int64, error) {
	return s.repo.List(repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
	})
}

// GetByID returns one post regardless of status.
func (s *PostService) GetByID(id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Create inserts a post.
func (s *PostService) Create(input PostInput) (*models.Post, error) {
	count, err := s.repo.CountBySlug(input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	post := models.Post{
		Slug:      strings.TrimSpace(input.Slug),
		Title:     strings.TrimSpace(input.Title),
		Summary:   input.Summary,
		Content:   input.Content,
		Thumbnail: strings.TrimSpace(input.Thumbnail),
	}
	applyPublishState(&post, input.IsPublished)

	if err := s.repo.Create(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update saves post changes.
func (s *PostService) Update(id uint, input PostInput) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	count, err := s.repo.CountBySlug(input.Slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	post.Slug = strings.TrimSpace(input.Slug)
	post.Title = strings.TrimSpace(input.Title)
	post.Summary = input.Summary
	post.Content = input.Content
	post.Thumbnail = strings.TrimSpace(input.Thumbnail)
	applyPublishState(post, input.IsPublished)

	if err := s.repo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post.
func (s *PostService) Delete(id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

// applyPublishState stamps published_at on the first publish.
func applyPublishState(post *models.Post, isPublished *bool) {
	if isPublished == nil {
		return
	}
	post.IsPublished = *isPublished
	if *isPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
}
