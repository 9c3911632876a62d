package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/helpline-directory/internal/domain"
)

// Remote is the subset of the remote client the directory service needs.
// remote.Client satisfies it; tests pass a function-field mock.
type Remote interface {
	ListHelplines(ctx context.Context) ([]domain.Helpline, error)
	AddHelpline(ctx context.Context, h domain.NewHelpline) error
	ListReviews(ctx context.Context, helplineID int) ([]domain.Review, error)
	AddReview(ctx context.Context, r domain.NewReview) error
}

// DirectoryService validates user input before it reaches the remote
// directory and review services.
type DirectoryService struct {
	remote Remote
}

// NewDirectoryService constructs a DirectoryService backed by remote.
func NewDirectoryService(r Remote) *DirectoryService {
	return &DirectoryService{remote: r}
}

// Helplines returns the full directory.
func (s *DirectoryService) Helplines(ctx context.Context) ([]domain.Helpline, error) {
	return s.remote.ListHelplines(ctx)
}

// AddHelpline trims and validates h, then submits it.
func (s *DirectoryService) AddHelpline(ctx context.Context, h domain.NewHelpline) error {
	h.Name = strings.TrimSpace(h.Name)
	h.City = strings.TrimSpace(h.City)
	h.Category = strings.TrimSpace(h.Category)
	h.Contact = strings.TrimSpace(h.Contact)
	h.Location = strings.TrimSpace(h.Location)

	if err := validateStruct(h); err != nil {
		return fmt.Errorf("service.DirectoryService.AddHelpline: %w", err)
	}
	return s.remote.AddHelpline(ctx, h)
}

// Reviews returns all reviews for a helpline.
func (s *DirectoryService) Reviews(ctx context.Context, helplineID int) ([]domain.Review, error) {
	return s.remote.ListReviews(ctx, helplineID)
}

// SubmitReview defaults an empty reviewer name to "Anonymous", validates the
// rating range, and submits. Invalid input never reaches the network.
func (s *DirectoryService) SubmitReview(ctx context.Context, r domain.NewReview) error {
	if strings.TrimSpace(r.UserName) == "" {
		r.UserName = domain.AnonymousUser
	}

	if err := validateStruct(r); err != nil {
		return fmt.Errorf("service.DirectoryService.SubmitReview: %w", err)
	}
	return s.remote.AddReview(ctx, r)
}
