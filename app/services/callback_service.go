package services

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CallbackInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,min=5,max=50"`
	Comment string `json:"comment" validate:"nullable,max=2000"`
}

type CallbackStatusInput struct {
	Status string `json:"status" validate:"required,in=new,in_progress,done"`
}

type CallbackService struct {
	Deps
	repo *repositories.CallbackRepository
}

func NewCallbackService(d Deps) *CallbackService {
	return &CallbackService{Deps: d, repo: repositories.NewCallbackRepository(d.DB)}
}

// Create records a "call me back" request and notifies the back office.
func (s *CallbackService) Create(ctx context.Context, in CallbackInput) (*models.CallbackRequest, error) {
	cb := &models.CallbackRequest{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Comment: in.Comment,
		Status:  models.CallbackNew,
	}
	if err := s.repo.Create(ctx, cb); err != nil {
		return nil, err
	}
	s.Events.Fire(ctx, EventCallbackCreated, cb)
	return cb, nil
}

func (s *CallbackService) List(ctx context.Context, status, term string, page orm.PageParams) ([]models.CallbackRequest, orm.Pagination, error) {
	return s.repo.List(ctx, status, term, page)
}

func (s *CallbackService) Find(ctx context.Context, id uint) (*models.CallbackRequest, error) {
	cb, err := s.repo.Find(ctx, id)
	return cb, missing(err, "Callback request")
}

// SetStatus moves a request through new, in_progress and done; processed_at
// is stamped when it reaches done.
func (s *CallbackService) SetStatus(ctx context.Context, id uint, in CallbackStatusInput) (*models.CallbackRequest, error) {
	cb, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case in.Status == models.CallbackDone && cb.ProcessedAt == nil:
		now := time.Now()
		cb.ProcessedAt = &now
	case in.Status != models.CallbackDone:
		cb.ProcessedAt = nil
	}
	cb.Status = in.Status
	if err := s.repo.Save(ctx, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

func (s *CallbackService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
