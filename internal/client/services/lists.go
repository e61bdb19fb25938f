package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
	"github.com/dmitrijs2005/tiernerd/internal/client/models"
)

const listsPath = "/api/lists/"

type ListService interface {
	List(ctx context.Context, token string) ([]models.ListSummary, error)
	Create(ctx context.Context, title, description, token string) (*models.ListSummary, error)
	Delete(ctx context.Context, id models.ID, token string) error
	Items(ctx context.Context, id models.ID, token string) ([]models.Item, error)
}

type listService struct {
	gw client.Gateway
}

func NewListService(gw client.Gateway) ListService {
	return &listService{gw: gw}
}

func (s *listService) List(ctx context.Context, token string) ([]models.ListSummary, error) {
	lists := []models.ListSummary{}
	if err := s.gw.Get(ctx, listsPath, token, &lists); err != nil {
		return nil, fmt.Errorf("get lists error: %w", err)
	}
	return lists, nil
}

// Create sends title and description as query parameters with no body.
func (s *listService) Create(ctx context.Context, title, description, token string) (*models.ListSummary, error) {
	q := url.Values{}
	q.Set("name", title)
	q.Set("description", description)

	var l models.ListSummary
	if err := s.gw.Post(ctx, listsPath+"?"+q.Encode(), nil, token, &l); err != nil {
		return nil, fmt.Errorf("create list error: %w", err)
	}
	return &l, nil
}

func (s *listService) Delete(ctx context.Context, id models.ID, token string) error {
	if err := s.gw.Delete(ctx, listsPath+url.PathEscape(id.String()), token, nil); err != nil {
		return fmt.Errorf("delete list error: %w", err)
	}
	return nil
}

func (s *listService) Items(ctx context.Context, id models.ID, token string) ([]models.Item, error) {
	items := []models.Item{}
	if err := s.gw.Get(ctx, listsPath+url.PathEscape(id.String())+"/items", token, &items); err != nil {
		return nil, fmt.Errorf("get items error: %w", err)
	}
	return items, nil
}
