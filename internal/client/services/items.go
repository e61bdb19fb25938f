package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
	"github.com/dmitrijs2005/tiernerd/internal/client/models"
)

const itemsPath = "/api/items/"

type ItemService interface {
	// Create adds an item to the list with the given title. The result is
	// either the stored item or a comparison session.
	Create(ctx context.Context, listTitle string, req models.CreateItemRequest, token string) (models.CreateItemResult, error)
	Update(ctx context.Context, id models.ID, req models.UpdateItemRequest, token string) (*models.Item, error)
}

type itemService struct {
	gw client.Gateway
}

func NewItemService(gw client.Gateway) ItemService {
	return &itemService{gw: gw}
}

func (s *itemService) Create(ctx context.Context, listTitle string, req models.CreateItemRequest, token string) (models.CreateItemResult, error) {
	q := url.Values{}
	q.Set("list_title", listTitle)

	var res models.CreateItemResult
	if err := s.gw.Post(ctx, itemsPath+"?"+q.Encode(), req, token, &res); err != nil {
		return models.CreateItemResult{}, fmt.Errorf("create item error: %w", err)
	}
	if res.Kind == "" {
		// 2xx with an empty body: nothing to show for it.
		return models.CreateItemResult{}, fmt.Errorf("create item error: %w", client.ErrMalformedResponse)
	}
	return res, nil
}

func (s *itemService) Update(ctx context.Context, id models.ID, req models.UpdateItemRequest, token string) (*models.Item, error) {
	var it models.Item
	if err := s.gw.Put(ctx, itemsPath+"items/"+url.PathEscape(id.String()), req, token, &it); err != nil {
		return nil, fmt.Errorf("update item error: %w", err)
	}
	return &it, nil
}
