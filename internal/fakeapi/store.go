package fakeapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/common"
	"github.com/google/uuid"
)

type account struct {
	user         models.User
	passwordHash string
}

type storedItem struct {
	item    models.Item
	tierSet models.TierSet
}

// Store keeps every record in memory. All methods are safe for concurrent
// use and return copies.
type Store struct {
	mu sync.RWMutex

	accounts map[models.ID]*account
	byEmail  map[string]models.ID
	lists    map[models.ID]*models.ListSummary
	items    map[models.ID]*storedItem
	sessions map[models.ID]models.ComparisonSession

	now   func() time.Time
	newID func() models.ID
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[models.ID]*account),
		byEmail:  make(map[string]models.ID),
		lists:    make(map[models.ID]*models.ListSummary),
		items:    make(map[models.ID]*storedItem),
		sessions: make(map[models.ID]models.ComparisonSession),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() models.ID { return models.ID(uuid.NewString()) },
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *Store) stamp() models.Timestamp { return models.Timestamp{Time: s.now()} }

// CreateUser fails with common.ErrorAlreadyExists when the email is taken,
// compared case-insensitively.
func (s *Store) CreateUser(email, username, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(email)
	if _, taken := s.byEmail[key]; taken {
		return models.User{}, common.ErrorAlreadyExists
	}

	ts := s.stamp()
	a := &account{
		user: models.User{
			UserID:    s.newID(),
			Email:     strings.TrimSpace(email),
			Username:  username,
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		passwordHash: passwordHash,
	}
	s.accounts[a.user.UserID] = a
	s.byEmail[key] = a.user.UserID
	return a.user, nil
}

// UserByEmail returns the user and its password hash.
func (s *Store) UserByEmail(email string) (models.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return models.User{}, "", common.ErrorNotFound
	}
	a := s.accounts[id]
	return a.user, a.passwordHash, nil
}

func (s *Store) UserByID(id models.ID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return models.User{}, common.ErrorNotFound
	}
	return a.user, nil
}

func (s *Store) countItems(listID models.ID) int {
	n := 0
	for _, it := range s.items {
		if it.item.ListID == listID {
			n++
		}
	}
	return n
}

func (s *Store) listCopy(l *models.ListSummary) models.ListSummary {
	out := *l
	out.ItemCount = s.countItems(l.ListID)
	return out
}

// Lists returns the lists owned by userID, oldest first.
func (s *Store) Lists(userID models.ID) []models.ListSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ListSummary, 0)
	for _, l := range s.lists {
		if l.UserID == userID {
			out = append(out, s.listCopy(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt.Time) {
			return out[i].ListID < out[j].ListID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt.Time)
	})
	return out
}

func (s *Store) findListByTitle(userID models.ID, title string) *models.ListSummary {
	for _, l := range s.lists {
		if l.UserID == userID && strings.EqualFold(l.Title, title) {
			return l
		}
	}
	return nil
}

// CreateList fails with common.ErrorAlreadyExists when the user already has
// a list with the same title, ignoring case.
func (s *Store) CreateList(userID models.ID, title string, description *string) (models.ListSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findListByTitle(userID, title) != nil {
		return models.ListSummary{}, common.ErrorAlreadyExists
	}

	ts := s.stamp()
	l := &models.ListSummary{
		ListID:      s.newID(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	s.lists[l.ListID] = l
	return s.listCopy(l), nil
}

func (s *Store) ListByTitle(userID models.ID, title string) (models.ListSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.findListByTitle(userID, title)
	if l == nil {
		return models.ListSummary{}, common.ErrorNotFound
	}
	return s.listCopy(l), nil
}

func (s *Store) ownedList(userID, listID models.ID) (*models.ListSummary, error) {
	l, ok := s.lists[listID]
	if !ok || l.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return l, nil
}

// DeleteList removes the list with its items and pending sessions.
func (s *Store) DeleteList(userID, listID models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedList(userID, listID); err != nil {
		return err
	}
	for id, it := range s.items {
		if it.item.ListID == listID {
			delete(s.items, id)
		}
	}
	for id, cs := range s.sessions {
		if cs.ListID == listID {
			delete(s.sessions, id)
		}
	}
	delete(s.lists, listID)
	return nil
}

// Items returns the items of a list owned by userID, oldest first.
func (s *Store) Items(userID, listID models.ID) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.ownedList(userID, listID); err != nil {
		return nil, err
	}
	return s.itemsOf(listID, ""), nil
}

// itemsOf returns items of listID, restricted to tierSet unless it is empty.
func (s *Store) itemsOf(listID models.ID, tierSet models.TierSet) []models.Item {
	out := make([]models.Item, 0)
	for _, it := range s.items {
		if it.item.ListID != listID {
			continue
		}
		if tierSet != "" && it.tierSet != tierSet {
			continue
		}
		out = append(out, it.item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt.Time) {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt.Time)
	})
	return out
}

// CreateItem stores a new item in the list titled listTitle. When the tier
// set already holds items the result is a comparison session between the new
// item and the most recent one of that tier set.
func (s *Store) CreateItem(userID models.ID, listTitle string, req models.CreateItemRequest) (models.CreateItemResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findListByTitle(userID, listTitle)
	if l == nil {
		return models.CreateItemResult{}, common.ErrorNotFound
	}

	peers := s.itemsOf(l.ListID, req.TierSet)

	ts := s.stamp()
	it := models.Item{
		ItemID:      s.newID(),
		ListID:      l.ListID,
		Name:        req.Name,
		Description: optional(req.Description),
		ImageURL:    optional(req.ImageURL),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	s.items[it.ItemID] = &storedItem{item: it, tierSet: req.TierSet}
	l.UpdatedAt = ts

	if len(peers) == 0 {
		return models.CreateItemResult{Kind: models.ResultItem, Item: &it}, nil
	}

	cs := models.ComparisonSession{
		SessionID: s.newID(),
		ListID:    l.ListID,
		ItemA:     it,
		ItemB:     peers[len(peers)-1],
	}
	s.sessions[cs.SessionID] = cs
	return models.CreateItemResult{Kind: models.ResultComparison, Comparison: &cs}, nil
}

// UpdateItem applies the non-nil fields of req to an item the user owns.
func (s *Store) UpdateItem(userID, itemID models.ID, req models.UpdateItemRequest) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return models.Item{}, common.ErrorNotFound
	}
	if _, err := s.ownedList(userID, it.item.ListID); err != nil {
		return models.Item{}, err
	}

	if req.Name != nil {
		it.item.Name = *req.Name
	}
	if req.Description != nil {
		it.item.Description = optional(*req.Description)
	}
	it.item.UpdatedAt = s.stamp()
	return it.item, nil
}

// Sessions returns the pending comparison sessions of a list.
func (s *Store) Sessions(listID models.ID) []models.ComparisonSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ComparisonSession, 0)
	for _, cs := range s.sessions {
		if cs.ListID == listID {
			out = append(out, cs)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
