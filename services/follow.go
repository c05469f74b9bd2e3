package services

import (
	"errors"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
)

// FollowService manages follow edges on behalf of an explicit actor.
type FollowService struct {
	store *store.Store
}

// NewFollowService creates a FollowService.
func NewFollowService(s *store.Store) *FollowService {
	return &FollowService{store: s}
}

// Follow makes actor follow username and returns the followed author.
// Following yourself or an author you already follow changes nothing.
func (f *FollowService) Follow(actor *models.User, username string) (*models.User, error) {
	if actor == nil {
		return nil, ErrLoginRequired
	}
	author, err := f.store.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	if actor.Is(author) {
		return author, nil
	}
	exists, err := f.store.FollowExists(actor.ID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return author, nil
	}
	// a concurrent request may have created the edge since the check
	if err := f.store.CreateFollow(actor.ID, author.ID); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return nil, err
	}
	return author, nil
}

// Unfollow removes the edge from actor to username if it exists.
func (f *FollowService) Unfollow(actor *models.User, username string) (*models.User, error) {
	if actor == nil {
		return nil, ErrLoginRequired
	}
	author, err := f.store.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	if err := f.store.DeleteFollow(actor.ID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}
