package services

import (
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
)

// FeedService composes the paginated post lists.
type FeedService struct {
	store *store.Store
}

// NewFeedService creates a FeedService.
func NewFeedService(s *store.Store) *FeedService {
	return &FeedService{store: s}
}

// GroupFeed is the page of posts filed under one group.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	Page  *Page         `json:"page_obj"`
}

// ProfileFeed is the page of posts written by one author.
type ProfileFeed struct {
	Author    *models.User `json:"author"`
	Page      *Page        `json:"page_obj"`
	Following bool         `json:"following"`
}

// Index returns a page of every post, newest first.
func (f *FeedService) Index(page string) (*Page, error) {
	return paginate(f.store, page)
}

// Group returns a page of the posts in the group identified by slug.
func (f *FeedService) Group(slug, page string) (*GroupFeed, error) {
	group, err := f.store.GroupBySlug(slug)
	if err != nil {
		return nil, err
	}
	p, err := paginate(f.store, page, store.InGroup(group.ID))
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: p}, nil
}

// Profile returns a page of username's posts and whether viewer follows them.
// Following is false for anonymous viewers and for viewers looking at themselves.
func (f *FeedService) Profile(viewer *models.User, username, page string) (*ProfileFeed, error) {
	author, err := f.store.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	p, err := paginate(f.store, page, store.ByAuthor(author.ID))
	if err != nil {
		return nil, err
	}
	following := false
	if viewer != nil && !viewer.Is(author) {
		if following, err = f.store.FollowExists(viewer.ID, author.ID); err != nil {
			return nil, err
		}
	}
	return &ProfileFeed{Author: author, Page: p, Following: following}, nil
}

// Following returns a page of the posts written by authors viewer follows.
func (f *FeedService) Following(viewer *models.User, page string) (*Page, error) {
	if viewer == nil {
		return nil, ErrLoginRequired
	}
	return paginate(f.store, page, store.FollowedBy(viewer.ID))
}
