package services

import (
	"errors"
	"testing"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		raw      string
		numPages int
		want     int
	}{
		{"", 3, 1},
		{"abc", 3, 1},
		{"2", 3, 2},
		{" 3 ", 3, 3},
		{"4", 3, 3},
		{"999", 3, 3},
		{"0", 3, 3},
		{"-1", 3, 3},
		{"1", 1, 1},
	}
	for _, tc := range cases {
		if got := ParsePage(tc.raw, tc.numPages); got != tc.want {
			t.Errorf("ParsePage(%q, %d) = %d, want %d", tc.raw, tc.numPages, got, tc.want)
		}
	}
}

func TestPaginationSizes(t *testing.T) {
	for _, n := range []int{11, 13, 20, 21, 35} {
		s := newTestStore(t)
		author := mustUser(t, s, "author")
		seedPosts(t, s, author, nil, n)
		feeds := NewFeedService(s)

		first, err := feeds.Index("1")
		if err != nil {
			t.Fatalf("index: %v", err)
		}
		if len(first.Items) != PageSize {
			t.Fatalf("n=%d: expected %d items on page 1, got %d", n, PageSize, len(first.Items))
		}

		last, err := feeds.Index("999")
		if err != nil {
			t.Fatalf("index: %v", err)
		}
		want := n - PageSize*((n-1)/PageSize)
		if len(last.Items) != want {
			t.Fatalf("n=%d: expected %d items on the last page, got %d", n, want, len(last.Items))
		}
		if last.Number != last.NumPages || last.HasNext || !last.HasPrevious {
			t.Fatalf("n=%d: unexpected last page metadata %+v", n, last)
		}
	}
}

func TestFeedsAreNewestFirst(t *testing.T) {
	s := newTestStore(t)
	author := mustUser(t, s, "author")
	group := mustGroup(t, s, "g")
	seedPosts(t, s, author, group, 25)
	feeds := NewFeedService(s)

	pages := []string{"1", "2", "3"}
	var prev *Page
	for _, raw := range pages {
		page, err := feeds.Index(raw)
		if err != nil {
			t.Fatalf("index: %v", err)
		}
		for i := 1; i < len(page.Items); i++ {
			if page.Items[i-1].PubDate.Before(page.Items[i].PubDate) {
				t.Fatalf("page %s out of order at %d", raw, i)
			}
		}
		if prev != nil && prev.Items[len(prev.Items)-1].PubDate.Before(page.Items[0].PubDate) {
			t.Fatalf("page %s starts newer than the end of the previous page", raw)
		}
		prev = page
	}

	gf, err := feeds.Group("g", "")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if gf.Page.Count != 25 || gf.Group.Slug != "g" {
		t.Fatalf("unexpected group feed %+v", gf.Page)
	}
}

func TestEmptyFeedHasOnePage(t *testing.T) {
	s := newTestStore(t)
	page, err := NewFeedService(s).Index("7")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if page.Number != 1 || page.NumPages != 1 || len(page.Items) != 0 || page.Items == nil {
		t.Fatalf("unexpected empty page %+v", page)
	}
}

func TestGroupAndProfileNotFound(t *testing.T) {
	feeds := NewFeedService(newTestStore(t))
	if _, err := feeds.Group("nope", ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown slug, got %v", err)
	}
	if _, err := feeds.Profile(nil, "nobody", ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}

func TestProfileFollowingFlag(t *testing.T) {
	s := newTestStore(t)
	author := mustUser(t, s, "author")
	fan := mustUser(t, s, "fan")
	stranger := mustUser(t, s, "stranger")
	seedPosts(t, s, author, nil, 3)
	_ = s.CreateFollow(fan.ID, author.ID)
	feeds := NewFeedService(s)

	cases := []struct {
		name   string
		viewer string
		want   bool
	}{
		{"anonymous", "", false},
		{"self", "author", false},
		{"follower", "fan", true},
		{"stranger", "stranger", false},
	}
	viewers := map[string]*models.User{"author": author, "fan": fan, "stranger": stranger}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pf, err := feeds.Profile(viewers[tc.viewer], "author", "")
			if err != nil {
				t.Fatalf("profile: %v", err)
			}
			if pf.Following != tc.want {
				t.Fatalf("following = %v, want %v", pf.Following, tc.want)
			}
			if pf.Page.Count != 3 {
				t.Fatalf("expected 3 posts, got %d", pf.Page.Count)
			}
		})
	}
}

func TestFollowingFeed(t *testing.T) {
	s := newTestStore(t)
	reader := mustUser(t, s, "reader")
	followed := mustUser(t, s, "followed")
	other := mustUser(t, s, "other")
	seedPosts(t, s, followed, nil, 2)
	seedPosts(t, s, other, nil, 4)
	_ = s.CreateFollow(reader.ID, followed.ID)
	feeds := NewFeedService(s)

	page, err := feeds.Following(reader, "")
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if page.Count != 2 {
		t.Fatalf("expected 2 followed posts, got %d", page.Count)
	}
	for _, p := range page.Items {
		if p.AuthorID != followed.ID {
			t.Fatalf("post by %d leaked into the following feed", p.AuthorID)
		}
	}

	if _, err := feeds.Following(nil, ""); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired for anonymous viewer, got %v", err)
	}
}

func TestPageNeighbourNumbers(t *testing.T) {
	s := newTestStore(t)
	author := mustUser(t, s, "author")
	seedPosts(t, s, author, nil, 25)
	feeds := NewFeedService(s)

	cases := []struct {
		raw        string
		next, prev int
	}{
		{"1", 2, 0},
		{"2", 3, 1},
		{"3", 0, 2},
	}
	for _, tc := range cases {
		page, err := feeds.Index(tc.raw)
		if err != nil {
			t.Fatalf("index: %v", err)
		}
		if page.NextPageNumber != tc.next || page.PreviousPageNumber != tc.prev {
			t.Fatalf("page %s: next=%d prev=%d, want %d/%d", tc.raw, page.NextPageNumber, page.PreviousPageNumber, tc.next, tc.prev)
		}
	}
}
