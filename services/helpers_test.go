package services

import (
	"testing"
	"time"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	conn, err := config.OpenDatabase(config.AppConfig{DBDriver: "sqlite", DatabaseURI: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := config.Migrate(conn, models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(conn)
}

func mustUser(t *testing.T, s *store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func mustGroup(t *testing.T, s *store.Store, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "desc"}
	if err := s.CreateGroup(g); err != nil {
		t.Fatalf("create group: %v", err)
	}
	return g
}

// seedPosts creates n posts by author one minute apart, oldest first.
func seedPosts(t *testing.T, s *store.Store, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Post{Text: "post", AuthorID: author.ID, PubDate: base.Add(time.Duration(i) * time.Minute)}
		if group != nil {
			p.GroupID = &group.ID
		}
		if err := s.CreatePost(p); err != nil {
			t.Fatalf("create post: %v", err)
		}
		out = append(out, p)
	}
	return out
}
