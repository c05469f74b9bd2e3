package services

import (
	"errors"
	"testing"

	"github.com/cppla/yatube/store"
)

func TestFollowIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	fan := mustUser(t, s, "fan")
	author := mustUser(t, s, "author")
	svc := NewFollowService(s)

	for i := 0; i < 3; i++ {
		if _, err := svc.Follow(fan, "author"); err != nil {
			t.Fatalf("follow #%d: %v", i, err)
		}
	}
	if n, _ := s.CountFollows(fan.ID, author.ID); n != 1 {
		t.Fatalf("expected one edge, got %d", n)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Unfollow(fan, "author"); err != nil {
			t.Fatalf("unfollow #%d: %v", i, err)
		}
	}
	if n, _ := s.CountFollows(fan.ID, author.ID); n != 0 {
		t.Fatalf("expected no edge, got %d", n)
	}
}

func TestFollowSelfIsNoop(t *testing.T) {
	s := newTestStore(t)
	me := mustUser(t, s, "me")

	if _, err := NewFollowService(s).Follow(me, "me"); err != nil {
		t.Fatalf("self follow: %v", err)
	}
	if n, _ := s.CountFollows(me.ID, me.ID); n != 0 {
		t.Fatalf("self follow stored an edge")
	}
}

func TestFollowErrors(t *testing.T) {
	s := newTestStore(t)
	fan := mustUser(t, s, "fan")
	svc := NewFollowService(s)

	if _, err := svc.Follow(nil, "fan"); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if _, err := svc.Follow(fan, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Unfollow(fan, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
