package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/store"
)

// FollowController manages follow edges between the current user and authors.
type FollowController struct {
	follows *services.FollowService
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(s *store.Store) *FollowController {
	return &FollowController{follows: services.NewFollowService(s)}
}

// Follow subscribes the current user to an author and returns to the author's profile.
func (f *FollowController) Follow(ctx *gin.Context) {
	author, err := f.follows.Follow(middleware.CurrentUser(ctx), ctx.Param("username"))
	if err != nil {
		failLookup(ctx, err, 40411, "user not found")
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(author.Username))
}

// Unfollow removes the subscription and returns to the following feed.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	if _, err := f.follows.Unfollow(middleware.CurrentUser(ctx), ctx.Param("username")); err != nil {
		failLookup(ctx, err, 40411, "user not found")
		return
	}
	ctx.Redirect(http.StatusFound, "/follow/")
}
