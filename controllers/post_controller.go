package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// PostController serves the feeds, post pages and post mutations.
type PostController struct {
	store *store.Store
	feeds *services.FeedService
	posts *services.PostService
	cache *utils.ResponseCache
}

// NewPostController creates a new PostController instance.
func NewPostController(s *store.Store, cache *utils.ResponseCache, mediaRoot string, maxUpload int64) *PostController {
	return &PostController{
		store: s,
		feeds: services.NewFeedService(s),
		posts: services.NewPostService(s, mediaRoot, maxUpload),
		cache: cache,
	}
}

// Index returns a page of the global feed. Whole responses are cached per URL and
// are not invalidated when posts change.
func (p *PostController) Index(ctx *gin.Context) {
	key := ctx.Request.URL.RequestURI()
	if b, ok := p.cache.Get(key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	page, err := p.feeds.Index(ctx.Query("page"))
	if err != nil {
		fail(ctx, err, 50010, "failed to load posts")
		return
	}
	body, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"page_obj": page}})
	if err != nil {
		fail(ctx, err, 50011, "failed to encode page")
		return
	}
	p.cache.Set(key, body)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GroupPosts returns a page of the posts in one group.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	feed, err := p.feeds.Group(ctx.Param("slug"), ctx.Query("page"))
	if err != nil {
		failLookup(ctx, err, 40410, "group not found")
		return
	}
	utils.Success(ctx, feed)
}

// Profile returns a page of one author's posts.
func (p *PostController) Profile(ctx *gin.Context) {
	feed, err := p.feeds.Profile(middleware.CurrentUser(ctx), ctx.Param("username"), ctx.Query("page"))
	if err != nil {
		failLookup(ctx, err, 40411, "user not found")
		return
	}
	utils.Success(ctx, feed)
}

// PostDetail returns a post, its comments and an empty comment form.
func (p *PostController) PostDetail(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	detail, err := p.posts.Detail(id)
	if err != nil {
		failLookup(ctx, err, 40420, "post not found")
		return
	}
	utils.Success(ctx, gin.H{
		"post":     detail.Post,
		"comments": detail.Comments,
		"form":     services.CommentForm{},
	})
}

// CreateForm returns the empty post form.
func (p *PostController) CreateForm(ctx *gin.Context) {
	p.renderForm(ctx, services.PostForm{}, nil, nil)
}

// Create stores a new post and redirects to the author's profile.
func (p *PostController) Create(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)
	form, err := readPostForm(ctx)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid form payload")
		return
	}
	_, errs, err := p.posts.Create(actor, form)
	if err != nil {
		fail(ctx, err, 50020, "failed to create post")
		return
	}
	if !errs.Valid() {
		p.renderForm(ctx, form, errs, nil)
		return
	}
	ctx.Redirect(http.StatusFound, profileURL(actor.Username))
}

// EditForm returns the post form filled with the current post. Only the author gets it;
// everyone else is sent to the post page.
func (p *PostController) EditForm(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	post, err := p.posts.EditTarget(middleware.CurrentUser(ctx), id)
	if errors.Is(err, services.ErrForbidden) {
		ctx.Redirect(http.StatusFound, postURL(id))
		return
	}
	if err != nil {
		failLookup(ctx, err, 40420, "post not found")
		return
	}
	form := services.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	p.renderForm(ctx, form, nil, post)
}

// Edit updates a post in place and redirects to its page.
func (p *PostController) Edit(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	form, err := readPostForm(ctx)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid form payload")
		return
	}
	post, errs, err := p.posts.Edit(middleware.CurrentUser(ctx), id, form)
	if errors.Is(err, services.ErrForbidden) {
		ctx.Redirect(http.StatusFound, postURL(id))
		return
	}
	if err != nil {
		failLookup(ctx, err, 40420, "post not found")
		return
	}
	if !errs.Valid() {
		p.renderForm(ctx, form, errs, post)
		return
	}
	ctx.Redirect(http.StatusFound, postURL(id))
}

// AddComment stores a comment when the text is valid and always returns to the post page.
func (p *PostController) AddComment(ctx *gin.Context) {
	id, ok := postIDParam(ctx)
	if !ok {
		return
	}
	form := services.CommentForm{Text: ctx.PostForm("text")}
	if _, err := p.posts.AddComment(middleware.CurrentUser(ctx), id, form); err != nil {
		failLookup(ctx, err, 40420, "post not found")
		return
	}
	ctx.Redirect(http.StatusFound, postURL(id))
}

// FollowIndex returns a page of posts by the authors the current user follows.
func (p *PostController) FollowIndex(ctx *gin.Context) {
	page, err := p.feeds.Following(middleware.CurrentUser(ctx), ctx.Query("page"))
	if err != nil {
		fail(ctx, err, 50012, "failed to load posts")
		return
	}
	utils.Success(ctx, gin.H{"page_obj": page})
}

// renderForm writes the post form context. post is nil when creating.
func (p *PostController) renderForm(ctx *gin.Context, form services.PostForm, errs services.FieldErrors, post *models.Post) {
	groups, err := p.store.ListGroups()
	if err != nil {
		fail(ctx, err, 50013, "failed to load groups")
		return
	}
	if errs == nil {
		errs = services.FieldErrors{}
	}
	utils.Success(ctx, gin.H{
		"form":    form,
		"errors":  errs,
		"groups":  groups,
		"is_edit": post != nil,
		"post":    post,
	})
}

func readPostForm(ctx *gin.Context) (services.PostForm, error) {
	form := services.PostForm{
		Text:       ctx.PostForm("text"),
		Group:      ctx.PostForm("group"),
		ClearImage: checkbox(ctx.PostForm("image-clear")),
	}
	fh, err := ctx.FormFile("image")
	switch {
	case err == nil:
		form.Image = fh
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return form, err
	}
	return form, nil
}
