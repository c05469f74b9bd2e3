package services

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// postImageDir is where post images are stored, relative to the media root.
const postImageDir = "posts"

// PostService applies post and comment mutations on behalf of an explicit actor.
type PostService struct {
	store     *store.Store
	mediaRoot string
	maxUpload int64
}

// NewPostService creates a PostService storing images under mediaRoot.
func NewPostService(s *store.Store, mediaRoot string, maxUpload int64) *PostService {
	return &PostService{store: s, mediaRoot: mediaRoot, maxUpload: maxUpload}
}

// PostDetail is a post with its comments, newest first.
type PostDetail struct {
	Post     *models.Post     `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// Detail loads a post and its comments.
func (p *PostService) Detail(postID uint) (*PostDetail, error) {
	post, err := p.store.PostByID(postID)
	if err != nil {
		return nil, err
	}
	comments, err := p.store.CommentsForPost(post.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// Create validates form and stores a new post authored by actor.
// Invalid input is reported through FieldErrors and nothing is stored.
func (p *PostService) Create(actor *models.User, form PostForm) (*models.Post, FieldErrors, error) {
	if !CanCreate(actor) {
		return nil, nil, ErrLoginRequired
	}
	cleaned, errs, err := p.validatePost(form)
	if err != nil || !errs.Valid() {
		return nil, errs, err
	}

	post := &models.Post{
		Text:     cleaned.text,
		AuthorID: actor.ID,
		GroupID:  cleaned.groupID,
	}
	if cleaned.image != nil {
		if post.Image, err = utils.SaveUpload(p.mediaRoot, postImageDir, cleaned.image); err != nil {
			return nil, nil, err
		}
	}
	if err := p.store.CreatePost(post); err != nil {
		p.discardImage(post.Image)
		return nil, nil, err
	}
	post.Author = *actor

	utils.Logger.Info("post created",
		zap.Uint("post_id", post.ID),
		zap.String("author", actor.Username),
		zap.String("excerpt", post.Excerpt()),
	)
	return post, nil, nil
}

// EditTarget loads the post actor wants to edit. ErrForbidden is returned, together with
// the post, when actor is not its author.
func (p *PostService) EditTarget(actor *models.User, postID uint) (*models.Post, error) {
	if actor == nil {
		return nil, ErrLoginRequired
	}
	post, err := p.store.PostByID(postID)
	if err != nil {
		return nil, err
	}
	if !MayMutate(actor, post) {
		return post, ErrForbidden
	}
	return post, nil
}

// Edit validates form and rewrites the text, group and image of a post in place.
// Author and publication date are never changed.
func (p *PostService) Edit(actor *models.User, postID uint, form PostForm) (*models.Post, FieldErrors, error) {
	post, err := p.EditTarget(actor, postID)
	if err != nil {
		return post, nil, err
	}
	cleaned, errs, err := p.validatePost(form)
	if err != nil || !errs.Valid() {
		return post, errs, err
	}

	image := post.Image
	switch {
	case cleaned.image != nil:
		if image, err = utils.SaveUpload(p.mediaRoot, postImageDir, cleaned.image); err != nil {
			return post, nil, err
		}
	case cleaned.clear:
		image = ""
	}

	if err := p.store.UpdatePost(post, cleaned.text, cleaned.groupID, image); err != nil {
		if cleaned.image != nil {
			p.discardImage(image)
		}
		return post, nil, err
	}
	return post, nil, nil
}

// AddComment stores a comment by actor on the post. Blank text is silently ignored,
// in which case the returned comment is nil.
func (p *PostService) AddComment(actor *models.User, postID uint, form CommentForm) (*models.Comment, error) {
	if !CanCreate(actor) {
		return nil, ErrLoginRequired
	}
	post, err := p.store.PostByID(postID)
	if err != nil {
		return nil, err
	}
	text, ok := validComment(form)
	if !ok {
		return nil, nil
	}
	comment := &models.Comment{PostID: post.ID, AuthorID: actor.ID, Text: text}
	if err := p.store.CreateComment(comment); err != nil {
		return nil, err
	}
	comment.Author = *actor
	return comment, nil
}

func (p *PostService) discardImage(rel string) {
	if rel == "" {
		return
	}
	if err := os.Remove(filepath.Join(p.mediaRoot, filepath.FromSlash(rel))); err != nil {
		utils.Sugar.Warnf("remove orphaned upload %s: %v", rel, err)
	}
}
