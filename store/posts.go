package store

import (
	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

// PostFilter narrows a post query. Filters are composed with gorm scopes.
type PostFilter func(*gorm.DB) *gorm.DB

// InGroup keeps the posts filed under groupID.
func InGroup(groupID uint) PostFilter {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.group_id = ?", groupID)
	}
}

// ByAuthor keeps the posts written by authorID.
func ByAuthor(authorID uint) PostFilter {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", authorID)
	}
}

// FollowedBy keeps the posts of every author userID follows.
func FollowedBy(userID uint) PostFilter {
	return func(db *gorm.DB) *gorm.DB {
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("author_id").
			Where("user_id = ?", userID)
		return db.Where("posts.author_id IN (?)", followed)
	}
}

func scopes(filters []PostFilter) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, 0, len(filters))
	for _, f := range filters {
		out = append(out, f)
	}
	return out
}

// CountPosts returns the number of posts matching every filter.
func (s *Store) CountPosts(filters ...PostFilter) (int64, error) {
	var n int64
	err := s.db.Model(&models.Post{}).Scopes(scopes(filters)...).Count(&n).Error
	return n, err
}

// ListPosts returns one window of the posts matching every filter, newest first.
// The id breaks ties between equal publication timestamps so windows never overlap.
func (s *Store) ListPosts(offset, limit int, filters ...PostFilter) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Model(&models.Post{}).
		Scopes(scopes(filters)...).
		Preload("Author").
		Preload("Group").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CreatePost inserts a post. PubDate is assigned by the database layer when zero.
func (s *Store) CreatePost(post *models.Post) error {
	return s.db.Omit("Author", "Group").Create(post).Error
}

// PostByID loads a post with its author and group.
func (s *Store) PostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// UpdatePost rewrites the mutable columns of post in place. Author and PubDate are never touched.
func (s *Store) UpdatePost(post *models.Post, text string, groupID *uint, image string) error {
	err := s.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{"text": text, "group_id": groupID, "image": image}).Error
	if err != nil {
		return err
	}
	post.Text = text
	post.GroupID = groupID
	post.Image = image
	post.Group = nil
	return nil
}

// DeletePost removes a post and every comment attached to it.
func (s *Store) DeletePost(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// CreateComment inserts a comment. Created is assigned by the database layer when zero.
func (s *Store) CreateComment(comment *models.Comment) error {
	return s.db.Omit("Author").Create(comment).Error
}

// CommentsForPost lists the comments of a post, newest first.
func (s *Store) CommentsForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}
