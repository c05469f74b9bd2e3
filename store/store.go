package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

var (
	// ErrNotFound is returned by point lookups whose target does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidSlug rejects group slugs that are not URL-safe.
	ErrInvalidSlug = errors.New("slug must contain only letters, digits, hyphens and underscores")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("record already exists")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Store is the relational data store for users, groups, posts, comments and follow edges.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for callers composing their own scopes.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// sqlite: "UNIQUE constraint failed", mysql: "Error 1062: Duplicate entry"
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry")
}

// CreateUser inserts a new identity.
func (s *Store) CreateUser(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UserByUsername loads an identity by its unique username.
func (s *Store) UserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UserByID loads an identity by primary key.
func (s *Store) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// DeleteUser removes an identity together with its posts, comments and follow edges.
func (s *Store) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		authored := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?) OR author_id = ?", authored, id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// CreateGroup inserts a group after checking its slug is URL-safe.
func (s *Store) CreateGroup(group *models.Group) error {
	if !slugPattern.MatchString(group.Slug) {
		return ErrInvalidSlug
	}
	if err := s.db.Create(group).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GroupBySlug resolves a group from its slug.
func (s *Store) GroupBySlug(slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}

// GroupByID resolves a group by primary key.
func (s *Store) GroupByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}

// ListGroups returns every group ordered by title, for form choices.
func (s *Store) ListGroups() ([]models.Group, error) {
	var groups []models.Group
	err := s.db.Order("title ASC").Find(&groups).Error
	return groups, err
}

// DeleteGroup removes a group. Posts filed under it survive with no group.
func (s *Store) DeleteGroup(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
}
