package store

import "github.com/cppla/yatube/models"

// FollowExists reports whether userID already follows authorID.
func (s *Store) FollowExists(userID, authorID uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	return n > 0, err
}

// CreateFollow inserts the edge userID -> authorID. ErrDuplicate is returned if it already exists.
func (s *Store) CreateFollow(userID, authorID uint) error {
	edge := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.Omit("User", "Author").Create(&edge).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DeleteFollow removes the edge userID -> authorID if present.
func (s *Store) DeleteFollow(userID, authorID uint) error {
	return s.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{}).Error
}

// CountFollows returns the number of edges from userID to authorID.
func (s *Store) CountFollows(userID, authorID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	return n, err
}
