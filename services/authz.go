package services

import "github.com/cppla/yatube/models"

// CanCreate reports whether actor may author posts and comments. Any identity qualifies.
func CanCreate(actor *models.User) bool {
	return actor != nil
}

// MayMutate reports whether actor may edit post. Only the author may.
func MayMutate(actor *models.User, post *models.Post) bool {
	if actor == nil || post == nil {
		return false
	}
	return actor.ID == post.AuthorID
}
