package models

// Follow is a directed edge from a follower (UserID) to a followed author (AuthorID).
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_follow_user_author,priority:1" json:"user_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_follow_user_author,priority:2;index" json:"author_id"`
	User     User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Author   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Group{}, &Post{}, &Comment{}, &Follow{}}
}
