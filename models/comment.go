package models

// Comment is a reader's reply to a post. Comments are never edited or deleted
// on their own; they go away only when their parent post is deleted.
type Comment struct {
	ID   uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Text string `json:"text" db:"text" gorm:"type:text;not null"`

	AuthorID uint `json:"authorId" db:"author_id" gorm:"not null"`
	Author   User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`

	PostID uint     `json:"postId" db:"post_id" gorm:"index;not null"`
	Post   BlogPost `json:"-" gorm:"foreignKey:PostID;references:ID"`
}
