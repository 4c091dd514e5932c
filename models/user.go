package models

// User is a registered reader. The user whose email matches the configured
// administrator email is the only one allowed to author posts.
type User struct {
	ID           uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Email        string `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Name         string `json:"name" db:"name" gorm:"type:text;not null"`
	PasswordHash string `json:"-" db:"password_hash" gorm:"type:text;not null"`

	Posts    []BlogPost `json:"posts,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Comments []Comment  `json:"comments,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}
