package models

// DateLayout is the display format posts are stamped with at creation time.
const DateLayout = "January 02, 2006"

// BlogPost represents a published article.
//
// Date is the human-readable publication date ("January 02, 2006"), fixed at
// creation time. Edits overwrite every other field, including the author, but
// never the date.
type BlogPost struct {
	ID       uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title    string `json:"title" db:"title" gorm:"type:text;not null"`
	Subtitle string `json:"subtitle" db:"subtitle" gorm:"type:text;not null"`
	Body     string `json:"body" db:"body" gorm:"type:text;not null"`
	ImgURL   string `json:"imgUrl" db:"img_url" gorm:"type:text;not null"`
	Date     string `json:"date" db:"date" gorm:"type:text;not null"`

	AuthorID uint `json:"authorId" db:"author_id" gorm:"not null"`
	Author   User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}
