package database

import (
	"github.com/ATMackay/website-go/models"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// CountByPost returns the number of comments attached to a post.
func (r *CommentRepo) CountByPost(postID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
