package database

import (
	"errors"

	"github.com/ATMackay/website-go/models"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindAll returns all blog posts in insertion order. The ordering is part of
// the page contract, so it is stated explicitly rather than left to the store.
func (r *BlogPostRepo) FindAll() ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := r.db.Preload("Author").Order("id ASC").Find(&posts).Error
	return posts, err
}

// FindByID returns a blog post with its author and comments (comment authors
// included, the post page needs their names and emails for avatars).
// Returns (nil, nil) when no row exists.
func (r *BlogPostRepo) FindByID(id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.Preload("Author").Preload("Comments").Preload("Comments.Author").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new blog post into the database
func (r *BlogPostRepo) Add(post *models.BlogPost) error {
	return r.db.Create(post).Error
}

// Update overwrites the editable columns of an existing post. The date
// column is deliberately not in the list: creation dates are immutable.
func (r *BlogPostRepo) Update(post *models.BlogPost) error {
	return r.db.Model(&models.BlogPost{}).
		Where("id = ?", post.ID).
		Select("title", "subtitle", "body", "img_url", "author_id").
		Updates(map[string]any{
			"title":     post.Title,
			"subtitle":  post.Subtitle,
			"body":      post.Body,
			"img_url":   post.ImgURL,
			"author_id": post.AuthorID,
		}).Error
}

// Delete removes a post and all of its comments in one transaction, so a
// failure partway leaves neither orphaned comments nor a half-deleted post.
func (r *BlogPostRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BlogPost{}, id).Error
	})
}
