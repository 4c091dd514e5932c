package database

import (
	"github.com/ATMackay/website-go/models"
	"gorm.io/gorm"
)

type Database struct {
	userRepo     *UserRepo
	blogPostRepo *BlogPostRepo
	commentRepo  *CommentRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:     NewUserRepo(db),
		blogPostRepo: NewBlogPostRepo(db),
		commentRepo:  NewCommentRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

// Migrate creates the three tables if they are absent. There is no migration
// versioning; the schema is small enough to be declared by the models alone.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.BlogPost{}, &models.Comment{})
}
