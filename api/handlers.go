package api

import (
	"github.com/ATMackay/website-go/database"
	"github.com/ATMackay/website-go/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler  authHandler
	blogHandler  blogHandler
	pagesHandler pagesHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, sessions *SessionManager, renderer *Renderer, mailer services.Mailer) *routeHandlers {
	return &routeHandlers{
		authHandler:  newAuthHandler(db.UserRepo(), sessions, renderer),
		blogHandler:  newBlogHandler(db.BlogPostRepo(), db.CommentRepo(), sessions, renderer),
		pagesHandler: newPagesHandler(mailer, renderer),
	}
}
