package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRoutes wires the public pages, the authenticated comment submission
// and the admin-gated post mutations. Every mutation route lives inside the
// requireAdmin group; nothing else reaches those handlers.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RedirectSlashes)
	r.Use(RecoverPanics)
	r.Use(LogRequests)
	r.Use(auth.resolveUser)

	r.Get("/", handlers.pagesHandler.landing())
	r.Get("/about", handlers.pagesHandler.about())
	r.Get("/contact", handlers.pagesHandler.contactForm())
	r.Post("/contact", handlers.pagesHandler.submitContact())

	r.Get("/register", handlers.authHandler.registerForm())
	r.Post("/register", handlers.authHandler.register())
	r.Get("/login", handlers.authHandler.loginForm())
	r.Post("/login", handlers.authHandler.login())
	r.Get("/logout", handlers.authHandler.logout())

	r.Get("/blog", handlers.blogHandler.listPosts())
	r.Get("/post/{postID}", handlers.blogHandler.showPost())
	r.Post("/post/{postID}", handlers.blogHandler.addComment())

	r.Group(func(g chi.Router) {
		g.Use(auth.requireAdmin)

		g.Get("/new-post", handlers.blogHandler.newPostForm())
		g.Post("/new-post", handlers.blogHandler.createPost())
		g.Get("/edit-post/{postID}", handlers.blogHandler.editPostForm())
		g.Post("/edit-post/{postID}", handlers.blogHandler.updatePost())
		g.Get("/delete/{postID}", handlers.blogHandler.deletePost())
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
}
