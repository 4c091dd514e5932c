package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ATMackay/website-go/database"
	"github.com/ATMackay/website-go/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogHandler struct {
	logger       zerolog.Logger
	renderer     *Renderer
	sessions     *SessionManager
	blogPostRepo *database.BlogPostRepo
	commentRepo  *database.CommentRepo
}

func newBlogHandler(blogPostRepo *database.BlogPostRepo, commentRepo *database.CommentRepo, sessions *SessionManager, renderer *Renderer) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		logger:       logger,
		renderer:     renderer,
		sessions:     sessions,
		blogPostRepo: blogPostRepo,
		commentRepo:  commentRepo,
	}
}

// postID parses the {postID} route parameter. ok is false for anything that
// is not a positive integer.
func postID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "postID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// listPosts renders every post, oldest first.
func (h blogHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blogPostRepo.FindAll()
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to load posts")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.renderer.Render(w, r, "index", http.StatusOK, map[string]any{
			"Title": "Blog",
			"Posts": posts,
		})
	}
}

func (h blogHandler) showPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := postID(r)
		if !ok {
			h.renderer.NotFound(w, r)
			return
		}
		post, err := h.blogPostRepo.FindByID(id)
		if err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to load post")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			h.renderer.NotFound(w, r)
			return
		}
		h.renderer.Render(w, r, "post", http.StatusOK, map[string]any{
			"Title": post.Title,
			"Post":  post,
		})
	}
}

// addComment persists a reader's reply. Anonymous visitors are sent to the
// login page with a notice; commenting on a missing post is a plain 404.
func (h blogHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxUser(r.Context())
		if user == nil {
			h.sessions.Flash(w, r, "You need to login or register to comment.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		id, ok := postID(r)
		if !ok {
			h.renderer.NotFound(w, r)
			return
		}
		post, err := h.blogPostRepo.FindByID(id)
		if err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to load post for comment")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			h.renderer.NotFound(w, r)
			return
		}

		text := strings.TrimSpace(r.FormValue("comment"))
		if text == "" {
			h.sessions.Flash(w, r, "Comment text cannot be empty.")
			http.Redirect(w, r, "/post/"+strconv.FormatUint(uint64(id), 10), http.StatusSeeOther)
			return
		}

		comment := models.Comment{Text: text, AuthorID: user.ID, PostID: post.ID}
		if err := h.commentRepo.Add(&comment); err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to save comment")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/post/"+strconv.FormatUint(uint64(id), 10), http.StatusSeeOther)
	}
}

// postFormValues pulls and validates the four required post fields.
func (h blogHandler) postFormValues(r *http.Request) (title, subtitle, imgURL, body string, ok bool) {
	title = strings.TrimSpace(r.FormValue("title"))
	subtitle = strings.TrimSpace(r.FormValue("subtitle"))
	imgURL = strings.TrimSpace(r.FormValue("img_url"))
	body = strings.TrimSpace(r.FormValue("body"))
	ok = title != "" && subtitle != "" && imgURL != "" && body != ""
	return
}

func (h blogHandler) newPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, "make-post", http.StatusOK, map[string]any{
			"Title": "New Post",
			"Form":  map[string]string{},
		})
	}
}

// createPost stamps the post with the human-readable submission date and the
// admin as author. Reached only through the requireAdmin group.
func (h blogHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxUser(r.Context())

		title, subtitle, imgURL, body, ok := h.postFormValues(r)
		if !ok {
			h.renderer.Render(w, r, "make-post", http.StatusBadRequest, map[string]any{
				"Title":   "New Post",
				"Flashes": []string{"Title, subtitle, image URL and body are all required."},
				"Form":    map[string]string{"Title": title, "Subtitle": subtitle, "ImgURL": imgURL, "Body": body},
			})
			return
		}

		post := models.BlogPost{
			Title:    title,
			Subtitle: subtitle,
			Body:     body,
			ImgURL:   imgURL,
			Date:     time.Now().Format(models.DateLayout),
			AuthorID: user.ID,
		}
		if err := h.blogPostRepo.Add(&post); err != nil {
			h.logger.Error().Err(err).Msg("failed to create post")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.Info().Uint("postID", post.ID).Str("title", post.Title).Msg("post created")
		http.Redirect(w, r, "/blog", http.StatusSeeOther)
	}
}

func (h blogHandler) editPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := postID(r)
		if !ok {
			h.renderer.NotFound(w, r)
			return
		}
		post, err := h.blogPostRepo.FindByID(id)
		if err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to load post for edit")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			h.renderer.NotFound(w, r)
			return
		}
		h.renderer.Render(w, r, "make-post", http.StatusOK, map[string]any{
			"Title":  "Edit Post",
			"IsEdit": true,
			"PostID": post.ID,
			"Form":   map[string]string{"Title": post.Title, "Subtitle": post.Subtitle, "ImgURL": post.ImgURL, "Body": post.Body},
		})
	}
}

// updatePost overwrites everything except the creation date. The author is
// reassigned to whoever performs the edit; with the admin gate in front this
// is always the administrator, and it is the behavior the site has always had.
func (h blogHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxUser(r.Context())

		id, ok := postID(r)
		if !ok {
			h.renderer.NotFound(w, r)
			return
		}
		post, err := h.blogPostRepo.FindByID(id)
		if err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to load post for update")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			h.renderer.NotFound(w, r)
			return
		}

		title, subtitle, imgURL, body, ok := h.postFormValues(r)
		if !ok {
			h.renderer.Render(w, r, "make-post", http.StatusBadRequest, map[string]any{
				"Title":   "Edit Post",
				"IsEdit":  true,
				"PostID":  post.ID,
				"Flashes": []string{"Title, subtitle, image URL and body are all required."},
				"Form":    map[string]string{"Title": title, "Subtitle": subtitle, "ImgURL": imgURL, "Body": body},
			})
			return
		}

		post.Title = title
		post.Subtitle = subtitle
		post.ImgURL = imgURL
		post.Body = body
		post.AuthorID = user.ID
		if err := h.blogPostRepo.Update(post); err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to update post")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.Info().Uint("postID", post.ID).Msg("post updated")
		http.Redirect(w, r, "/post/"+strconv.FormatUint(uint64(post.ID), 10), http.StatusSeeOther)
	}
}

// deletePost removes the post and its comments atomically.
func (h blogHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := postID(r)
		if !ok {
			h.renderer.NotFound(w, r)
			return
		}
		post, err := h.blogPostRepo.FindByID(id)
		if err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to load post for delete")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			h.renderer.NotFound(w, r)
			return
		}

		if err := h.blogPostRepo.Delete(id); err != nil {
			h.logger.Error().Err(err).Uint("postID", id).Msg("failed to delete post")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.Info().Uint("postID", id).Msg("post deleted")
		http.Redirect(w, r, "/blog", http.StatusSeeOther)
	}
}
