package database

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ATMackay/website-go/models"
)

func newTestDB(t *testing.T) Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func seedPost(t *testing.T, d Database, title string) (*models.User, *models.BlogPost) {
	t.Helper()
	user := &models.User{Email: title + "@x.com", Name: "Author", PasswordHash: "h"}
	if err := d.UserRepo().Add(user); err != nil {
		t.Fatalf("add user: %v", err)
	}
	post := &models.BlogPost{
		Title: title, Subtitle: "s", Body: "b", ImgURL: "https://img.example/x.png",
		Date: "January 01, 2026", AuthorID: user.ID,
	}
	if err := d.BlogPostRepo().Add(post); err != nil {
		t.Fatalf("add post: %v", err)
	}
	return user, post
}

func TestFindAllInsertionOrder(t *testing.T) {
	d := newTestDB(t)
	seedPost(t, d, "first")
	seedPost(t, d, "second")
	seedPost(t, d, "third")

	posts, err := d.BlogPostRepo().FindAll()
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("posts = %d, want 3", len(posts))
	}
	for i, want := range []string{"first", "second", "third"} {
		if posts[i].Title != want {
			t.Fatalf("posts[%d] = %q, want %q", i, posts[i].Title, want)
		}
		if posts[i].Author.Name == "" {
			t.Fatalf("author not preloaded for %q", posts[i].Title)
		}
	}
}

func TestFindByIDMissing(t *testing.T) {
	d := newTestDB(t)
	post, err := d.BlogPostRepo().FindByID(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post != nil {
		t.Fatalf("expected nil post for missing id")
	}
}

func TestUpdateNeverTouchesDate(t *testing.T) {
	d := newTestDB(t)
	_, post := seedPost(t, d, "original")

	post.Title = "changed"
	post.Date = "tampered"
	if err := d.BlogPostRepo().Update(post); err != nil {
		t.Fatalf("update: %v", err)
	}

	reloaded, err := d.BlogPostRepo().FindByID(post.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title != "changed" {
		t.Fatalf("title not updated")
	}
	if reloaded.Date != "January 01, 2026" {
		t.Fatalf("date mutated by update: %q", reloaded.Date)
	}
}

func TestDeleteCascadesComments(t *testing.T) {
	d := newTestDB(t)
	user, post := seedPost(t, d, "doomed")
	_, survivor := seedPost(t, d, "survivor")

	for i := 0; i < 4; i++ {
		comment := &models.Comment{Text: "c", AuthorID: user.ID, PostID: post.ID}
		if err := d.CommentRepo().Add(comment); err != nil {
			t.Fatalf("add comment: %v", err)
		}
	}
	other := &models.Comment{Text: "keep", AuthorID: user.ID, PostID: survivor.ID}
	if err := d.CommentRepo().Add(other); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	if err := d.BlogPostRepo().Delete(post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	gone, err := d.BlogPostRepo().FindByID(post.ID)
	if err != nil || gone != nil {
		t.Fatalf("post not deleted: %v %v", gone, err)
	}
	if n, _ := d.CommentRepo().CountByPost(post.ID); n != 0 {
		t.Fatalf("orphaned comments: %d", n)
	}
	if n, _ := d.CommentRepo().CountByPost(survivor.ID); n != 1 {
		t.Fatalf("cascade deleted the wrong comments: %d", n)
	}
}

func TestUserEmailUnique(t *testing.T) {
	d := newTestDB(t)
	if err := d.UserRepo().Add(&models.User{Email: "a@x.com", Name: "A", PasswordHash: "h"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.UserRepo().Add(&models.User{Email: "a@x.com", Name: "B", PasswordHash: "h"}); err == nil {
		t.Fatalf("duplicate email accepted by persistence layer")
	}
}
