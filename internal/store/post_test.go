package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestPostStoreCreateDefaults(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testAuthor(t, db)

	slug := "test-defaults-" + uuid.NewString()[:8]
	created, err := s.Create(&models.Post{
		Title:    "Defaults",
		Slug:     slug,
		AuthorID: author.ID,
		Body:     "body",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", created.ID) })

	if created.Status != models.PostStatusDraft {
		t.Errorf("status: got %q, want draft default", created.Status)
	}
	if created.PublishDate.IsZero() {
		t.Error("expected publish_date to default to creation time")
	}
	if created.IsPublished() {
		t.Error("draft must not report as published")
	}
}

func TestPostStoreDuplicateSlugConflicts(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testAuthor(t, db)

	p := testPost(t, db, author.ID, models.PostStatusDraft)

	_, err := s.Create(&models.Post{
		Title:    "Duplicate",
		Slug:     p.Slug,
		AuthorID: author.ID,
		Body:     "body",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate slug create: got %v, want ErrConflict", err)
	}
}

func TestPostStoreFindPublishedBySlug(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testAuthor(t, db)

	draft := testPost(t, db, author.ID, models.PostStatusDraft)

	// A draft's slug is invisible to the published lookup.
	found, err := s.FindPublishedBySlug(draft.Slug)
	if err != nil {
		t.Fatalf("FindPublishedBySlug (draft): %v", err)
	}
	if found != nil {
		t.Error("expected nil for draft slug")
	}

	// The admin lookup still sees it.
	anyStatus, err := s.FindBySlug(draft.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if anyStatus == nil {
		t.Fatal("FindBySlug must see drafts")
	}

	published := testPost(t, db, author.ID, models.PostStatusPublished)
	found, err = s.FindPublishedBySlug(published.Slug)
	if err != nil {
		t.Fatalf("FindPublishedBySlug (published): %v", err)
	}
	if found == nil || found.ID != published.ID {
		t.Fatalf("FindPublishedBySlug: got %+v, want id %s", found, published.ID)
	}

	// Unknown slug.
	found, err = s.FindPublishedBySlug("no-such-slug-" + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindPublishedBySlug (missing): %v", err)
	}
	if found != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestPostStorePublishedOrdering(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testAuthor(t, db)

	// Publish dates far in the future so these three dominate page one.
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		slug := "test-order-" + uuid.NewString()[:8]
		p, err := s.Create(&models.Post{
			Title:       "Ordered",
			Slug:        slug,
			AuthorID:    author.ID,
			Body:        "body",
			PublishDate: base.Add(time.Duration(i) * time.Hour),
			Status:      models.PostStatusPublished,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
		ids = append(ids, p.ID)
	}

	page, err := s.ListPublishedPage(1)
	if err != nil {
		t.Fatalf("ListPublishedPage: %v", err)
	}
	if page == nil {
		t.Fatal("page 1 must always exist")
	}
	if len(page.Posts) < 3 {
		t.Fatalf("expected at least 3 posts on page 1, got %d", len(page.Posts))
	}

	// Newest publish date first: created third, second, first.
	for i, want := range []uuid.UUID{ids[2], ids[1], ids[0]} {
		if page.Posts[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, page.Posts[i].ID, want)
		}
	}
}

func TestPostStoreListPublishedExcludesDrafts(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testAuthor(t, db)

	draft := testPost(t, db, author.ID, models.PostStatusDraft)
	published := testPost(t, db, author.ID, models.PostStatusPublished)

	seenPublished := 0
	for p := 1; ; p++ {
		page, err := s.ListPublishedPage(p)
		if err != nil {
			t.Fatalf("ListPublishedPage(%d): %v", p, err)
		}
		if page == nil {
			break
		}
		for _, post := range page.Posts {
			if post.ID == draft.ID {
				t.Error("draft must never appear in the published list")
			}
			if post.ID == published.ID {
				seenPublished++
			}
		}
		if !page.HasNext {
			break
		}
	}
	if seenPublished != 1 {
		t.Errorf("published post appeared %d times, want exactly once", seenPublished)
	}
}

func TestPostStorePageBounds(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	count, err := s.CountPublished()
	if err != nil {
		t.Fatalf("CountPublished: %v", err)
	}
	totalPages := (count + PublishedPageSize - 1) / PublishedPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page, err := s.ListPublishedPage(0); err != nil || page != nil {
		t.Errorf("page 0: got (%v, %v), want (nil, nil)", page, err)
	}
	if page, err := s.ListPublishedPage(totalPages + 1); err != nil || page != nil {
		t.Errorf("page beyond range: got (%v, %v), want (nil, nil)", page, err)
	}

	page, err := s.ListPublishedPage(1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if page == nil {
		t.Fatal("page 1 must exist even for an empty table")
	}
	if page.HasPrev {
		t.Error("page 1 must not report a previous page")
	}
	if page.PerPage != PublishedPageSize {
		t.Errorf("per_page: got %d, want %d", page.PerPage, PublishedPageSize)
	}
}

func TestPostStoreDeleteCascadesComments(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	comments := NewCommentStore(db)
	author := testAuthor(t, db)

	p := testPost(t, db, author.ID, models.PostStatusPublished)

	c, err := comments.Create(&models.Comment{
		PostID: p.ID, Name: "John", Email: "john@example.com",
		Body: "first", Active: true,
	})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	gone, err := comments.FindByID(c.ID)
	if err != nil {
		t.Fatalf("FindByID after cascade: %v", err)
	}
	if gone != nil {
		t.Error("comment must be removed with its post")
	}
}

func TestPostStoreListFiltered(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	author := testAuthor(t, db)

	marker := uuid.NewString()[:8]
	when := time.Date(2031, 6, 15, 12, 0, 0, 0, time.UTC)
	p, err := s.Create(&models.Post{
		Title:       "Filtered " + marker,
		Slug:        "test-filter-" + marker,
		AuthorID:    author.ID,
		Body:        "body",
		PublishDate: when,
		Status:      models.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })

	// Substring search on the title marker.
	items, err := s.ListFiltered(PostFilter{Search: marker})
	if err != nil {
		t.Fatalf("ListFiltered search: %v", err)
	}
	if len(items) != 1 || items[0].ID != p.ID {
		t.Fatalf("search %q: got %d items, want the one created", marker, len(items))
	}

	// Status + author narrow to the same record.
	items, err = s.ListFiltered(PostFilter{
		Status:   models.PostStatusPublished,
		AuthorID: &author.ID,
	})
	if err != nil {
		t.Fatalf("ListFiltered status+author: %v", err)
	}
	if len(items) != 1 || items[0].ID != p.ID {
		t.Fatalf("status+author: got %d items, want 1", len(items))
	}

	// Date range around the publish date matches; a range before it does not.
	from := when.Add(-time.Hour)
	to := when.Add(time.Hour)
	items, err = s.ListFiltered(PostFilter{Search: marker, From: &from, To: &to})
	if err != nil {
		t.Fatalf("ListFiltered range: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("range around publish date: got %d items, want 1", len(items))
	}

	before := when.Add(-2 * time.Hour)
	items, err = s.ListFiltered(PostFilter{Search: marker, To: &before})
	if err != nil {
		t.Fatalf("ListFiltered range miss: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("range before publish date: got %d items, want 0", len(items))
	}
}

func TestUserStoreDeleteCascadesPosts(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	author := testAuthor(t, db)

	p := testPost(t, db, author.ID, models.PostStatusPublished)

	if err := users.Delete(author.ID); err != nil {
		t.Fatalf("Delete user: %v", err)
	}

	gone, err := posts.FindByID(p.ID)
	if err != nil {
		t.Fatalf("FindByID after cascade: %v", err)
	}
	if gone != nil {
		t.Error("post must be removed with its author")
	}
}
