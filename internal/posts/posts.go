package posts

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cyberscribe/internal/core"
)

// Store persists posts as one JSON document per slug under its data
// directory, with each post's generated images in a sibling directory named
// after the slug. Slugs are never reused, so concurrent writes to different
// slugs need no locking.
type Store struct {
	dir string
}

// NewStore creates a post store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's data directory.
func (s *Store) Dir() string {
	return s.dir
}

// ImagePath returns the on-disk path for one of a post's images.
func (s *Store) ImagePath(slug, filename string) string {
	return filepath.Join(s.dir, slug, filename)
}

// Save writes the full post record. The write goes through a temp file and
// rename so a crash mid-write leaves no truncated record behind.
func (s *Store) Save(post core.Post) error {
	if post.Slug == "" {
		return fmt.Errorf("post has no slug")
	}

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	path := filepath.Join(s.dir, post.Slug+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write post: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize post: %w", err)
	}

	return nil
}

// Load reads a post by slug. An unknown slug returns (nil, nil), not an
// error.
func (s *Store) Load(slug string) (*core.Post, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, slug+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read post %s: %w", slug, err)
	}

	var post core.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("failed to parse post %s: %w", slug, err)
	}
	post.Slug = slug

	return &post, nil
}

// List returns summaries of all stored posts ordered by creation time
// descending. Corrupt or unreadable records are skipped, never fatal.
func (s *Store) List() []core.PostSummary {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var summaries []core.PostSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}

		var post core.Post
		if err := json.Unmarshal(data, &post); err != nil {
			continue
		}

		slug := strings.TrimSuffix(entry.Name(), ".json")
		title := post.Meta.Title
		if title == "" {
			title = "Untitled"
		}
		author := post.Meta.Author
		if author == "" {
			author = "Unknown"
		}

		summaries = append(summaries, core.PostSummary{
			Slug:         slug,
			Title:        title,
			Author:       author,
			CreatedAt:    post.CreatedAt,
			ThumbnailURL: post.Meta.ThumbnailURL,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries
}

// Titles returns the titles of all stored posts, newest first. Discovery
// strategies use this as their avoid-list.
func (s *Store) Titles() []string {
	summaries := s.List()
	titles := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		titles = append(titles, summary.Title)
	}
	return titles
}

var slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugSpaces = regexp.MustCompile(`\s+`)
var slugDashes = regexp.MustCompile(`-+`)

// NewSlug derives a URL-safe slug from a title and appends a random
// disambiguator, so repeated generations from the same source always get
// distinct slugs.
func NewSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	if len(slug) > 60 {
		slug = slug[:60]
	}
	slug = strings.TrimSuffix(slug, "-")

	buf := make([]byte, 3)
	_, _ = rand.Read(buf)

	return slug + "-" + hex.EncodeToString(buf)
}
