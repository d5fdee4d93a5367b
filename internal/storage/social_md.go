// ABOUTME: Markdown-based social post storage with identity and profile persistence.
// ABOUTME: Stores posts as markdown files and identity/profile in YAML, with filtering and pagination.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/socialify/internal/models"
)

// Compile-time assertion that SocialMDStore implements SocialStore.
var _ SocialStore = (*SocialMDStore)(nil)

// SocialMDStore stores social posts as markdown files in a data directory.
type SocialMDStore struct {
	dataDir string // root directory for social data
}

// socialFrontmatter is the YAML frontmatter for social post files.
type socialFrontmatter struct {
	ID           string   `yaml:"id"`
	Author       string   `yaml:"author"`
	Tags         []string `yaml:"tags,omitempty"`
	CreatedAt    string   `yaml:"created_at"`
	ParentPostID string   `yaml:"parent_post_id,omitempty"`
	Synced       bool     `yaml:"synced"`
	Avatar       string   `yaml:"avatar,omitempty"`
	Media        string   `yaml:"media,omitempty"`
	Likes        int      `yaml:"likes,omitempty"`
	Comments     int      `yaml:"comments,omitempty"`
}

// identityFile is the YAML structure for _identity.yaml.
type identityFile struct {
	Handle string `yaml:"handle"`
}

// profileFile is the YAML structure for _profile.yaml.
type profileFile struct {
	Profile *models.Profile `yaml:"profile"`
}

// NewSocialMDStore creates a social store with the given data directory.
func NewSocialMDStore(dataDir string) (*SocialMDStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	return &SocialMDStore{
		dataDir: dataDir,
	}, nil
}

// DataDir returns the root directory of the store.
func (s *SocialMDStore) DataDir() string {
	return s.dataDir
}

// CreatePost persists a social post to disk.
func (s *SocialMDStore) CreatePost(post *models.SocialPost) error {
	postsDir := filepath.Join(s.dataDir, "posts")
	dateDir := post.CreatedAt.Format("2006-01-02")
	timeStr := post.CreatedAt.Format("15-04-05-000000")
	shortID := post.ID.String()[:8]
	filename := timeStr + "-" + shortID + ".md"
	path := filepath.Join(postsDir, dateDir, filename)

	fm := socialFrontmatter{
		ID:        post.ID.String(),
		Author:    post.AuthorName,
		Tags:      post.Tags,
		CreatedAt: formatTime(post.CreatedAt),
		Synced:    post.Synced,
		Avatar:    post.AvatarURL,
		Media:     post.MediaURL,
		Likes:     post.Likes,
		Comments:  post.Comments,
	}
	if post.ParentPostID != nil {
		fm.ParentPostID = post.ParentPostID.String()
	}

	content, err := renderFrontmatter(fm, post.Content+"\n")
	if err != nil {
		return fmt.Errorf("failed to render post: %w", err)
	}

	return atomicWrite(path, []byte(content))
}

// ListPosts returns posts matching the given filter options.
func (s *SocialMDStore) ListPosts(opts ListPostsOptions) ([]*models.SocialPost, error) {
	postsDir := filepath.Join(s.dataDir, "posts")

	if _, err := os.Stat(postsDir); os.IsNotExist(err) {
		return nil, nil
	}

	dateDirs, err := os.ReadDir(postsDir)
	if err != nil {
		return nil, err
	}

	var allPosts []*models.SocialPost

	for _, dateDir := range dateDirs {
		if !dateDir.IsDir() {
			continue
		}

		dirPath := filepath.Join(postsDir, dateDir.Name())
		files, err := os.ReadDir(dirPath)
		if err != nil {
			continue
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
				continue
			}

			data, err := os.ReadFile(filepath.Join(dirPath, file.Name()))
			if err != nil {
				continue
			}

			post, err := parseSocialPost(string(data))
			if err != nil {
				continue
			}

			if opts.AgentFilter != "" && post.AuthorName != opts.AgentFilter {
				continue
			}
			if opts.TagFilter != "" && !containsTag(post.Tags, opts.TagFilter) {
				continue
			}
			if opts.ThreadID != "" {
				if post.ParentPostID == nil || post.ParentPostID.String() != opts.ThreadID {
					// The thread root itself also belongs to the thread
					if post.ID.String() != opts.ThreadID {
						continue
					}
				}
			}

			allPosts = append(allPosts, post)
		}
	}

	// Most recent first; ties broken by id so paging is stable
	sort.Slice(allPosts, func(i, j int) bool {
		if allPosts[i].CreatedAt.Equal(allPosts[j].CreatedAt) {
			return allPosts[i].ID.String() < allPosts[j].ID.String()
		}
		return allPosts[i].CreatedAt.After(allPosts[j].CreatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(allPosts) {
			return nil, nil
		}
		allPosts = allPosts[opts.Offset:]
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > len(allPosts) {
		limit = len(allPosts)
	}

	return allPosts[:limit], nil
}

// GetIdentity returns the currently set handle.
func (s *SocialMDStore) GetIdentity() (string, error) {
	var id identityFile
	if err := readYAML(filepath.Join(s.dataDir, "_identity.yaml"), &id); err != nil {
		return "", fmt.Errorf("failed to read identity: %w", err)
	}
	return id.Handle, nil
}

// SetIdentity persists the handle. An empty name logs the viewer out.
func (s *SocialMDStore) SetIdentity(name string) error {
	return writeYAML(filepath.Join(s.dataDir, "_identity.yaml"), &identityFile{Handle: name})
}

// GetProfile returns the saved profile or the default one.
func (s *SocialMDStore) GetProfile() (models.Profile, error) {
	var pf profileFile
	if err := readYAML(filepath.Join(s.dataDir, "_profile.yaml"), &pf); err != nil {
		return models.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	if pf.Profile == nil {
		return models.DefaultProfile(), nil
	}
	return *pf.Profile, nil
}

// SetProfile persists the viewer profile.
func (s *SocialMDStore) SetProfile(p models.Profile) error {
	return writeYAML(filepath.Join(s.dataDir, "_profile.yaml"), &profileFile{Profile: &p})
}

// errPostFound short-circuits filepath.WalkDir after the target post is rewritten.
var errPostFound = errors.New("post found")

// MarkSynced marks a post as synced by rewriting the file with synced: true.
// Returns an error if the post is not found.
func (s *SocialMDStore) MarkSynced(postID string) error {
	postsDir := filepath.Join(s.dataDir, "posts")
	found := false

	walkErr := filepath.WalkDir(postsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		yamlStr, body := parseFrontmatter(string(data))
		if yamlStr == "" {
			return nil
		}

		var fm socialFrontmatter
		if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
			return nil
		}
		if fm.ID != postID {
			return nil
		}

		found = true
		fm.Synced = true
		content, err := renderFrontmatter(fm, body)
		if err != nil {
			return err
		}
		if err := atomicWrite(path, []byte(content)); err != nil {
			return err
		}
		return errPostFound
	})

	if walkErr != nil && !errors.Is(walkErr, errPostFound) {
		return walkErr
	}
	if !found {
		return fmt.Errorf("post %s not found", postID)
	}
	return nil
}

// Close releases any resources held by the store.
func (s *SocialMDStore) Close() error {
	return nil
}

// parseSocialPost parses a markdown file into a SocialPost.
func parseSocialPost(content string) (*models.SocialPost, error) {
	yamlStr, body := parseFrontmatter(content)
	if yamlStr == "" {
		return nil, fmt.Errorf("no frontmatter found")
	}

	var fm socialFrontmatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	id, err := uuid.Parse(fm.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID: %w", err)
	}

	createdAt, err := parseTime(fm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	post := &models.SocialPost{
		ID:         id,
		AuthorName: fm.Author,
		Content:    strings.TrimSpace(body),
		Tags:       fm.Tags,
		CreatedAt:  createdAt,
		Synced:     fm.Synced,
		AvatarURL:  fm.Avatar,
		MediaURL:   fm.Media,
		Likes:      fm.Likes,
		Comments:   fm.Comments,
	}

	if fm.ParentPostID != "" {
		if parentID, err := uuid.Parse(fm.ParentPostID); err == nil {
			post.ParentPostID = &parentID
		}
	}

	return post, nil
}

// containsTag checks if a tag list contains a specific tag.
func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
