package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ManuelBanchero/roadmap-sh-projects/internal/models"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/sanitize"
)

// PostHandler serves the post CRUD surface.
type PostHandler struct {
	db *sql.DB
}

func NewPostHandler(db *sql.DB) *PostHandler {
	return &PostHandler{db: db}
}

type postRequest struct {
	Title    string   `json:"title"`
	Image    string   `json:"image"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// bindPostRequest binds, validates and sanitizes the shared create/update
// body. A nil Tags slice means the field was absent from the JSON, which is
// rejected; an explicit empty list is allowed.
func bindPostRequest(c *gin.Context) (postRequest, bool) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return req, false
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.Category = strings.TrimSpace(req.Category)

	if req.Title == "" || req.Content == "" || req.Category == "" || req.Tags == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return req, false
	}

	req.Title = sanitize.Field(req.Title)
	req.Content = sanitize.Field(req.Content)
	req.Category = sanitize.Field(req.Category)
	if req.Image != "" {
		req.Image = sanitize.Field(req.Image)
	}

	return req, true
}

// resolveCategory maps a category name to its id.
func (h *PostHandler) resolveCategory(c *gin.Context, name string) (int, bool) {
	var categoryID int
	err := h.db.QueryRow(`SELECT id FROM categories WHERE name = $1`, name).Scan(&categoryID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category does not exist."})
			return 0, false
		}
		log.Printf("Error resolving category %q: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving category, try again."})
		return 0, false
	}
	return categoryID, true
}

// resolveTags maps tag names to ids in the caller-supplied order,
// short-circuiting on the first tag that does not exist.
func (h *PostHandler) resolveTags(c *gin.Context, tags []string) ([]int, bool) {
	tagIDs := make([]int, 0, len(tags))
	for _, tag := range tags {
		var tagID int
		err := h.db.QueryRow(`SELECT id FROM tags WHERE name = $1`, tag).Scan(&tagID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s tag does not exist.", tag)})
				return nil, false
			}
			log.Printf("Error resolving tag %q: %v", tag, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving tags, try again."})
			return nil, false
		}
		tagIDs = append(tagIDs, tagID)
	}
	return tagIDs, true
}

// fetchTagNames returns the tag names linked to a post, in junction-row
// insertion order.
func (h *PostHandler) fetchTagNames(postID int) ([]string, error) {
	rows, err := h.db.Query(
		`SELECT t.name FROM tags t JOIN post_tags pt ON t.id = pt.tag_id WHERE pt.post_id = $1 ORDER BY pt.id ASC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// Create inserts a new post with its tag links
func (h *PostHandler) Create(c *gin.Context) {
	req, ok := bindPostRequest(c)
	if !ok {
		return
	}

	categoryID, ok := h.resolveCategory(c, req.Category)
	if !ok {
		return
	}

	tagIDs, ok := h.resolveTags(c, req.Tags)
	if !ok {
		return
	}

	now := time.Now().UTC()

	var postID int
	err := h.db.QueryRow(
		`INSERT INTO posts (title, image, content, category_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		req.Title, req.Image, req.Content, categoryID, now, now,
	).Scan(&postID)
	if err != nil {
		log.Printf("Error inserting post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to create a post, try again."})
		return
	}

	for _, tagID := range tagIDs {
		if _, err := h.db.Exec(
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`,
			postID, tagID,
		); err != nil {
			log.Printf("Error linking tag %d to post %d: %v", tagID, postID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to create a post, try again."})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "New post created.",
		"post": models.Post{
			ID:        postID,
			Title:     req.Title,
			Image:     req.Image,
			Content:   req.Content,
			Category:  req.Category,
			Tags:      req.Tags,
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
}

// Update replaces a post's fields and its entire tag set
func (h *PostHandler) Update(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	req, ok := bindPostRequest(c)
	if !ok {
		return
	}

	categoryID, ok := h.resolveCategory(c, req.Category)
	if !ok {
		return
	}

	tagIDs, ok := h.resolveTags(c, req.Tags)
	if !ok {
		return
	}

	// Fetching created_at up front doubles as the existence check: an
	// update against an unknown id answers 404 instead of silently
	// touching zero rows.
	var createdAt time.Time
	err = h.db.QueryRow(`SELECT created_at FROM posts WHERE id = $1`, postID).Scan(&createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found."})
			return
		}
		log.Printf("Error checking post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to update a post, try again."})
		return
	}

	now := time.Now().UTC()

	_, err = h.db.Exec(
		`UPDATE posts SET title = $1, image = $2, content = $3, category_id = $4, updated_at = $5 WHERE id = $6`,
		req.Title, req.Image, req.Content, categoryID, now, postID,
	)
	if err != nil {
		log.Printf("Error updating post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to update a post, try again."})
		return
	}

	// The tag set is replaced wholesale, never diffed.
	if _, err := h.db.Exec(`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		log.Printf("Error clearing tags for post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to update a post, try again."})
		return
	}

	for _, tagID := range tagIDs {
		if _, err := h.db.Exec(
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`,
			postID, tagID,
		); err != nil {
			log.Printf("Error linking tag %d to post %d: %v", tagID, postID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to update a post, try again."})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated.",
		"post": models.Post{
			ID:        postID,
			Title:     req.Title,
			Image:     req.Image,
			Content:   req.Content,
			Category:  req.Category,
			Tags:      req.Tags,
			CreatedAt: createdAt,
			UpdatedAt: now,
		},
	})
}

// Delete removes a post and its tag links
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var existingID int
	err = h.db.QueryRow(`SELECT id FROM posts WHERE id = $1`, postID).Scan(&existingID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found."})
			return
		}
		log.Printf("Error checking post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to delete a post, try again."})
		return
	}

	if _, err := h.db.Exec(`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		log.Printf("Error deleting tag links for post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to delete a post, try again."})
		return
	}

	if _, err := h.db.Exec(`DELETE FROM posts WHERE id = $1`, postID); err != nil {
		log.Printf("Error deleting post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to delete a post, try again."})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetOne returns a single post joined with its category name and tag names
func (h *PostHandler) GetOne(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	err = h.db.QueryRow(
		`SELECT p.id, p.title, p.image, p.content, c.name, p.created_at, p.updated_at
		 FROM posts p
		 JOIN categories c ON p.category_id = c.id
		 WHERE p.id = $1`,
		postID,
	).Scan(&post.ID, &post.Title, &post.Image, &post.Content, &post.Category, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found."})
			return
		}
		log.Printf("Error retrieving post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to get a post, try again."})
		return
	}

	tags, err := h.fetchTagNames(post.ID)
	if err != nil {
		log.Printf("Error retrieving tags for post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to get a post, try again."})
		return
	}
	post.Tags = tags

	c.JSON(http.StatusOK, post)
}

// GetAll returns every post, optionally filtered by a case-insensitive
// substring match against title, content or category name
func (h *PostHandler) GetAll(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))
	if term != "" {
		term = sanitize.Field(term)
	}

	pattern := ""
	if term != "" {
		pattern = "%" + strings.ToLower(term) + "%"
	}

	rows, err := h.db.Query(
		`SELECT p.id, p.title, p.image, p.content, c.name, p.created_at, p.updated_at
		 FROM posts p
		 JOIN categories c ON p.category_id = c.id
		 WHERE $1 = '' OR lower(p.title) LIKE $1 OR lower(p.content) LIKE $1 OR lower(c.name) LIKE $1`,
		pattern,
	)
	if err != nil {
		log.Printf("Error retrieving posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to get all posts, try again."})
		return
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Image, &post.Content, &post.Category, &post.CreatedAt, &post.UpdatedAt); err != nil {
			log.Printf("Error scanning post: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to get all posts, try again."})
			return
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error iterating posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to get all posts, try again."})
		return
	}
	rows.Close()

	for i := range posts {
		tags, err := h.fetchTagNames(posts[i].ID)
		if err != nil {
			log.Printf("Error retrieving tags for post %d: %v", posts[i].ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error trying to get all posts, try again."})
			return
		}
		posts[i].Tags = tags
	}

	c.JSON(http.StatusOK, posts)
}
