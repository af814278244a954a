package database

import (
	"database/sql"
	"log"
)

// CreateTables creates all required tables in the database
func CreateTables(db *sql.DB) {
	createUsersTable(db)
	createCategoriesTable(db)
	createTagsTable(db)
	createPostsTable(db)
	createPostTagsTable(db)
}

// createUsersTable creates the users table
func createUsersTable(db *sql.DB) {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		username VARCHAR(20) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(query); err != nil {
		log.Fatal("Failed to create users table:", err)
	}

	log.Println("Users table created successfully")
}

func createCategoriesTable(db *sql.DB) {
	query := `
	CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL
	);
	`

	if _, err := db.Exec(query); err != nil {
		log.Fatal("Failed to create categories table:", err)
	}

	log.Println("Categories table created successfully")
}

func createTagsTable(db *sql.DB) {
	query := `
	CREATE TABLE IF NOT EXISTS tags (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL
	);
	`

	if _, err := db.Exec(query); err != nil {
		log.Fatal("Failed to create tags table:", err)
	}

	log.Println("Tags table created successfully")
}

func createPostsTable(db *sql.DB) {
	query := `
	CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		image VARCHAR(500) NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		category_id INTEGER NOT NULL REFERENCES categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(query); err != nil {
		log.Fatal("Failed to create posts table:", err)
	}

	ensurePostsSchema(db)
	log.Println("Posts table created successfully")
}

func createPostTagsTable(db *sql.DB) {
	query := `
	CREATE TABLE IF NOT EXISTS post_tags (
		id SERIAL PRIMARY KEY,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		UNIQUE(post_id, tag_id)
	);
	`

	if _, err := db.Exec(query); err != nil {
		log.Fatal("Failed to create post_tags table:", err)
	}

	ensurePostTagsSchema(db)
	log.Println("Post_tags table created successfully")
}

func ensurePostsSchema(db *sql.DB) {
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS posts_category_idx ON posts(category_id)`); err != nil {
		log.Fatal("Failed to ensure posts category index:", err)
	}
}

func ensurePostTagsSchema(db *sql.DB) {
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS post_tags_post_idx ON post_tags(post_id)`); err != nil {
		log.Fatal("Failed to ensure post_tags post index:", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS post_tags_tag_idx ON post_tags(tag_id)`); err != nil {
		log.Fatal("Failed to ensure post_tags tag index:", err)
	}
}
