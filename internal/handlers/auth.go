package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/ManuelBanchero/roadmap-sh-projects/internal/models"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/session"
)

var (
	validate      = validator.New()
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)
)

// dummyPasswordHash is compared against when the user does not exist, so that
// both login failure paths cost one full bcrypt comparison.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	db       *sql.DB
	sessions *session.Store
}

func NewAuthHandler(db *sql.DB, sessions *session.Store) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.Name == "" || req.Email == "" || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	if !usernameRegex.MatchString(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Username must be 1-20 characters, using letters, numbers, _ or -.",
		})
		return
	}

	if err := validate.Var(req.Email, "required,email"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format."})
		return
	}

	var existingID int
	err := h.db.QueryRow(
		`SELECT id FROM users WHERE username = $1 OR email = $2`,
		req.Username, req.Email,
	).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email or username already exists."})
		return
	}
	if err != sql.ErrNoRows {
		log.Printf("Error checking existing user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again."})
		return
	}

	var userID int
	err = h.db.QueryRow(
		`INSERT INTO users (name, email, username, password, role) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		req.Name, req.Email, req.Username, string(hashed), models.RoleUser,
	).Scan(&userID)
	if err != nil {
		log.Printf("Error inserting user: %v", err)
		if strings.Contains(err.Error(), "duplicate key value") {
			// Lost a race with a concurrent registration for the same
			// username or email.
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email or username already exists."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again."})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again."})
		return
	}
	session.SetCookie(c, token, h.sessions.TTL())

	c.JSON(http.StatusCreated, gin.H{"message": "New user has registered."})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	var (
		userID         int
		hashedPassword string
	)
	err := h.db.QueryRow(
		`SELECT id, password FROM users WHERE username = $1`,
		req.Username,
	).Scan(&userID, &hashedPassword)
	if err != nil {
		if err == sql.ErrNoRows {
			// Burn a comparison anyway so a missing user is not
			// distinguishable from a wrong password by timing.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(req.Password))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials."})
			return
		}
		log.Printf("Error querying user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed. Please try again."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials."})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error creating session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed. Please try again."})
		return
	}
	session.SetCookie(c, token, h.sessions.TTL())

	c.JSON(http.StatusOK, gin.H{"message": "User logged in."})
}

// Logout destroys the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(session.CookieName)
	if err == nil {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			log.Printf("Error destroying session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging out, try again."})
			return
		}
	}
	session.ClearCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully."})
}
