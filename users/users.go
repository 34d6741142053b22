package users

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents a role carried in a principal's credentials
type RoleType string

const (
	RoleUser      RoleType = "user"      // Regular account, assigned on registration
	RoleModerator RoleType = "moderator" // Can moderate posts and comments
	RoleAdmin     RoleType = "admin"     // Can lock accounts and list users
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type User struct {
	ID             string     `json:"id,omitempty"`              // Unique identifier for the user
	Email          string     `json:"email,omitempty"`           // User's email address
	Username       string     `json:"username,omitempty"`        // Unique username
	PasswordHash   string     `json:"-"`                         // Hashed version of the user's password - never serialize
	ProfilePicture string     `json:"profile_picture,omitempty"` // URL of the avatar shown next to posts
	Roles          []RoleType `json:"roles,omitempty"`           // Roles embedded in issued credentials
	Locked         bool       `json:"locked,omitempty"`          // Locked, login and refresh are refused
	DateJoined     time.Time  `json:"date_joined,omitempty"`     // Date and time when the user registered
	LastLogin      *time.Time `json:"last_login,omitempty"`      // Last time the user logged in
}

// RoleNames returns the roles as plain strings for embedding in a claim.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}

func (u *User) HasRole(role RoleType) bool {
	return slices.Contains(u.Roles, role)
}

// NormaliseEmail lower-cases and trims an email so lookups are case-insensitive.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address has a local part, a domain and a dot in the domain.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername requires 3 to 32 letters or digits.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("please enter a username")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("no special characters allowed in username")
	}
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("username must be between %d and %d characters long", minUsernameLength, maxUsernameLength)
	}
	return nil
}

// ValidatePasswordStrength checks if password meets security requirements:
// - Between 8 and 72 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters long", maxPasswordLength)
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
