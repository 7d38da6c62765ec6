package validation

import (
	"regexp"
	"time"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Username: letters, digits, underscores, 3-30 chars.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

// Fullname: letters, spaces, hyphens, apostrophes only.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// IsValidPassword requires:
// - at least 8 characters
// - at least one letter
// - at least one number
// - at least one special character
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

func IsValidFullname(fullname string) bool {
	return fullname != "" && fullnameRe.MatchString(fullname)
}

// IsValidDate accepts empty or YYYY-MM-DD.
func IsValidDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidScore accepts a 1-5 rating score.
func IsValidScore(score int) bool {
	return score >= 1 && score <= 5
}
