package groupform

import (
	"regexp"
	"strings"
)

var (
	mentionStripRe = regexp.MustCompile(`[^A-Za-z0-9@]`)
	mentionValidRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// NormalizeMention derives a mention from a display name. Characters outside
// [A-Za-z0-9@] are dropped, the rest is lowercased and prefixed with "@".
func NormalizeMention(name string) string {
	mention := strings.ToLower(mentionStripRe.ReplaceAllString(name, ""))
	if !strings.HasPrefix(mention, "@") {
		mention = "@" + mention
	}
	return mention
}

// StripMention removes a single leading "@".
func StripMention(mention string) string {
	return strings.TrimPrefix(mention, "@")
}

// ValidateMention checks a mention with its "@" already stripped.
func ValidateMention(mention string) error {
	if mention == "" {
		return &EmptyFieldError{Field: FieldMention}
	}
	if !mentionValidRe.MatchString(mention) {
		return ErrInvalidCharacter
	}
	return nil
}
