package post

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Platform identifies a publishing target.
type Platform string

const (
	// PlatformTwitter is the text-and-link feed.
	PlatformTwitter Platform = "twitter"

	// PlatformInstagram is the photo feed. Posts carry the image as media
	// and never embed the article link in the caption.
	PlatformInstagram Platform = "instagram"
)

const (
	// TwitterMaxLength is the maximum character count for a tweet.
	TwitterMaxLength = 280

	// InstagramMaxLength is the maximum character count for an Instagram caption.
	InstagramMaxLength = 2200
)

// Valid reports whether the platform is one of the known targets.
func (p Platform) Valid() bool {
	return p == PlatformTwitter || p == PlatformInstagram
}

// RequiresImage reports whether the platform mandates photo media.
func (p Platform) RequiresImage() bool {
	return p == PlatformInstagram
}

// MaxLength returns the character budget for generated body text.
func (p Platform) MaxLength() int {
	if p == PlatformInstagram {
		return InstagramMaxLength
	}
	return TwitterMaxLength
}

// Post is a generated social media post derived from a news article.
// It is a value: rendering never mutates it.
type Post struct {
	Title      string   // original article title
	SourceURL  string   // original article URL
	SourceName string   // feed the article came from
	Body       string   // generated text, already sized for the platform
	Hashtags   []string // rendered space-joined, in order
	Emoji      string
	Platform   Platform
	ImageURL   string // required by platforms that mandate photo media
}

// Render produces the full post text for the target platform.
func Render(p Post) string {
	tags := strings.Join(p.Hashtags, " ")

	if p.Platform == PlatformInstagram {
		return fmt.Sprintf("%s %s\n\n%s", p.Emoji, p.Body, tags)
	}

	return fmt.Sprintf("%s %s\n\n%s\n\n🔗 %s", p.Emoji, p.Body, tags, p.SourceURL)
}

// FitsInLimit checks if the rendered post fits within the limit.
func FitsInLimit(rendered string, limit int) bool {
	return utf8.RuneCountInString(rendered) <= limit
}

// TruncateBody truncates body text to maxLen runes at a word boundary,
// appending an ellipsis.
func TruncateBody(body string, maxLen int) string {
	if utf8.RuneCountInString(body) <= maxLen {
		return body
	}

	runes := []rune(body)
	truncated := string(runes[:maxLen-3])

	// Find last space to avoid cutting mid-word
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > (maxLen-3)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}
