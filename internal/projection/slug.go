package projection

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-markview/pkg/interfaces"
)

// GitHubSlug lowercases title, drops punctuation and symbols and turns
// each space into a hyphen, matching github-slugger. Letters and digits
// of any script survive, as do '-' and '_'.
func GitHubSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.In(r, unicode.Letter, unicode.Mark, unicode.Number):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// slugger deduplicates slugs within one pass. The first occurrence keeps
// the bare slug and repeats get -1, -2, ... skipping any suffixed slug
// that is already taken, so every returned slug is unique. Titles go
// through GitHubSlug unless a transform replaces it.
type slugger struct {
	transform interfaces.SlugTransform
	seen      map[string]int
}

func newSlugger(transform interfaces.SlugTransform) *slugger {
	if transform == nil {
		transform = GitHubSlug
	}
	return &slugger{transform: transform, seen: make(map[string]int)}
}

func (s *slugger) slug(title string) string {
	base := s.transform(title)
	slug := base
	if n, taken := s.seen[base]; taken {
		for {
			n++
			slug = base + "-" + strconv.Itoa(n)
			if _, clash := s.seen[slug]; !clash {
				break
			}
		}
		s.seen[base] = n
	}
	s.seen[slug] = 0
	return slug
}
