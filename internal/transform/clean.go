package transform

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	htmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// CleanText collapses whitespace runs, strips HTML tags, and decodes the
// fixed entity table. Tag stripping happens before entity decoding so that
// "&lt;b&gt;" survives as literal text rather than becoming a tag.
func (t *Transformer) CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	text = htmlTag.ReplaceAllString(text, "")

	for _, pair := range t.vocab.Entities {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}

	return strings.TrimSpace(text)
}

// cleanName applies CleanText and then strips one honorific prefix and one
// suffix when present as whole tokens at the name boundary.
func (t *Transformer) cleanName(name string) string {
	if name == "" {
		return ""
	}

	name = t.CleanText(name)

	for _, prefix := range t.vocab.HonorificPrefixes {
		if strings.HasPrefix(name, prefix+" ") {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	for _, suffix := range t.vocab.NameSuffixes {
		if strings.HasSuffix(name, " "+suffix) {
			name = strings.TrimSpace(name[:len(name)-len(suffix)])
			break
		}
	}

	return name
}

// splitFullName splits a display name into given name and surname. One
// token is a surname alone; two tokens split as given+surname; three or
// more keep the first token as the given name and join the rest.
func splitFullName(fullName string) (given, surname string) {
	parts := strings.Fields(fullName)

	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	case 2:
		return parts[0], parts[1]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
