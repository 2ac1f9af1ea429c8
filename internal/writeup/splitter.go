package writeup

import (
	"regexp"
	"strings"
)

var (
	fenceOpen  = regexp.MustCompile("(?i)^```(?:html?)?\n?")
	fenceClose = regexp.MustCompile("\n?```$")
)

// Split separates raw model output into the article body and the optional
// LinkedIn promo block.
//
// A single leading/trailing code fence wrapper is stripped first (models
// sometimes wrap their output despite instructions, with or without a
// language tag), then the text is trimmed and split on the first occurrence
// of SeparatorToken. When the token is absent the whole text is the body
// and the promo is empty. The split is exact-substring, never heuristic.
func Split(raw string) (body, promo string) {
	text := fenceOpen.ReplaceAllString(raw, "")
	text = fenceClose.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if i := strings.Index(text, SeparatorToken); i >= 0 {
		body = strings.TrimSpace(text[:i])
		promo = strings.TrimSpace(text[i+len(SeparatorToken):])
		return body, promo
	}

	return text, ""
}
