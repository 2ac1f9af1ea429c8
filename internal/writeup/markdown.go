package writeup

import "regexp"

var (
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern    = regexp.MustCompile(`(^|[^*])\*([^*]+)\*([^*]|$)`)
	strayBulletLine  = regexp.MustCompile(`(?m)^\s*\*\s+`)
	markdownHeadLine = regexp.MustCompile(`(?m)^#{1,3}\s+`)
)

// CleanArtifacts strips markdown leakage from HTML model output: bold and
// italic asterisks become <strong>/<em>, stray bullet asterisks and #
// headers are removed. The research strategy needs this because its prompt
// carries no video attachment and the model drifts into markdown more often.
func CleanArtifacts(html string) string {
	html = boldPattern.ReplaceAllString(html, "<strong>$1</strong>")
	html = italicPattern.ReplaceAllString(html, "$1<em>$2</em>$3")
	html = strayBulletLine.ReplaceAllString(html, "")
	html = markdownHeadLine.ReplaceAllString(html, "")
	return html
}
