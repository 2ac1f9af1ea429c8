package writeup

import (
	"regexp"
	"strings"
)

// DefaultTopicTitle is used when the research response carries no TOPIC line.
const DefaultTopicTitle = "Trending Cybersecurity Topic"

var (
	videoURLPattern = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)[a-zA-Z0-9_-]+`)
	topicPattern    = regexp.MustCompile(`(?i)TOPIC:\s*(.+)`)
)

// ExtractVideoURL pulls the first well-formed YouTube watch URL out of
// free-form discovery output. The second return is false when no conforming
// URL is present.
func ExtractVideoURL(text string) (string, bool) {
	url := videoURLPattern.FindString(text)
	return url, url != ""
}

// ExtractTopic pulls the TOPIC line out of a researched
// TOPIC/SUMMARY/SOURCES block, falling back to DefaultTopicTitle.
func ExtractTopic(text string) string {
	if m := topicPattern.FindStringSubmatch(text); len(m) > 1 {
		if topic := strings.TrimSpace(m[1]); topic != "" {
			return topic
		}
	}
	return DefaultTopicTitle
}
