package writeup

import "testing"

func TestExtractVideoURL(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "bare url",
			text: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			ok:   true,
		},
		{
			name: "url inside prose",
			text: "I recommend this one: https://youtu.be/dQw4w9WgXcQ because it is great",
			want: "https://youtu.be/dQw4w9WgXcQ",
			ok:   true,
		},
		{
			name: "no url",
			text: "I could not find a suitable video this week.",
			ok:   false,
		},
		{
			name: "unrelated url",
			text: "See https://example.com/watch?v=abc for details",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractVideoURL(tc.text)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractTopic(t *testing.T) {
	text := "TOPIC: Critical RCE in WidgetCorp VPN\nSUMMARY: Bad week for VPNs.\nSOURCES: example.com"

	if got := ExtractTopic(text); got != "Critical RCE in WidgetCorp VPN" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTopicCaseInsensitive(t *testing.T) {
	if got := ExtractTopic("topic: lowercase label"); got != "lowercase label" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTopicFallback(t *testing.T) {
	if got := ExtractTopic("no structured response at all"); got != DefaultTopicTitle {
		t.Errorf("got %q, want fallback", got)
	}
	if got := ExtractTopic("TOPIC:   "); got != DefaultTopicTitle {
		t.Errorf("empty topic line should fall back, got %q", got)
	}
}
