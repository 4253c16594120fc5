package appcast

import (
	"os"
	"path/filepath"
	"testing"

	"update-appcast/internal/config"
)

const emptyChannelFeed = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:sparkle="http://www.andymatuschak.org/xml-namespaces/sparkle">
  <channel>
    <title>FolderBar</title>
  </channel>
</rss>
`

const twoItemFeed = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0" xmlns:sparkle="http://www.andymatuschak.org/xml-namespaces/sparkle">
  <channel>
    <title>FolderBar</title>
    <link>https://example.com/appcast.xml</link>
    <description>Most recent changes</description>
    <item>
      <title>1.1.0</title>
      <sparkle:version>1.1.0</sparkle:version>
    </item>
    <item>
      <title>1.0.0</title>
      <sparkle:version>1.0.0</sparkle:version>
    </item>
  </channel>
</rss>
`

func sampleRelease() config.Release {
	return config.Release{
		Version:          "1.2.3",
		PubDate:          "Mon, 01 Jan 2024 00:00:00 +0000",
		MinSystemVersion: "11.0",
		URL:              "https://example.com/app.zip",
		Length:           12345,
		Signature:        "abc==",
	}
}

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appcast.xml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

func mustParse(t *testing.T, content string) *Feed {
	t.Helper()
	f, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	return f
}

// channelTags lists the full tags of the channel's child elements.
func channelTags(f *Feed) []string {
	var tags []string
	for _, e := range f.Channel.ChildElements() {
		tags = append(tags, e.FullTag())
	}
	return tags
}
