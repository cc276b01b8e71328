package texts

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGetKnownAndUnknownSnippet(t *testing.T) {
	txt := NewTexts()
	assert.Equal(t, "Org Social Relay - Latest Posts", txt.Get(RssAllTitle))
	assert.Equal(t, "", txt.Get("no-such-snippet.txt"))
}

func TestWithValsReplacesPlaceholders(t *testing.T) {
	txt := NewTexts()
	res := txt.WithVals(RssTagTitle, map[string]string{"tag": "emacs"})
	assert.Equal(t, "Org Social Relay - Posts tagged with 'emacs'", res)

	res = txt.WithVals(RssFeedDescription, map[string]string{"feed": "https://a.example/social.org"})
	assert.Equal(t, "Latest posts from https://a.example/social.org on Org Social Relay", res)
}
