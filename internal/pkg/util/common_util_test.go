package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("finished #scifi classic, also #scifi and #books!")
	assert.Equal(t, []string{"scifi", "books"}, tags)

	assert.Empty(t, ExtractTags("no tags here"))
}

func TestExtractMentions(t *testing.T) {
	names := ExtractMentions("@alice have you read this? cc @bob @alice")
	assert.Equal(t, []string{"alice", "bob"}, names)

	assert.Empty(t, ExtractMentions("plain text"))
}

func TestFeedCursorRoundTrip(t *testing.T) {
	cursor := EncodeFeedCursor(1756500000, 42)
	assert.NotEmpty(t, cursor)

	lastUpdate, lastThing, err := DecodeFeedCursor(cursor)
	assert.NoError(t, err)
	assert.Equal(t, int64(1756500000), lastUpdate)
	assert.Equal(t, uint64(42), lastThing)
}

func TestDecodeFeedCursorEmpty(t *testing.T) {
	lastUpdate, lastThing, err := DecodeFeedCursor("")
	assert.NoError(t, err)
	assert.Zero(t, lastUpdate)
	assert.Zero(t, lastThing)
}

func TestDecodeFeedCursorGarbage(t *testing.T) {
	_, _, err := DecodeFeedCursor("%%%not-base64%%%")
	assert.Error(t, err)
}
