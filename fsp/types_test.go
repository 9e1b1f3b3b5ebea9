package fsp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordType(t *testing.T) {
	for _, rt := range RecordTypes {
		assert.True(t, rt.IsValid(), string(rt))
	}
	assert.False(t, RecordType("page").IsValid())
	assert.False(t, RecordType("").IsValid())
}

func TestRecordSource(t *testing.T) {
	assert.True(t, RecordSourceVK.IsValid())
	assert.True(t, RecordSourceTelegram.IsValid())
	assert.False(t, RecordSource("instagram").IsValid())
}

func TestAuthorUserTime(t *testing.T) {
	var nilAuthor *AuthorUser
	assert.True(t, nilAuthor.Time().IsZero())

	author := &AuthorUser{Timestamp: 1690000000000}
	assert.Equal(t, time.UnixMilli(1690000000000), author.Time())
}

func TestRecordIsDeleted(t *testing.T) {
	var raw Record
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 7,
		"entityId": "durov",
		"entity": {"first_name": "Pavel"},
		"type": "user",
		"source": "vk",
		"createdAt": 1690000000000,
		"creatorId": "1",
		"createdSource": "vk",
		"updatedAt": 1690000000000,
		"photos": []
	}`), &raw))
	assert.False(t, raw.IsDeleted())
	assert.Equal(t, "Pavel", raw.Entity["first_name"])

	raw.DeletedBy = "2"
	assert.True(t, raw.IsDeleted())

	enriched := EnrichedRecord{}
	assert.False(t, enriched.IsDeleted())
	enriched.DeletedBy = &AuthorUser{ID: "2"}
	assert.True(t, enriched.IsDeleted())
}
