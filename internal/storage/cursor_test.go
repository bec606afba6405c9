package storage_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

func TestCursorRoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		"projectId": &types.AttributeValueMemberS{Value: "proj_123"},
		"version":   &types.AttributeValueMemberN{Value: "2"},
	}

	cursor, err := storage.EncodeCursor(key)
	require.NoError(t, err)
	require.NotEmpty(t, cursor)

	decoded, err := storage.DecodeCursor(cursor)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	s, ok := decoded["projectId"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "proj_123", s.Value)

	n, ok := decoded["version"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "2", n.Value)
}

func TestCursorEmpty(t *testing.T) {
	cursor, err := storage.EncodeCursor(nil)
	require.NoError(t, err)
	assert.Empty(t, cursor)

	decoded, err := storage.DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	_, err := storage.DecodeCursor("{not json")
	assert.Error(t, err)
}
