package storage

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Cursor is the opaque continuation token returned by paginated queries. It is
// the JSON form of DynamoDB's LastEvaluatedKey; clients pass it back verbatim
// as the lastEvaluatedKey query parameter.
type Cursor string

// EncodeCursor converts a LastEvaluatedKey into an opaque cursor. A nil or
// empty key yields the empty cursor, meaning the listing is exhausted.
func EncodeCursor(key map[string]types.AttributeValue) (Cursor, error) {
	if len(key) == 0 {
		return "", nil
	}

	plain := map[string]any{}
	if err := attributevalue.UnmarshalMap(key, &plain); err != nil {
		return "", fmt.Errorf("encoding cursor: %w", err)
	}

	b, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("encoding cursor: %w", err)
	}
	return Cursor(b), nil
}

// DecodeCursor converts a client-supplied cursor back into an
// ExclusiveStartKey. The empty cursor decodes to nil (start from the top).
func DecodeCursor(c Cursor) (map[string]types.AttributeValue, error) {
	if c == "" {
		return nil, nil
	}

	plain := map[string]any{}
	if err := json.Unmarshal([]byte(c), &plain); err != nil {
		return nil, fmt.Errorf("decoding cursor: %w", err)
	}

	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, fmt.Errorf("decoding cursor: %w", err)
	}
	return key, nil
}
