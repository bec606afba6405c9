// Package repository implements the DynamoDB invitation store with
// collision-checked code generation.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/guahanweb/photography-challenges-backend/internal/ids"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

const (
	codeIndex     = "CodeIndex"
	fromUserIndex = "FromUserIndex"
	emailIndex    = "EmailIndex"

	invitationTTL   = 7 * 24 * time.Hour
	maxCodeAttempts = 5
)

// InvitationRepository persists invitations keyed by invitationId.
type InvitationRepository struct {
	db    storage.DynamoAPI
	table string
}

func NewInvitationRepository(db storage.DynamoAPI, table string) *InvitationRepository {
	return &InvitationRepository{db: db, table: table}
}

// Create stores a new PENDING invitation with a freshly generated code and a
// 7-day expiry. The recipient email is lowercased for case-insensitive
// matching.
func (r *InvitationRepository) Create(ctx context.Context, input domain.CreateInput) (*domain.Invitation, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("email required")
	}
	if input.From.UserID == "" {
		return nil, fmt.Errorf("from.userId required")
	}

	invitationID, err := ids.New("inv")
	if err != nil {
		return nil, err
	}

	code, err := r.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := domain.Invitation{
		InvitationID: invitationID,
		Code:         code,
		Email:        strings.ToLower(input.Email),
		From:         input.From,
		FromUserID:   input.From.UserID,
		Status:       domain.StatusPending,
		ExpiresAt:    now.Add(invitationTTL).Unix(),
		CreatedAt:    now.Format(time.RFC3339),
		UpdatedAt:    now.Format(time.RFC3339),
	}

	item, err := attributevalue.MarshalMap(inv)
	if err != nil {
		return nil, fmt.Errorf("marshalling invitation: %w", err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(invitationId)"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating invitation: %w", err)
	}

	return &inv, nil
}

// GetByCode looks up an invitation through the code index; (nil, nil) if the
// code is unknown.
func (r *InvitationRepository) GetByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(codeIndex),
		KeyConditionExpression: aws.String("code = :code"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("querying code index: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var inv domain.Invitation
	if err := attributevalue.UnmarshalMap(out.Items[0], &inv); err != nil {
		return nil, fmt.Errorf("unmarshalling invitation: %w", err)
	}
	return &inv, nil
}

// GetByID reads the invitation at its primary key; (nil, nil) if absent.
func (r *InvitationRepository) GetByID(ctx context.Context, invitationID string) (*domain.Invitation, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"invitationId": &types.AttributeValueMemberS{Value: invitationID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting invitation: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var inv domain.Invitation
	if err := attributevalue.UnmarshalMap(out.Item, &inv); err != nil {
		return nil, fmt.Errorf("unmarshalling invitation: %w", err)
	}
	return &inv, nil
}

// Page is one page of invitations from an index query.
type Page struct {
	Items  []domain.Invitation
	Cursor storage.Cursor
}

// ListByUser lists invitations issued by the given user, optionally filtered
// to a single status.
func (r *InvitationRepository) ListByUser(ctx context.Context, userID string, status *domain.Status, limit int, cursor storage.Cursor) (*Page, error) {
	if limit <= 0 {
		limit = 10
	}

	startKey, err := storage.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	keyCond := "fromUserId = :userId"
	values := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}
	var names map[string]string
	if status != nil {
		keyCond += " AND #status = :status"
		names = map[string]string{"#status": "status"}
		values[":status"] = &types.AttributeValueMemberS{Value: string(*status)}
	}

	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(fromUserIndex),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(int32(limit)),
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return nil, fmt.Errorf("querying sender index: %w", err)
	}

	items, err := unmarshalInvitations(out.Items)
	if err != nil {
		return nil, err
	}

	next, err := storage.EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Cursor: next}, nil
}

// Update merges the allow-listed patch into the invitation and stamps
// updatedAt. The store itself never decides to transition status; whoever
// calls this does.
func (r *InvitationRepository) Update(ctx context.Context, invitationID string, input domain.UpdateInput) (*domain.Invitation, error) {
	sets := []string{"#updatedAt = :updatedAt"}
	names := map[string]string{"#updatedAt": "updatedAt"}
	values := map[string]types.AttributeValue{
		":updatedAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	if input.Status != nil {
		sets = append(sets, "#status = :status")
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(*input.Status)}
	}
	if input.ExpiresAt != nil {
		sets = append(sets, "#expiresAt = :expiresAt")
		names["#expiresAt"] = "expiresAt"
		values[":expiresAt"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", *input.ExpiresAt)}
	}
	if input.ClaimedAt != nil {
		sets = append(sets, "#claimedAt = :claimedAt")
		names["#claimedAt"] = "claimedAt"
		values[":claimedAt"] = &types.AttributeValueMemberS{Value: *input.ClaimedAt}
	}

	out, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"invitationId": &types.AttributeValueMemberS{Value: invitationID},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("updating invitation: %w", err)
	}
	if out.Attributes == nil {
		return nil, nil
	}

	var inv domain.Invitation
	if err := attributevalue.UnmarshalMap(out.Attributes, &inv); err != nil {
		return nil, fmt.Errorf("unmarshalling invitation: %w", err)
	}
	return &inv, nil
}

// CheckExistingInvitations returns invitations matching the recipient email
// (case-folded) and status. Callers use it to enforce the one-pending-per-
// email business rule; the store itself enforces nothing.
func (r *InvitationRepository) CheckExistingInvitations(ctx context.Context, email string, status domain.Status) ([]domain.Invitation, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(emailIndex),
		KeyConditionExpression: aws.String("email = :email AND #status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email":  &types.AttributeValueMemberS{Value: strings.ToLower(email)},
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying email index: %w", err)
	}
	return unmarshalInvitations(out.Items)
}

// ListExpiredPending scans for PENDING invitations whose expiresAt has passed.
// Used by the expiry sweeper, which then transitions each one via Update.
func (r *InvitationRepository) ListExpiredPending(ctx context.Context, now time.Time) ([]domain.Invitation, error) {
	out, err := r.db.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("#status = :status AND expiresAt < :now"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(domain.StatusPending)},
			":now":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Unix())},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for expired invitations: %w", err)
	}
	return unmarshalInvitations(out.Items)
}

// generateUniqueCode draws codes until one is unused, giving up after five
// attempts. The check is read-then-write: two concurrent creates can both
// pass it and end up storing the same code under different primary keys, so
// uniqueness is advisory rather than enforced by the storage layer.
func (r *InvitationRepository) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := ids.InviteCode()
		if err != nil {
			return "", err
		}

		existing, err := r.GetByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", domain.ErrCodeGeneration
}

func unmarshalInvitations(raw []map[string]types.AttributeValue) ([]domain.Invitation, error) {
	items := make([]domain.Invitation, 0, len(raw))
	for _, m := range raw {
		var inv domain.Invitation
		if err := attributevalue.UnmarshalMap(m, &inv); err != nil {
			return nil, fmt.Errorf("unmarshalling invitation: %w", err)
		}
		items = append(items, inv)
	}
	return items, nil
}
