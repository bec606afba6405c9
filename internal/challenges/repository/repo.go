// Package repository implements the single-table DynamoDB store for challenge
// instances and their append-only submissions and messages.
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

	"github.com/guahanweb/photography-challenges-backend/internal/challenges/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/ids"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

// Sort key values. The instance row sits at a fixed sort key; sub-entities
// embed their creation timestamp so natural key order is chronological.
const (
	itemTypeInstance    = "instance"
	submissionPrefix    = "submission:"
	messagePrefix       = "message:"
	userProjectsIndex   = "UserProjectsIndex"
	mentorProjectsIndex = "MentorProjectsIndex"
)

// InstanceRepository persists challenge instances, submissions and messages
// under a shared partition key.
type InstanceRepository struct {
	db    storage.DynamoAPI
	table string
}

func NewInstanceRepository(db storage.DynamoAPI, table string) *InstanceRepository {
	return &InstanceRepository{db: db, table: table}
}

// CreateInstance writes the instance row with a conditional not-exists guard.
func (r *InstanceRepository) CreateInstance(ctx context.Context, input domain.CreateInstanceInput) (*domain.Instance, error) {
	if input.ProjectID == "" {
		return nil, fmt.Errorf("projectId required")
	}
	if input.AssignedTo == "" {
		return nil, fmt.Errorf("assignedTo required")
	}

	instanceID, err := ids.New("inst")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	inst := domain.Instance{
		InstanceID:  instanceID,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		AssignedBy:  input.AssignedBy,
		Status:      input.Status,
		ActualDates: input.ActualDates,
		Progress:    input.Progress,
		Reflections: input.Reflections,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if inst.Status == "" {
		inst.Status = domain.StatusNotStarted
	}

	item, err := attributevalue.MarshalMap(inst)
	if err != nil {
		return nil, fmt.Errorf("marshalling instance: %w", err)
	}
	item["itemType"] = &types.AttributeValueMemberS{Value: itemTypeInstance}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(instanceId)"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}

	return &inst, nil
}

// GetInstance reads the instance row; (nil, nil) if absent. Callers are
// responsible for honoring the Deleted flag.
func (r *InstanceRepository) GetInstance(ctx context.Context, instanceID string) (*domain.Instance, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       instanceKey(instanceID, itemTypeInstance),
	})
	if err != nil {
		return nil, fmt.Errorf("getting instance: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var inst domain.Instance
	if err := attributevalue.UnmarshalMap(out.Item, &inst); err != nil {
		return nil, fmt.Errorf("unmarshalling instance: %w", err)
	}
	return &inst, nil
}

// UpdateInstance merges the patch into the instance row in place. There is no
// version bump and no optimistic check: concurrent writers are
// last-writer-wins. updatedAt is always stamped.
func (r *InstanceRepository) UpdateInstance(ctx context.Context, instanceID string, input domain.UpdateInstanceInput) (*domain.Instance, error) {
	sets := []string{"#updatedAt = :updatedAt"}
	names := map[string]string{"#updatedAt": "updatedAt"}
	values := map[string]types.AttributeValue{
		":updatedAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	addSet := func(field string, v any) error {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling %s: %w", field, err)
		}
		sets = append(sets, fmt.Sprintf("#%s = :%s", field, field))
		names["#"+field] = field
		values[":"+field] = av
		return nil
	}

	if input.Status != nil {
		if err := addSet("status", *input.Status); err != nil {
			return nil, err
		}
	}
	if input.ActualDates != nil {
		if err := addSet("actualDates", *input.ActualDates); err != nil {
			return nil, err
		}
	}
	if input.Progress != nil {
		if err := addSet("progress", *input.Progress); err != nil {
			return nil, err
		}
	}
	if input.Reflections != nil {
		if err := addSet("reflections", *input.Reflections); err != nil {
			return nil, err
		}
	}
	if input.Deleted != nil {
		if err := addSet("deleted", *input.Deleted); err != nil {
			return nil, err
		}
	}

	out, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       instanceKey(instanceID, itemTypeInstance),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("updating instance: %w", err)
	}
	if out.Attributes == nil {
		return nil, nil
	}

	var inst domain.Instance
	if err := attributevalue.UnmarshalMap(out.Attributes, &inst); err != nil {
		return nil, fmt.Errorf("unmarshalling instance: %w", err)
	}
	return &inst, nil
}

// SoftDelete marks the instance deleted without removing any rows.
func (r *InstanceRepository) SoftDelete(ctx context.Context, instanceID string) error {
	deleted := true
	_, err := r.UpdateInstance(ctx, instanceID, domain.UpdateInstanceInput{Deleted: &deleted})
	return err
}

// AddSubmission appends a submission at sort key "submission:<now>". There is
// no idempotency token: a retried call produces a second entry distinguished
// only by its timestamp.
func (r *InstanceRepository) AddSubmission(ctx context.Context, instanceID string, input domain.SubmissionInput) (*domain.Submission, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	sub := domain.Submission{
		InstanceID: instanceID,
		Day:        input.Day,
		Date:       now,
		MediaURLs:  input.MediaURLs,
		Notes:      input.Notes,
		Feedback:   input.Feedback,
	}

	item, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return nil, fmt.Errorf("marshalling submission: %w", err)
	}
	item["itemType"] = &types.AttributeValueMemberS{Value: submissionPrefix + now}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("adding submission: %w", err)
	}
	return &sub, nil
}

// AddMessage appends a message at sort key "message:<now>" with a generated
// messageId carried in the item itself.
func (r *InstanceRepository) AddMessage(ctx context.Context, instanceID string, input domain.MessageInput) (*domain.Message, error) {
	messageID, err := ids.New("msg")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	msg := domain.Message{
		InstanceID: instanceID,
		MessageID:  messageID,
		SenderID:   input.SenderID,
		Text:       input.Text,
		Timestamp:  now,
	}

	item, err := attributevalue.MarshalMap(msg)
	if err != nil {
		return nil, fmt.Errorf("marshalling message: %w", err)
	}
	item["itemType"] = &types.AttributeValueMemberS{Value: messagePrefix + now}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("adding message: %w", err)
	}
	return &msg, nil
}

// SubmissionPage is one page of submissions in ascending timestamp order.
type SubmissionPage struct {
	Items  []domain.Submission
	Cursor storage.Cursor
}

// GetSubmissions queries the submission range of an instance in the store's
// natural (chronological) order.
func (r *InstanceRepository) GetSubmissions(ctx context.Context, instanceID string, limit int, cursor storage.Cursor) (*SubmissionPage, error) {
	out, err := r.queryPrefix(ctx, instanceID, submissionPrefix, limit, cursor)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}

	items := make([]domain.Submission, 0, len(out.Items))
	for _, raw := range out.Items {
		var s domain.Submission
		if err := attributevalue.UnmarshalMap(raw, &s); err != nil {
			return nil, fmt.Errorf("unmarshalling submission: %w", err)
		}
		items = append(items, s)
	}

	next, err := storage.EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, err
	}
	return &SubmissionPage{Items: items, Cursor: next}, nil
}

// MessagePage is one page of messages in ascending timestamp order.
type MessagePage struct {
	Items  []domain.Message
	Cursor storage.Cursor
}

// GetMessages queries the message range of an instance in the store's natural
// (chronological) order.
func (r *InstanceRepository) GetMessages(ctx context.Context, instanceID string, limit int, cursor storage.Cursor) (*MessagePage, error) {
	out, err := r.queryPrefix(ctx, instanceID, messagePrefix, limit, cursor)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	items := make([]domain.Message, 0, len(out.Items))
	for _, raw := range out.Items {
		var m domain.Message
		if err := attributevalue.UnmarshalMap(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshalling message: %w", err)
		}
		items = append(items, m)
	}

	next, err := storage.EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, err
	}
	return &MessagePage{Items: items, Cursor: next}, nil
}

func (r *InstanceRepository) queryPrefix(ctx context.Context, instanceID, prefix string, limit int, cursor storage.Cursor) (*dynamodb.QueryOutput, error) {
	if limit <= 0 {
		limit = 10
	}

	startKey, err := storage.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	return r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("instanceId = :instanceId AND begins_with(itemType, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":instanceId": &types.AttributeValueMemberS{Value: instanceID},
			":prefix":     &types.AttributeValueMemberS{Value: prefix},
		},
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
}

// InstancePage is one page of instances from a secondary-index query.
type InstancePage struct {
	Items  []domain.Instance
	Cursor storage.Cursor
}

// GetUserProjects lists instances assigned TO the given user, via the
// assignedTo secondary index.
func (r *InstanceRepository) GetUserProjects(ctx context.Context, userID string, limit int, cursor storage.Cursor) (*InstancePage, error) {
	return r.queryIndex(ctx, userProjectsIndex, "assignedTo", userID, limit, cursor)
}

// GetMentorProjects lists instances assigned BY the given mentor, via the
// assignedBy secondary index.
func (r *InstanceRepository) GetMentorProjects(ctx context.Context, mentorID string, limit int, cursor storage.Cursor) (*InstancePage, error) {
	return r.queryIndex(ctx, mentorProjectsIndex, "assignedBy", mentorID, limit, cursor)
}

func (r *InstanceRepository) queryIndex(ctx context.Context, index, attr, value string, limit int, cursor storage.Cursor) (*InstancePage, error) {
	if limit <= 0 {
		limit = 10
	}

	startKey, err := storage.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :v", attr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", index, err)
	}

	items := make([]domain.Instance, 0, len(out.Items))
	for _, raw := range out.Items {
		var inst domain.Instance
		if err := attributevalue.UnmarshalMap(raw, &inst); err != nil {
			return nil, fmt.Errorf("unmarshalling instance: %w", err)
		}
		items = append(items, inst)
	}

	next, err := storage.EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, err
	}
	return &InstancePage{Items: items, Cursor: next}, nil
}

func instanceKey(instanceID, itemType string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"instanceId": &types.AttributeValueMemberS{Value: instanceID},
		"itemType":   &types.AttributeValueMemberS{Value: itemType},
	}
}
