// Package repository implements the versioned DynamoDB store for projects.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/guahanweb/photography-challenges-backend/internal/ids"
	"github.com/guahanweb/photography-challenges-backend/internal/projects/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
)

// ProjectRepository persists Project rows keyed (projectId, version).
// Superseded versions are retained, so the table holds the full history of
// each project.
type ProjectRepository struct {
	db    storage.DynamoAPI
	table string
}

func NewProjectRepository(db storage.DynamoAPI, table string) *ProjectRepository {
	return &ProjectRepository{db: db, table: table}
}

// Create writes a new project at version 1. The conditional check is on the
// projectId component only: version 1 is new by construction.
func (r *ProjectRepository) Create(ctx context.Context, input domain.CreateInput) (*domain.Project, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title required")
	}
	if input.CreatedBy == "" {
		return nil, fmt.Errorf("createdBy required")
	}

	projectID, err := ids.New("proj")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p := domain.Project{
		ProjectID:           projectID,
		Version:             1,
		ProjectNumber:       input.ProjectNumber,
		Title:               input.Title,
		ShortDescription:    input.ShortDescription,
		FullDescription:     input.FullDescription,
		Duration:            input.Duration,
		Mission:             input.Mission,
		Rules:               input.Rules,
		Tips:                input.Tips,
		Reminders:           input.Reminders,
		SharingInstructions: input.SharingInstructions,
		Feedback:            input.Feedback,
		ProjectCategory:     input.ProjectCategory,
		DifficultyLevel:     input.DifficultyLevel,
		TechnicalFocus:      input.TechnicalFocus,
		Equipment:           input.Equipment,
		ProgressTracking:    input.ProgressTracking,
		FollowUpQuestions:   input.FollowUpQuestions,
		RelatedProjects:     input.RelatedProjects,
		CreatedAt:           now,
		UpdatedAt:           now,
		CreatedBy:           input.CreatedBy,
		IsActive:            true,
		IsPublished:         false,
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("marshalling project: %w", err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(projectId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return &p, nil
}

// Get returns the project at the exact (projectId, version) key, or (nil, nil)
// if no such row exists. Absence is a valid outcome, not an error.
func (r *ProjectRepository) Get(ctx context.Context, projectID string, version int) (*domain.Project, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       projectKey(projectID, version),
	})
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var p domain.Project
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling project: %w", err)
	}
	return &p, nil
}

// Update applies the patch against the row at (projectId, expectedVersion) and
// writes the result as a NEW row at version expectedVersion+1, conditioned on
// that row not existing yet. Two callers racing on the same expectedVersion
// both read the target, but at most one conditional write succeeds; the loser
// gets ErrVersionConflict and must re-fetch and retry. Nothing here retries
// automatically.
func (r *ProjectRepository) Update(ctx context.Context, projectID string, expectedVersion int, input domain.UpdateInput) (*domain.Project, error) {
	current, err := r.Get(ctx, projectID, expectedVersion)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	next := *current
	input.Apply(&next)
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	item, err := attributevalue.MarshalMap(next)
	if err != nil {
		return nil, fmt.Errorf("marshalling project: %w", err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(projectId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, domain.ErrVersionConflict
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return &next, nil
}

// Delete removes exactly one version row, unconditionally. It does not check
// that the row is the latest version, does not cascade to other versions, and
// deleting an absent row is a no-op.
func (r *ProjectRepository) Delete(ctx context.Context, projectID string, version int) error {
	_, err := r.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       projectKey(projectID, version),
	})
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Page is one page of an unordered listing.
type Page struct {
	Items  []domain.Project
	Cursor storage.Cursor
}

// List scans the table with a page-size limit and continuation cursor. The
// scan is unordered and does not filter to latest-version-only, so a page may
// contain several historical versions of the same project side by side. That
// matches the stored data model (full version history) and is intentional.
func (r *ProjectRepository) List(ctx context.Context, limit int, cursor storage.Cursor) (*Page, error) {
	if limit <= 0 {
		limit = 10
	}

	startKey, err := storage.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	out, err := r.db.Scan(ctx, &dynamodb.ScanInput{
		TableName:         aws.String(r.table),
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	items := make([]domain.Project, 0, len(out.Items))
	for _, raw := range out.Items {
		var p domain.Project
		if err := attributevalue.UnmarshalMap(raw, &p); err != nil {
			return nil, fmt.Errorf("unmarshalling project: %w", err)
		}
		items = append(items, p)
	}

	next, err := storage.EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, err
	}

	return &Page{Items: items, Cursor: next}, nil
}

func projectKey(projectID string, version int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"projectId": &types.AttributeValueMemberS{Value: projectID},
		"version":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", version)},
	}
}
