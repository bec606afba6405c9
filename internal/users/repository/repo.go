// Package repository implements the DynamoDB user store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/crypto/bcrypt"

	"github.com/guahanweb/photography-challenges-backend/internal/storage"
	"github.com/guahanweb/photography-challenges-backend/internal/users/domain"
)

const bcryptCost = 10

// UserRepository persists users keyed by lowercased email.
type UserRepository struct {
	db    storage.DynamoAPI
	table string
}

func NewUserRepository(db storage.DynamoAPI, table string) *UserRepository {
	return &UserRepository{db: db, table: table}
}

// CreateUser hashes the password and writes the user with a conditional
// not-exists guard on the email key. A duplicate email fails without mutating
// the existing row.
func (r *UserRepository) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		// bcrypt embeds the salt in the hash; the prefix is stored separately
		// to keep the stored shape compatible with earlier records.
		Salt:      string(hash[:29]),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Roles:     []string{domain.DefaultRole},
	}

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return nil, fmt.Errorf("marshalling user: %w", err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &user, nil
}

// Login fetches the user by email and checks the password. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (r *UserRepository) Login(ctx context.Context, email, password string) (*domain.User, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if out.Item == nil {
		return nil, domain.ErrInvalidCredentials
	}

	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshalling user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &user, nil
}
