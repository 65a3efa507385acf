package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

// DynamoDBClient defines the DynamoDB operations the store needs
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore keeps one item per key in a table whose partition key is "key".
type DynamoStore struct {
	client    DynamoDBClient
	tableName string
	clock     cache.Clock
}

func NewDynamoStore(client DynamoDBClient, tableName string, clock cache.Clock) *DynamoStore {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		clock:     clock,
	}
}

func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s from DynamoDB: %w", key, err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.KVRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling record %s: %w", key, err)
	}

	if record.Expired(s.clock.Now()) {
		log.Debug().Str("key", key).Msg("DynamoDB record expired")
		return nil, nil
	}

	return record.Value, nil
}

func (s *DynamoStore) Put(ctx context.Context, key string, value []byte) error {
	record := models.KVRecord{
		Key:         key,
		Value:       value,
		LastUpdated: s.clock.Now().Unix(),
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling record %s: %w", key, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting %s in DynamoDB: %w", key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(value)).Time("at", time.Unix(record.LastUpdated, 0)).Msg("Saved record to DynamoDB")
	return nil
}

func (s *DynamoStore) Close() error {
	return nil
}
