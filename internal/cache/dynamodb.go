package cache

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// DynamoDBBackend stores the record as a single item keyed by "key".
type DynamoDBBackend struct {
	client    dynamodbiface.DynamoDBAPI
	tableName string
	key       string
}

type dynamoItem struct {
	Key       string  `dynamodbav:"key"`
	Timestamp float64 `dynamodbav:"timestamp"`
	Data      string  `dynamodbav:"data"`
}

// OpenDynamoDB creates a session for region (and optional endpoint, for
// DynamoDB Local) and makes sure the table exists.
func OpenDynamoDB(region, endpoint, table, key string) (*DynamoDBBackend, error) {
	awsConfig := &aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		awsConfig.Endpoint = aws.String(endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	b := NewDynamoDBBackend(dynamodb.New(sess), table, key)
	if err := b.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure table exists: %w", err)
	}
	return b, nil
}

func NewDynamoDBBackend(client dynamodbiface.DynamoDBAPI, table, key string) *DynamoDBBackend {
	return &DynamoDBBackend{client: client, tableName: table, key: key}
}

func (d *DynamoDBBackend) ensureTable() error {
	_, err := d.client.DescribeTable(&dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
	if err == nil {
		return nil
	}

	_, err = d.client.CreateTable(&dynamodb.CreateTableInput{
		TableName: aws.String(d.tableName),
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String("key"),
				KeyType:       aws.String("HASH"),
			},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String("key"),
				AttributeType: aws.String("S"),
			},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	})
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return d.client.WaitUntilTableExists(&dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
}

func (d *DynamoDBBackend) Name() string { return "dynamodb" }

func (d *DynamoDBBackend) itemKey() map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"key": {S: aws.String(d.key)},
	}
}

func (d *DynamoDBBackend) Load(ctx context.Context) (Record, error) {
	out, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		Key:            d.itemKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to get cache item: %w", err)
	}
	if out.Item == nil {
		return Record{}, ErrNotFound
	}

	var item dynamoItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal cache item: %w", err)
	}
	entries, err := decodeEntries(item.Data)
	if err != nil {
		return Record{}, err
	}
	return Record{Timestamp: item.Timestamp, Data: entries}, nil
}

func (d *DynamoDBBackend) Save(ctx context.Context, rec Record) error {
	data, err := encodeEntries(rec.Data)
	if err != nil {
		return err
	}
	item, err := dynamodbattribute.MarshalMap(dynamoItem{Key: d.key, Timestamp: rec.Timestamp, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal cache item: %w", err)
	}

	_, err = d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store cache item: %w", err)
	}
	return nil
}

func (d *DynamoDBBackend) Clear(ctx context.Context) error {
	_, err := d.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       d.itemKey(),
	})
	return err
}

// Close is a no-op; the DynamoDB client holds no connection.
func (d *DynamoDBBackend) Close() error { return nil }
