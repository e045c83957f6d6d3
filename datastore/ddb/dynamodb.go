/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/sirupsen/logrus"

	"github.com/suparena/mothership/errors"
)

// BackendName identifies this store in errors and configuration.
const BackendName = "dynamodb"

// API is the subset of the DynamoDB client used by the store.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
}

// DefaultIndexMap lays every topic out as its own single-key item.
var DefaultIndexMap = map[string]string{
	"PK": "TOPIC#{topic}",
	"SK": "TOPIC#{topic}",
}

// topicItem is the stored item. Value holds exactly the bytes the caller put.
type topicItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Topic     string `dynamodbav:"Topic"`
	Value     []byte `dynamodbav:"Value"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// DynamodbDataStore implements datastore.DataStore by using AWS DynamoDB as the underlying data store.
type DynamodbDataStore struct {
	client    API
	tableName string
	indexMap  map[string]string
	now       func() time.Time
}

// Options configures the DynamoDB client.
type Options struct {
	AccessKey string
	SecretKey string
	Region    string
	TableName string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local
	Endpoint string
	Logger   logrus.FieldLogger
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewDynamoDBClient(ctx context.Context, opts Options) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"table":  opts.TableName,
		"region": opts.Region,
	}).Info("DynamoDB client initialized")
	return client, nil
}

// NewDynamodbDataStore constructs a store over a freshly configured client.
func NewDynamodbDataStore(ctx context.Context, opts Options) (*DynamodbDataStore, error) {
	if opts.TableName == "" {
		return nil, errors.NewValidationError("table", "must not be empty")
	}
	if opts.Region == "" {
		return nil, errors.NewValidationError("region", "must not be empty")
	}

	client, err := NewDynamoDBClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewWithClient(client, opts.TableName), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, tableName string) *DynamodbDataStore {
	return &DynamodbDataStore{
		client:    client,
		tableName: tableName,
		indexMap:  DefaultIndexMap,
		now:       time.Now,
	}
}

// Put stores value under key and returns the previous value via ALL_OLD.
func (d *DynamodbDataStore) Put(ctx context.Context, key, value []byte) ([]byte, error) {
	topic, err := validateKey(key)
	if err != nil {
		return nil, err
	}

	keyMap, err := d.keyFor(topic)
	if err != nil {
		return nil, err
	}

	item := topicItem{
		PK:        keyMap["PK"],
		SK:        keyMap["SK"],
		Topic:     topic,
		Value:     value,
		UpdatedAt: strfmt.DateTime(d.now().UTC()).String(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}

	out, err := d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:    &d.tableName,
		Item:         av,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, errors.NewStoreError(errors.OpWrite, BackendName, fmt.Errorf("PutItem failed: %w", err))
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}

	var previous topicItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &previous); err != nil {
		// the write went through; only the diagnostic previous value is lost
		return nil, nil
	}
	return nonNil(previous.Value), nil
}

// Get retrieves the value under key with a strongly consistent read.
func (d *DynamodbDataStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	topic, err := validateKey(key)
	if err != nil {
		return nil, err
	}

	keyMap, err := d.keyFor(topic)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &d.tableName,
		Key:            toKeyAttributes(keyMap),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.NewStoreError(errors.OpRead, BackendName, fmt.Errorf("GetItem error: %w", err))
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError("key", topic)
	}

	var item topicItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, errors.NewStoreError(errors.OpRead, BackendName, fmt.Errorf("failed to unmarshal item: %w", err))
	}
	return nonNil(item.Value), nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *DynamodbDataStore) Close() error {
	return nil
}

func (d *DynamodbDataStore) keyFor(topic string) (map[string]string, error) {
	expanded, err := expandStringKey(d.indexMap, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to expand string key: %w", err)
	}
	if key, ok := buildSingleKey(expanded); ok {
		return key, nil
	}
	return buildKeyFromExpanded(expanded)
}

func validateKey(key []byte) (string, error) {
	if len(key) == 0 {
		return "", errors.NewValidationError("key", "must not be empty")
	}
	if !utf8.Valid(key) {
		return "", errors.NewValidationError("key", "must be valid UTF-8 for DynamoDB string keys")
	}
	return string(key), nil
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It assumes that the expanded map has valid non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]string, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}
	return map[string]string{"PK": pk, "SK": sk}, nil
}

// expandStringKey replaces macro patterns in the indexMap values with the provided key.
func expandStringKey(indexMap map[string]string, key string) (map[string]string, error) {
	if len(indexMap) == 0 {
		return nil, fmt.Errorf("empty index map")
	}
	expanded := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		expanded[field] = macroPattern.ReplaceAllLiteralString(template, key)
	}
	return expanded, nil
}

func buildSingleKey(expanded map[string]string) (map[string]string, bool) {
	pk, hasPK := expanded["PK"]
	sk, hasSK := expanded["SK"]

	// If both exist and are identical, we treat them as a single object key.
	if hasPK && hasSK && pk != "" && pk == sk {
		return map[string]string{"PK": pk, "SK": sk}, true
	}
	return nil, false
}

func toKeyAttributes(key map[string]string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key["PK"]},
		"SK": &types.AttributeValueMemberS{Value: key["SK"]},
	}
}

// nonNil distinguishes a present-but-empty value from an absent one.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
