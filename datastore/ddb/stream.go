/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/storagemodels"
)

// Stream scans the whole table page by page. DynamoDB scans are unordered.
func (d *DynamodbDataStore) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	options := storagemodels.ApplyStreamOptions(opts...)

	// Create buffered result channel
	resultCh := make(chan storagemodels.StreamResult, options.BufferSize)

	// Start streaming in background
	go d.streamWorker(ctx, options, resultCh)

	return resultCh
}

// streamWorker handles the actual streaming logic
func (d *DynamodbDataStore) streamWorker(
	ctx context.Context,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult,
) {
	defer close(resultCh)

	var itemIndex int64
	var pageNumber int
	var lastKey []byte
	startTime := time.Now()

	reportProgress := func() {
		if options.ProgressHandler != nil {
			options.ProgressHandler(storagemodels.NewProgress(itemIndex, pageNumber, lastKey, startTime))
		}
	}

	input := &sdk.ScanInput{
		TableName:      &d.tableName,
		Limit:          aws.Int32(options.PageSize),
		ConsistentRead: aws.Bool(true),
	}

	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		out, err := d.scanWithRetry(ctx, input, options)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			resultCh <- storagemodels.StreamResult{
				Error: errors.NewStoreError(errors.OpScan, BackendName, err),
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}
			return
		}

		pageNumber++

		for _, raw := range out.Items {
			var item topicItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				resultCh <- storagemodels.StreamResult{
					Error: errors.NewStoreError(errors.OpScan, BackendName, fmt.Errorf("failed to unmarshal item: %w", err)),
					Meta:  storagemodels.StreamMeta{Index: itemIndex, PageNumber: pageNumber, Timestamp: time.Now()},
				}
				return
			}

			result := storagemodels.StreamResult{
				Entry: storagemodels.Entry{Key: []byte(item.Topic), Value: nonNil(item.Value)},
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}

			select {
			case <-ctx.Done():
				return
			case resultCh <- result:
			}
			itemIndex++
			lastKey = result.Entry.Key
		}

		reportProgress()

		if len(out.LastEvaluatedKey) == 0 {
			return
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}
}

// scanWithRetry executes a scan page with configurable retry logic
func (d *DynamodbDataStore) scanWithRetry(
	ctx context.Context,
	input *sdk.ScanInput,
	options storagemodels.StreamOptions,
) (*sdk.ScanOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		out, err := d.client.Scan(ctx, input)
		if err == nil {
			return out, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}

		// Don't sleep after last attempt
		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("scan failed after %d retries: %w", options.MaxRetries, lastErr)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if stderrors.As(err, &throughput) || stderrors.As(err, &limit) || stderrors.As(err, &internal) {
		return true
	}

	// Check for AWS SDK retryable errors
	var retryable interface{ IsRetryable() bool }
	if stderrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}

	return false
}
