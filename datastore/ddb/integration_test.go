//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/suparena/mothership/errors"
)

func getDirectoryStore(t *testing.T) *DynamodbDataStore {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	table := os.Getenv("AWS_DDB_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TABLE not set, skipping integration test")
	}

	store, err := NewDynamodbDataStore(context.Background(), Options{
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
		Region:    os.Getenv("AWS_REGION"),
		TableName: table,
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
	})
	if err != nil {
		t.Fatalf("Failed to create datastore: %v", err)
	}
	return store
}

func TestIntegrationPutGet(t *testing.T) {
	store := getDirectoryStore(t)
	ctx := context.Background()

	topic := []byte(fmt.Sprintf("it-%d", time.Now().UnixNano()))

	if _, err := store.Put(ctx, topic, []byte("10.0.0.5:9000|node-abc")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	prev, err := store.Put(ctx, topic, []byte("10.0.0.6:9000|node-def"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if string(prev) != "10.0.0.5:9000|node-abc" {
		t.Errorf("Previous value mismatch: %q", prev)
	}

	got, err := store.Get(ctx, topic)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "10.0.0.6:9000|node-def" {
		t.Errorf("Get returned %q", got)
	}

	if _, err := store.Get(ctx, []byte("it-never-registered")); !errors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}
