// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the inventory archive needs: checking bucket existence,
// creating the bucket, and putting, getting, and removing snapshot objects.
// This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// The Client interface makes storage interactions easy to mock for unit
// testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "inventory-archive")
package storage
