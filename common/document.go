package common

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
)

// ReadDocument reads the document stored at 'key' in 'bucket' and returns
// its body.
func ReadDocument(ctx context.Context, bucket *blob.Bucket, key string) ([]byte, error) {

	r, err := bucket.NewReader(ctx, key, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to create new reader for '%s', %w", key, err)
	}

	defer r.Close()

	body, err := io.ReadAll(r)

	if err != nil {
		return nil, fmt.Errorf("Failed to read '%s', %w", key, err)
	}

	return body, nil
}

// WriteDocument writes 'body' to 'key' in 'bucket'.
func WriteDocument(ctx context.Context, bucket *blob.Bucket, key string, body []byte) error {

	wr, err := bucket.NewWriter(ctx, key, nil)

	if err != nil {
		return fmt.Errorf("Failed to create new writer for '%s', %w", key, err)
	}

	_, err = wr.Write(body)

	if err != nil {
		bucket.Delete(ctx, key)
		return fmt.Errorf("Failed to write '%s', %w", key, err)
	}

	err = wr.Close()

	if err != nil {
		return fmt.Errorf("Failed to close writer for '%s', %w", key, err)
	}

	return nil
}

// CopyKey byte-copies the document at 'source_key' to 'target_key' inside
// the same bucket. It is how backup artifacts are created and restored.
func CopyKey(ctx context.Context, bucket *blob.Bucket, source_key string, target_key string) error {

	r, err := bucket.NewReader(ctx, source_key, nil)

	if err != nil {
		return fmt.Errorf("Failed to create new reader for '%s', %w", source_key, err)
	}

	defer r.Close()

	wr, err := bucket.NewWriter(ctx, target_key, nil)

	if err != nil {
		return fmt.Errorf("Failed to create new writer for '%s', %w", target_key, err)
	}

	_, err = io.Copy(wr, r)

	if err != nil {
		bucket.Delete(ctx, target_key)
		return fmt.Errorf("Failed to copy '%s' to '%s', %w", source_key, target_key, err)
	}

	err = wr.Close()

	if err != nil {
		return fmt.Errorf("Failed to close writer for '%s', %w", target_key, err)
	}

	return nil
}
