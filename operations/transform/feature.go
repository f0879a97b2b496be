package transform

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/whosonfirst/go-ioutil"
	"github.com/whosonfirst/go-reader/v2"
	"github.com/whosonfirst/go-writer/v3"
)

// TransformFeature reads the document at 'path' from 'r', transforms it per
// 'opts' and publishes the result to the same path with 'wr'. Like
// TransformDocument this is fail-fast: there is no partial-failure semantic
// for a single document, so the first error is returned as-is.
func TransformFeature(ctx context.Context, r reader.Reader, wr writer.Writer, path string, opts *TransformDocumentOptions) error {

	fh, err := r.Read(ctx, path)

	if err != nil {
		return fmt.Errorf("Failed to read '%s', %w", path, err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		return fmt.Errorf("Failed to read body for '%s', %w", path, err)
	}

	new_body, err := TransformDocument(ctx, body, opts)

	if err != nil {
		return fmt.Errorf("Failed to transform '%s', %w", path, err)
	}

	br := bytes.NewReader(new_body)
	rsc, err := ioutil.NewReadSeekCloser(br)

	if err != nil {
		return fmt.Errorf("Failed to create ReadSeekCloser for '%s', %w", path, err)
	}

	_, err = wr.Write(ctx, path, rsc)

	if err != nil {
		return fmt.Errorf("Failed to write '%s', %w", path, err)
	}

	return nil
}
