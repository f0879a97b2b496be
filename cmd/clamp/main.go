package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"github.com/Rhovasti/go-eno-coordinates/operations/batch"
	"github.com/Rhovasti/go-eno-coordinates/operations/clamp"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

	prefix := flag.String("prefix", "", "An optional prefix to limit document discovery to.")

	flag.Parse()

	ctx := context.Background()

	for _, uri := range flag.Args() {

		bucket, err := blob.OpenBucket(ctx, uri)

		if err != nil {
			log.Fatalf("Failed to open bucket '%s', %v", uri, err)
		}

		paths, err := batch.Discover(ctx, bucket, *prefix)

		if err != nil {
			log.Fatalf("Failed to discover documents in '%s', %v", uri, err)
		}

		c := &clamp.Clamper{
			Bucket: bucket,
			Target: coordinates.NormalizedEnvelope(),
		}

		report, err := c.ClampPaths(ctx, paths...)

		if err != nil {
			log.Fatalf("Failed to clamp documents in '%s', %v", uri, err)
		}

		fmt.Printf("%s: clamped %d/%d documents\n", uri, report.Succeeded, report.Total)

		bucket.Close()
	}
}
