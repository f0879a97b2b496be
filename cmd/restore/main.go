package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/Rhovasti/go-eno-coordinates/operations/restore"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

	prefix := flag.String("prefix", "", "An optional prefix to limit the restore to.")

	flag.Parse()

	ctx := context.Background()

	for _, uri := range flag.Args() {

		bucket, err := blob.OpenBucket(ctx, uri)

		if err != nil {
			log.Fatalf("Failed to open bucket '%s', %v", uri, err)
		}

		restored, err := restore.Restore(ctx, bucket, *prefix)

		if err != nil {
			log.Fatalf("Failed to restore documents in '%s', %v", uri, err)
		}

		fmt.Printf("%s: restored %d documents\n", uri, restored)

		bucket.Close()
	}
}
