package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/Rhovasti/go-eno-coordinates/operations/batch"
	"github.com/Rhovasti/go-eno-coordinates/operations/calibrate"
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

		env, count, err := calibrate.Scan(ctx, bucket, paths...)

		if err != nil {
			log.Fatalf("Failed to scan documents in '%s', %v", uri, err)
		}

		log.Printf("%s: scanned %d documents, %d coordinates\n", uri, len(paths), count)

		enc, err := json.Marshal(env)

		if err != nil {
			log.Fatalf("Failed to marshal envelope, %v", err)
		}

		fmt.Println(string(enc))

		bucket.Close()
	}
}
