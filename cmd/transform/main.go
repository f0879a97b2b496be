package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"github.com/Rhovasti/go-eno-coordinates/operations/batch"
	"github.com/Rhovasti/go-eno-coordinates/operations/calibrate"
	"github.com/Rhovasti/go-eno-coordinates/operations/transform"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func main() {

	lon_min := flag.Float64("lon-min", calibrate.EnoEnvelope().LonMin, "The minimum longitude of the source envelope.")
	lon_max := flag.Float64("lon-max", calibrate.EnoEnvelope().LonMax, "The maximum longitude of the source envelope.")
	lat_min := flag.Float64("lat-min", calibrate.EnoEnvelope().LatMin, "The minimum latitude of the source envelope.")
	lat_max := flag.Float64("lat-max", calibrate.EnoEnvelope().LatMax, "The maximum latitude of the source envelope.")

	scan := flag.Bool("scan", false, "Calibrate the source envelope by scanning the documents first, rather than using the flag-derived envelope.")
	strip_elevation := flag.Bool("strip-elevation", true, "Truncate [lon, lat, elevation] coordinates to [lon, lat] before transforming.")
	prefix := flag.String("prefix", "", "An optional prefix to limit document discovery to.")
	output_uri := flag.String("output-bucket-uri", "", "An optional gocloud.dev/blob bucket URI to write transformed documents to. When empty, documents are rewritten in place under the backup protocol.")

	flag.Parse()

	ctx := context.Background()

	source := coordinates.Envelope{
		LonMin: *lon_min,
		LonMax: *lon_max,
		LatMin: *lat_min,
		LatMax: *lat_max,
	}

	var output *blob.Bucket

	if *output_uri != "" {

		b, err := blob.OpenBucket(ctx, *output_uri)

		if err != nil {
			log.Fatalf("Failed to open output bucket, %v", err)
		}

		defer b.Close()
		output = b
	}

	for _, uri := range flag.Args() {

		bucket, err := blob.OpenBucket(ctx, uri)

		if err != nil {
			log.Fatalf("Failed to open bucket '%s', %v", uri, err)
		}

		paths, err := batch.Discover(ctx, bucket, *prefix)

		if err != nil {
			log.Fatalf("Failed to discover documents in '%s', %v", uri, err)
		}

		if *scan {

			scanned, count, err := calibrate.Scan(ctx, bucket, paths...)

			if err != nil {
				log.Fatalf("Failed to scan documents in '%s', %v", uri, err)
			}

			log.Printf("Calibrated envelope from %d coordinates: %+v\n", count, scanned)
			source = scanned
		}

		opts := transform.DefaultTransformDocumentOptions(source)

		opts.TransformOptions = &coordinates.TransformOptions{
			StripElevation: *strip_elevation,
		}

		d := &batch.Driver{
			Bucket:  bucket,
			Output:  output,
			Options: opts,
		}

		report, err := d.ProcessPaths(ctx, paths...)

		if err != nil {
			log.Fatalf("Failed to process documents in '%s', %v", uri, err)
		}

		// partial failure is still overall success here; the tally says
		// what actually happened

		fmt.Printf("%s: transformed %d/%d documents\n", uri, report.Succeeded, report.Total)

		bucket.Close()
	}
}
