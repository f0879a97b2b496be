package main

import (
	"context"
	"flag"
	"log"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"github.com/Rhovasti/go-eno-coordinates/operations/calibrate"
	"github.com/Rhovasti/go-eno-coordinates/operations/transform"
)

func main() {

	reader_uri := flag.String("reader-uri", "fs:///", "A valid whosonfirst/go-reader URI to read documents from.")
	writer_uri := flag.String("writer-uri", "fs:///", "A valid whosonfirst/go-writer URI to publish transformed documents to.")

	lon_min := flag.Float64("lon-min", calibrate.EnoEnvelope().LonMin, "The minimum longitude of the source envelope.")
	lon_max := flag.Float64("lon-max", calibrate.EnoEnvelope().LonMax, "The maximum longitude of the source envelope.")
	lat_min := flag.Float64("lat-min", calibrate.EnoEnvelope().LatMin, "The minimum latitude of the source envelope.")
	lat_max := flag.Float64("lat-max", calibrate.EnoEnvelope().LatMax, "The maximum latitude of the source envelope.")

	strip_elevation := flag.Bool("strip-elevation", true, "Truncate [lon, lat, elevation] coordinates to [lon, lat] before transforming.")

	flag.Parse()

	ctx := context.Background()

	r, err := common.NewReader(ctx, *reader_uri)

	if err != nil {
		log.Fatalf("Failed to create reader, %v", err)
	}

	wr, err := common.NewWriter(ctx, *writer_uri)

	if err != nil {
		log.Fatalf("Failed to create writer, %v", err)
	}

	source := coordinates.Envelope{
		LonMin: *lon_min,
		LonMax: *lon_max,
		LatMin: *lat_min,
		LatMax: *lat_max,
	}

	opts := transform.DefaultTransformDocumentOptions(source)

	opts.TransformOptions = &coordinates.TransformOptions{
		StripElevation: *strip_elevation,
	}

	// single-document mode is fail-fast: the first problem stops the run

	for _, path := range flag.Args() {

		err := transform.TransformFeature(ctx, r, wr, path, opts)

		if err != nil {
			log.Fatalf("Failed to transform '%s', %v", path, err)
		}

		log.Printf("Transformed '%s'\n", path)
	}
}
