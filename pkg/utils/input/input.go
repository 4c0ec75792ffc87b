// Package input reads command input from a local file, standard input or a
// Cloud Storage object.
package input

import (
	"context"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/utils/safe"
)

const (
	Stdin     = "-"
	gcsScheme = "gs://"
)

var ErrInvalidLocation = goerr.New("invalid input location")

// Read returns the content at location: "-" for standard input,
// "gs://bucket/object" for Cloud Storage (application default credentials),
// otherwise a local path.
func Read(ctx context.Context, location string) ([]byte, error) {
	switch {
	case location == Stdin:
		return readAll(os.Stdin, location)

	case strings.HasPrefix(location, gcsScheme):
		bucket, object, err := ParseGCSURL(location)
		if err != nil {
			return nil, err
		}
		return readGCS(ctx, bucket, object)

	default:
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read file", goerr.V("path", location))
		}
		return data, nil
	}
}

// ParseGCSURL splits "gs://bucket/path/to/object"
func ParseGCSURL(location string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(location, gcsScheme)
	if !ok {
		return "", "", goerr.Wrap(ErrInvalidLocation, "not a gs:// URL", goerr.V("location", location))
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", goerr.Wrap(ErrInvalidLocation, "gs:// URL must name a bucket and an object", goerr.V("location", location))
	}
	return bucket, object, nil
}

func readGCS(ctx context.Context, bucket, object string) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	defer safe.Close(ctx, client)

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open Cloud Storage object",
			goerr.V("bucket", bucket), goerr.V("object", object))
	}
	defer safe.Close(ctx, r)

	return readAll(r, gcsScheme+bucket+"/"+object)
}

func readAll(r io.Reader, location string) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read input", goerr.V("location", location))
	}
	return data, nil
}
