package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/parquetio"
)

// ErrUnsupportedFormat is returned for data sources that are neither CSV nor Parquet.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// Options configures the remote transports.
type Options struct {
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	HTTPTimeout time.Duration
}

// Load fetches the cleaned dataset named by uri and parses it into a Table.
// uri may be a local path, an http(s) URL or an s3://bucket/key URL. There is
// no caching and no retry: any failure is returned to the caller.
func Load(ctx context.Context, uri string, opts Options, log zerolog.Logger) (*model.Table, error) {
	start := time.Now()

	if _, err := formatOf(uri); err != nil {
		return nil, err
	}
	data, err := Fetch(ctx, uri, opts)
	if err != nil {
		return nil, err
	}
	t, err := Decode(data, uri)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", uri).
		Int("bytes", len(data)).
		Int("rows", t.Len()).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")
	return t, nil
}

// Fetch returns the raw bytes behind uri: a local path, an http(s) URL or
// an s3://bucket/key object.
func Fetch(ctx context.Context, uri string, opts Options) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return fetchHTTP(ctx, uri, opts.HTTPTimeout)
	case strings.HasPrefix(uri, "s3://"):
		return fetchS3(ctx, uri, opts)
	default:
		return readLocal(uri)
	}
}

// Decode parses data as CSV or Parquet, chosen by the extension of uri.
func Decode(data []byte, uri string) (*model.Table, error) {
	format, err := formatOf(uri)
	if err != nil {
		return nil, err
	}
	var t *model.Table
	switch format {
	case "csv":
		t, err = ReadCSV(bytes.NewReader(data))
	case "parquet":
		t, err = readParquet(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", uri, err)
	}
	return t, nil
}

func formatOf(uri string) (string, error) {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".csv":
		return "csv", nil
	case ".parquet":
		return "parquet", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, uri)
}

func readParquet(data []byte) (*model.Table, error) {
	r, err := parquetio.OpenReaderAt(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return model.NewTable(model.Columns(), records), nil
}
