package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// ============================================================================
// LOADER — CSV files → Dataset
// ============================================================================
// Each CSV becomes one table named after its file base name. Sources can be
// a local directory, individual local files, or http(s):// and s3:// URLs.
// Loading happens once at startup; the resulting Dataset is read-only.
// ============================================================================

// The CSV files the delivery dataset ships with. Missing files are skipped
// with a warning so partial datasets still load.
var defaultFiles = []string{
	"orders.csv", "fleet_logs.csv", "warehouse_logs.csv",
	"external_factors.csv", "feedback.csv", "clients.csv",
	"drivers.csv", "warehouses.csv",
}

// S3Options carries optional credentials for s3:// sources.
// Empty fields fall back to the default AWS credential chain.
type S3Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

// Loader reads CSV sources into a Dataset.
type Loader struct {
	s3opts S3Options
	log    *logrus.Logger
}

// NewLoader creates a Loader. log may be nil.
func NewLoader(s3opts S3Options, log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{s3opts: s3opts, log: log}
}

// LoadDir loads the known delivery CSV files from a local directory.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Dataset, error) {
	tables := make(map[string][]Record)
	for _, filename := range defaultFiles {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err != nil {
			l.log.WithField("file", filename).Warn("data file not found, skipping")
			continue
		}
		name := tableName(filename)
		recs, err := l.loadOne(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filename, err)
		}
		tables[name] = recs
		l.log.WithFields(logrus.Fields{"table": name, "records": len(recs)}).Info("loaded table")
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no data files found in %s", dir)
	}
	return New(tables), nil
}

// LoadSources loads an explicit list of CSV sources (local path, http(s)://
// or s3:// URL). The table name is derived from each source's base name.
func (l *Loader) LoadSources(ctx context.Context, sources []string) (*Dataset, error) {
	tables := make(map[string][]Record)
	for _, src := range sources {
		name := tableName(filepath.Base(strings.TrimRight(src, "/")))
		recs, err := l.loadOne(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src, err)
		}
		tables[name] = recs
		l.log.WithFields(logrus.Fields{"table": name, "records": len(recs)}).Info("loaded table")
	}
	return New(tables), nil
}

func (l *Loader) loadOne(ctx context.Context, src string) ([]Record, error) {
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseCSV(rc)
}

// open resolves a source by scheme, mirroring the scheme detection of the
// analysis-store remote reader.
func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		return l.openS3(ctx, src)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return openHTTP(ctx, src)
	case strings.HasPrefix(lower, "file://"):
		return os.Open(strings.TrimPrefix(src, "file://"))
	default:
		return os.Open(src)
	}
}

func openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}

func (l *Loader) openS3(ctx context.Context, url string) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if l.s3opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(l.s3opts.Region))
	}
	if l.s3opts.AccessKey != "" && l.s3opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(l.s3opts.AccessKey, l.s3opts.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if l.s3opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(l.s3opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", url, err)
	}
	return out.Body, nil
}

// parseS3URL splits "s3://bucket/key/path.csv" into bucket and key.
func parseS3URL(url string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

// ParseCSV reads CSV data into records. The first row is the header; each
// following row becomes a Record keyed by header name. Short rows leave the
// remaining columns absent; malformed rows are skipped. Transport errors
// from the underlying reader abort the parse — sources can be network
// streams, and a dropped connection reports the same error forever.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue // skip malformed rows
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}

		rec := make(Record, len(headers))
		for i, val := range row {
			if i >= len(headers) {
				break
			}
			rec[headers[i]] = strings.TrimSpace(val)
		}
		records = append(records, rec)
	}
	return records, nil
}

// tableName converts "orders.csv" or "sample_orders.csv" → "orders".
func tableName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.TrimPrefix(name, "sample_")
	return name
}
