package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"estatedash/internal/app/policies"
)

const defaultLinkTTL = 24 * time.Hour

// Options configures the report bucket. PublicEndpoint is the address browsers
// use to download; it defaults to Endpoint.
type Options struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	Region         string
	LinkTTL        time.Duration
}

// Client stores exported reports in an S3-compatible bucket and hands out
// presigned download links. The bucket stays private.
type Client struct {
	bucket         string
	linkTTL        time.Duration
	client         *minio.Client
	presigner      *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

var (
	ErrEndpointRequired = errors.New("s3: endpoint is required")
	ErrBucketRequired   = errors.New("s3: bucket is required")
	ErrKeyRequired      = errors.New("s3: object key is required")
)

func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	creds := credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), "")

	client, err := minio.New(parseEndpoint(endpoint), &minio.Options{Creds: creds, Secure: opts.UseSSL, Region: region})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	public := strings.TrimSpace(opts.PublicEndpoint)
	if public == "" {
		public = endpoint
	}
	presigner, err := minio.New(parseEndpoint(public), &minio.Options{Creds: creds, Secure: secureFor(public, opts.UseSSL), Region: region})
	if err != nil {
		return nil, fmt.Errorf("s3: create presign client: %w", err)
	}

	ttl := opts.LinkTTL
	if ttl <= 0 {
		ttl = defaultLinkTTL
	}
	return &Client{bucket: bucket, linkTTL: ttl, client: client, presigner: presigner, logger: logger}, nil
}

// Upload stores the content under key and returns a presigned GET link.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = cleanKey(key)
	if key == "" {
		return "", ErrKeyRequired
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size := int64(-1)
	if sized, ok := reader.(interface{ Len() int }); ok {
		size = int64(sized.Len())
	}
	info, err := c.client.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", baseName(key)))
	link, err := c.presigner.PresignedGetObject(ctx, c.bucket, key, c.linkTTL, params)
	if err != nil {
		return "", fmt.Errorf("s3: presign: %w", err)
	}
	if c.logger != nil {
		c.logger.Info("report uploaded", "bucket", c.bucket, "key", key, "size", info.Size)
	}
	return link.String(), nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.BucketExists(ctx, c.bucket); err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	return nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	c.bucketInitOnce.Do(func() {
		exists, err := c.client.BucketExists(ctx, c.bucket)
		if err != nil {
			c.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			c.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return c.bucketInitErr
}

func cleanKey(key string) string {
	return strings.Trim(strings.TrimSpace(key), "/")
}

func baseName(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// parseEndpoint strips the scheme minio.New does not accept.
func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

func secureFor(endpoint string, def bool) bool {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Scheme == "https"
	}
	return def
}

var _ policies.ReportStore = (*Client)(nil)
