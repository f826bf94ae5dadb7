package policies

import (
	"context"
	"io"
)

// ReportStore keeps exported reports and returns a link to download them.
type ReportStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}
