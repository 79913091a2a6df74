package iostorage

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/phingest/phingest/pkg/errcode"
)

// StorageConfigError is returned when bucket settings are incomplete.
func StorageConfigError(bucket string) error {
	msg := `Object storage bucket <em>%s</em> is not configured

<em>How to fix:</em>
  1. Set bucket, access_key_id and secret_access_key in the
     <em>storage</em> and <em>cdn</em> sections of the configuration
  2. Or use <em>--offline</em>`

	vars := []any{bucket}

	return &gn.Error{
		Code: errcode.StorageConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("incomplete settings of bucket %q", bucket),
	}
}

// UploadError is returned when an object cannot be stored.
func UploadError(bucket, key string, err error) error {
	msg := "Cannot upload <em>%s</em> to <em>%s</em>"
	vars := []any{key, bucket}

	return &gn.Error{
		Code: errcode.UploadFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("put %s/%s: %w", bucket, key, err),
	}
}

// DownloadError is returned when an object cannot be read.
func DownloadError(bucket, key string, err error) error {
	msg := "Cannot download <em>%s</em> from <em>%s</em>"
	vars := []any{key, bucket}

	return &gn.Error{
		Code: errcode.DownloadFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("get %s/%s: %w", bucket, key, err),
	}
}
