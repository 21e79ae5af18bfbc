package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/smithy-go"
	"github.com/fhuszti/medias-lifecycle-go/internal/usecase/media"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	resp := minio.ToErrorResponse(err)
	return classify(resp.Code, resp.StatusCode, err)
}

func mapS3Err(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	code := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}
	status := 0
	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		status = respErr.HTTPStatusCode()
	}
	return classify(code, status, err)
}

// classify maps a provider error code and HTTP status onto the media storage
// errors. An error without code nor status never reached the provider.
func classify(code string, status int, err error) error {
	switch code {
	case "NoSuchKey", "NotFound":
		return media.ErrObjectNotFound
	case "NoSuchBucket":
		return media.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken":
		return media.ErrUnauthorized
	case "SlowDown", "InternalError", "ServiceUnavailable", "RequestTimeout", "RequestTimeTooSkewed":
		return fmt.Errorf("%w: %v", media.ErrTransient, err)
	}

	switch {
	case status == http.StatusNotFound:
		return media.ErrObjectNotFound
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return media.ErrUnauthorized
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: %v", media.ErrTransient, err)
	case code == "" && status == 0:
		return fmt.Errorf("%w: %v", media.ErrTransient, err)
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", media.ErrInternal, err)
	}
}
