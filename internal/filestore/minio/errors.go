package minio

import (
	"context"
	"errors"

	minioErr "github.com/minio/minio-go/v7"

	"github.com/dbseal/encscan/internal/errs"
)

// mapError translates a MinIO SDK error into a *errs.Error. Report
// archiving is an output channel: its failures are persistence failures,
// never fatal to a scan.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// MinIO exposes a typed ErrorResponse for S3-protocol errors; fold the
	// S3 code into the message so the operator sees what the server said.
	var resp minioErr.ErrorResponse
	if errors.As(err, &resp) && resp.Code != "" {
		return errs.Wrap(errs.ErrKindPersistence, msg+" ("+resp.Code+")", err)
	}

	return errs.Wrap(errs.ErrKindPersistence, msg, err)
}
