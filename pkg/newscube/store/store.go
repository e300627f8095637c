// Package store defines the output sink for a finished star schema.
package store

import (
	"context"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/schema"
)

// Writer persists one complete run: all seven schema tables plus the
// rejected-entity report.
type Writer interface {
	WriteTables(ctx context.Context, t *schema.Tables) error
	WriteRejected(ctx context.Context, rejected []entity.RejectedEntity) error
	Close() error
}
