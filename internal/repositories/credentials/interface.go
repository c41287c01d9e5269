package credentials

import (
	"context"

	"github.com/dmitrijs2005/localauth/internal/models"
)

type Repository interface {
	Load(ctx context.Context) (map[string]models.Record, error)
	Save(ctx context.Context, records map[string]models.Record) error
	Close() error
}
