package db

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Migrate executes the schema file as a single multi-statement script.
func Migrate(ctx context.Context, d *sqlx.DB, schemaPath string) error {
	b, err := os.ReadFile(schemaPath)
	if err != nil {
		return errors.Wrap(err, "read schema")
	}
	if _, err := d.ExecContext(ctx, string(b)); err != nil {
		return errors.Wrapf(err, "apply %s", schemaPath)
	}
	return nil
}
