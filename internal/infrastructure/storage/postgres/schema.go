package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate applies the embedded schema files in name order.
// Files only contain IF NOT EXISTS statements, so running it on every start is safe.
func Migrate(ctx context.Context, pool *Pool) error {
	names, err := fs.Glob(schemaFS, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info(ctx, "schema applied", "file", name)
	}
	return nil
}
