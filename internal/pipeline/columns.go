package pipeline

import (
	"context"
	"fmt"

	"github.com/theirongolddev/tripcost/internal/oracle"
	"github.com/theirongolddev/tripcost/internal/source"
)

// ResolveColumns maps the three required fields onto headers. A non-empty
// override must name an existing header; other fields are asked of id.
// Two fields resolving to the same header is an error.
func ResolveColumns(ctx context.Context, headers []string, overrides source.Columns, id oracle.ColumnIdentifier) (source.Columns, error) {
	var cols source.Columns
	fields := []struct {
		desc     string
		override string
		dst      *string
	}{
		{oracle.FieldDate, overrides.Date, &cols.Date},
		{oracle.FieldDescription, overrides.Description, &cols.Description},
		{oracle.FieldAmount, overrides.Amount, &cols.Amount},
	}

	seen := make(map[string]string)
	for _, f := range fields {
		var (
			name string
			err  error
		)
		if f.override != "" {
			name, err = oracle.ValidateColumn(f.override, headers)
		} else {
			name, err = id.ColumnName(ctx, headers, f.desc)
		}
		if err != nil {
			return cols, fmt.Errorf("identifying %s column: %w", f.desc, err)
		}
		if prev, dup := seen[name]; dup {
			return cols, fmt.Errorf("%s and %s both map to column %q: %w", prev, f.desc, name, oracle.ErrColumnNotFound)
		}
		seen[name] = f.desc
		*f.dst = name
	}
	return cols, nil
}
