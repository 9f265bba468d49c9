package repokit

import (
	"context"

	perr "feedline/internal/platform/errors"
	"feedline/internal/platform/store"

	sq "github.com/Masterminds/squirrel"
)

// Builder starts every statement and renders $n placeholders
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Select runs b and scans each row into T by column name
// a builder that cannot render is a programmer error and comes back uncoded
func Select[T any](ctx context.Context, q Queryer, b sq.Sqlizer) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "render query")
	}
	return store.StructsByName[T](ctx, q, query, args...)
}
