package repositories

import (
	"context"
	"sort"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
)

type tableRepository struct {
	db *db.DB
}

func NewTableRepository(database *db.DB) TableRepository {
	return &tableRepository{db: database}
}

func (r *tableRepository) ListTables(ctx context.Context) ([]string, error) {
	tables, err := r.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, apperrors.Persistence("list tables", err)
	}
	sort.Strings(tables)
	return tables, nil
}

// Columns expects a table name already checked against ListTables.
func (r *tableRepository) Columns(ctx context.Context, table string) ([]TableColumn, error) {
	types, err := r.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, apperrors.Persistence("describe table", err)
	}
	cols := make([]TableColumn, 0, len(types))
	for _, ct := range types {
		cols = append(cols, TableColumn{Name: ct.Name(), Type: ct.DatabaseTypeName()})
	}
	return cols, nil
}

// CountRows expects a table name already checked against ListTables.
func (r *tableRepository) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, apperrors.Persistence("count rows", err)
	}
	return n, nil
}

// SampleRows expects a table name already checked against ListTables.
func (r *tableRepository) SampleRows(ctx context.Context, table string, limit int) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, limit)
	if err := r.db.WithContext(ctx).Table(table).Limit(limit).Find(&rows).Error; err != nil {
		return nil, apperrors.Persistence("sample rows", err)
	}
	return rows, nil
}
