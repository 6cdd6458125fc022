package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/shared/constant"
	"tablebook/shared/dto"
	"tablebook/shared/logger"

	"github.com/jmoiron/sqlx"
)

var (
	ErrRequiredFilter = errors.New("refusing to run without a filter")
	ErrEmptyUpdate    = errors.New("nothing to update")
)

// runner is satisfied by both *sqlx.DB and *sqlx.Tx.
type runner interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository is the generic CRUD layer over one table. Columns come from the
// db tags of T, including those of embedded structs such as model.Metadata.
type Repository[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	table   string
	entity  string
	primary string
	columns []string
}

func NewRepository[T any](entity, table, primary string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:      db,
		otel:    otl,
		table:   table,
		entity:  entity,
		primary: primary,
		columns: dbColumns(reflect.TypeFor[T]()),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+repo.entity+"."+operation)
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

// one runs query and scans the single resulting row into dest.
func (repo *Repository[T]) one(ctx context.Context, scope otel.Scope, db runner, query string, dest any, args map[string]any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) insert(ctx context.Context, db runner, model T) error {
	ctx, scope := repo.scope(ctx, "insert")
	defer scope.End()

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)", repo.table, strings.Join(repo.columns, ", "), strings.Join(repo.columns, ", :"))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := db.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, model)
}

func (repo *Repository[T]) exist(ctx context.Context, db runner, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "exist")
	defer scope.End()

	where, args := BuildWhereClause(filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	exist := false

	if err := repo.one(ctx, scope, db, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where), &exist, args); err != nil {
		return false, repo.fail(scope, "check existence", err)
	}

	return exist, nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, repo.db.Read, filter)
}

func (repo *Repository[T]) ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, sqltx, filter)
}

func (repo *Repository[T]) get(ctx context.Context, db runner, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "get")
	defer scope.End()

	var model T

	where, args := BuildWhereClause(filter)

	err := repo.one(ctx, scope, db, fmt.Sprintf("SELECT %s FROM %s%s", repo.selection(columns), repo.table, where), &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, columns...)
}

// GetTx reads through the transaction so that rows written or locked by it
// are visible.
func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, columns...)
}

// GetAll lists the rows matching filter. Ordering is applied only when SortBy
// names a column of T, so request input never reaches the query text.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := BuildWhereClause(filter)

	var query strings.Builder

	fmt.Fprintf(&query, "SELECT %s FROM %s%s", repo.selection(columns), repo.table, where)

	if slices.Contains(repo.columns, params.SortBy) && (params.SortDir == dto.SortDirAsc || params.SortDir == dto.SortDirDesc) {
		fmt.Fprintf(&query, " ORDER BY %s.%s %s", repo.table, params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = params.Offset()

		query.WriteString(" LIMIT :limit OFFSET :offset")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query.String())

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query.String())
	if err != nil {
		return nil, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	var models []T

	if err := stmt.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, "list data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	var count int

	where, args := BuildWhereClause(filter)

	if err := repo.one(ctx, scope, repo.db.Read, fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", repo.table, repo.primary, repo.table, where), &count, args); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) delete(ctx context.Context, db runner, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "delete")
	defer scope.End()

	where, args := BuildWhereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	query := "DELETE FROM " + repo.table + where
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := db.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, sqltx, filter)
}

func (repo *Repository[T]) update(ctx context.Context, db runner, changes map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "update")
	defer scope.End()

	if len(changes) == 0 {
		return ErrEmptyUpdate
	}

	where, args := BuildWhereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	assignments := make([]string, 0, len(changes))

	for _, col := range slices.Sorted(maps.Keys(changes)) {
		assignments = append(assignments, col+" = :"+col)
	}

	maps.Copy(args, changes)

	query := fmt.Sprintf("UPDATE %s SET %s%s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := db.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "update data", err)
	}

	return nil
}

// Update sets the columns in changes on every row matching filter. Changed
// column names must not collide with filter argument names.
func (repo *Repository[T]) Update(ctx context.Context, changes map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, changes, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, changes map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, changes, filter)
}

// WithTransaction runs fn inside a write transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (repo *Repository[T]) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, scope := repo.scope(ctx, "WithTransaction")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", repo.entity, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqltx.Rollback()

			panic(p)
		}
	}()

	if err = fn(sqltx); err != nil {
		if rbErr := sqltx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorWithStack(rbErr)
		}

		return err
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) selection(columns []string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(columns) > 0 && !slices.Contains(columns, col) {
			continue
		}

		selected = append(selected, repo.table+"."+col)
	}

	return strings.Join(selected, ", ")
}

// BuildWhereClause renders filter as a WHERE clause with a leading space, or
// nothing when filter is empty.
func BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

func dbColumns(t reflect.Type) []string {
	columns := []string{}

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
