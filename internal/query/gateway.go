package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultFindLimit = 10
	MaxFindLimit     = 50
)

var (
	ErrCollectionNotAllowed = errors.New("collection not allowed")
	ErrFieldNotAllowed      = errors.New("field not allowed")
	ErrOperatorNotAllowed   = errors.New("operator not allowed")
	ErrInvalidFilterValue   = errors.New("invalid filter value")
)

// Filters maps allow-listed field names to either a literal (equality) or an
// operator object such as {"$gte": 10}.
type Filters = map[string]any

type Document map[string]any

type SortField struct {
	Field      string
	Descending bool
}

type FindOptions struct {
	Limit int
	Skip  int
	Sort  []SortField
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type CollectionStats struct {
	Collection   string       `json:"collection"`
	Total        int64        `json:"total"`
	ByStatus     []GroupCount `json:"byStatus,omitempty"`
	ByDepartment []GroupCount `json:"byDepartment,omitempty"`
}

type CollectionInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
}

var operators = map[string]string{
	"$eq":  "=",
	"$ne":  "<>",
	"$gt":  ">",
	"$gte": ">=",
	"$lt":  "<",
	"$lte": "<=",
	"$in":  "IN",
	"$nin": "NOT IN",
}

// Gateway is the read-only, allow-list enforced query boundary used by the HR chatbot
// and the dashboard. Nothing outside the collections table can be reached through it.
type Gateway struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGateway(db *gorm.DB, logger *slog.Logger) *Gateway {
	return &Gateway{db: db, logger: logger}
}

func (g *Gateway) CountDocuments(ctx context.Context, collection string, filters Filters) (int64, error) {
	spec, err := g.resolve(collection)
	if err != nil {
		return 0, err
	}

	q, err := g.applyFilters(g.db.WithContext(ctx).Table(spec.table), spec, filters)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		g.logger.Error("count query failed", "collection", collection, "error", err)
		return 0, err
	}
	return count, nil
}

func (g *Gateway) FindDocuments(ctx context.Context, collection string, filters Filters, opts FindOptions) ([]Document, error) {
	spec, err := g.resolve(collection)
	if err != nil {
		return nil, err
	}

	q, err := g.applyFilters(g.db.WithContext(ctx).Table(spec.table), spec, filters)
	if err != nil {
		return nil, err
	}

	if len(opts.Sort) == 0 {
		q = q.Order(spec.defaultSort)
	}
	for _, s := range opts.Sort {
		f, ok := spec.lookup(s.Field)
		if !ok {
			return nil, g.reject(ErrFieldNotAllowed, spec, fmt.Sprintf("sort field %q is not allowed for collection %s", s.Field, spec.name))
		}
		if s.Descending {
			q = q.Order(f.column + " DESC")
		} else {
			q = q.Order(f.column + " ASC")
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	}
	if limit > MaxFindLimit {
		limit = MaxFindLimit
	}
	skip := opts.Skip
	if skip < 0 {
		skip = 0
	}

	rows, err := q.Select(spec.columns()).Limit(limit).Offset(skip).Rows()
	if err != nil {
		g.logger.Error("find query failed", "collection", collection, "error", err)
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		values := make([]any, len(spec.fields))
		ptrs := make([]any, len(spec.fields))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		doc := make(Document, len(spec.fields))
		for i, f := range spec.fields {
			doc[f.name] = normalize(f.kind, values[i])
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// GetCollectionStats returns the total plus status and department breakdowns where the collection has them.
func (g *Gateway) GetCollectionStats(ctx context.Context, collection string) (*CollectionStats, error) {
	spec, err := g.resolve(collection)
	if err != nil {
		return nil, err
	}

	stats := &CollectionStats{Collection: spec.name}
	if err := g.db.WithContext(ctx).Table(spec.table).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	if spec.status != "" {
		f, _ := spec.lookup(spec.status)
		stats.ByStatus, err = g.groupBy(ctx, spec, f)
		if err != nil {
			return nil, err
		}
	}
	if spec.department != "" {
		f, _ := spec.lookup(spec.department)
		stats.ByDepartment, err = g.groupBy(ctx, spec, f)
		if err != nil {
			return nil, err
		}
	}

	return stats, nil
}

func (g *Gateway) GetCollectionSummary() []CollectionInfo {
	infos := make([]CollectionInfo, 0, len(collectionOrder))
	for _, name := range collectionOrder {
		spec := collections[name]
		infos = append(infos, CollectionInfo{
			Name:        spec.name,
			Description: spec.description,
			Fields:      spec.fieldNames(),
		})
	}
	return infos
}

func (g *Gateway) groupBy(ctx context.Context, spec *collectionSpec, f field) ([]GroupCount, error) {
	rows, err := g.db.WithContext(ctx).
		Table(spec.table).
		Select(f.column + " AS group_key, COUNT(*) AS group_count").
		Group(f.column).
		Order("group_count DESC").
		Rows()
	if err != nil {
		g.logger.Error("group query failed", "collection", spec.name, "field", f.name, "error", err)
		return nil, err
	}
	defer rows.Close()

	var groups []GroupCount
	for rows.Next() {
		var key any
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		groups = append(groups, GroupCount{Key: groupLabel(f.kind, key), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups, nil
}

func (g *Gateway) resolve(collection string) (*collectionSpec, error) {
	spec, ok := collections[collection]
	if !ok {
		g.logger.Warn("query rejected", "collection", collection, "reason", "collection not allowed")
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotAllowed, collection)
	}
	return spec, nil
}

func (g *Gateway) reject(kind error, spec *collectionSpec, detail string) error {
	g.logger.Warn("query rejected", "collection", spec.name, "reason", detail)
	return fmt.Errorf("%w: %s", kind, detail)
}

func (g *Gateway) applyFilters(q *gorm.DB, spec *collectionSpec, filters Filters) (*gorm.DB, error) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		f, ok := spec.lookup(key)
		if !ok {
			return nil, g.reject(ErrFieldNotAllowed, spec, fmt.Sprintf("field %q is not allowed for collection %s", key, spec.name))
		}

		switch cond := filters[key].(type) {
		case nil:
			q = q.Where(f.column + " IS NULL")
		case map[string]any:
			if len(cond) == 0 {
				return nil, g.reject(ErrInvalidFilterValue, spec, fmt.Sprintf("empty condition for field %q", key))
			}
			ops := make([]string, 0, len(cond))
			for op := range cond {
				ops = append(ops, op)
			}
			sort.Strings(ops)
			for _, op := range ops {
				sqlOp, ok := operators[op]
				if !ok {
					return nil, g.reject(ErrOperatorNotAllowed, spec, fmt.Sprintf("operator %q is not allowed", op))
				}
				operand := cond[op]
				if op == "$in" || op == "$nin" {
					list, ok := toList(operand)
					if !ok {
						return nil, g.reject(ErrInvalidFilterValue, spec, fmt.Sprintf("%s on %q expects a list", op, key))
					}
					q = q.Where(fmt.Sprintf("%s %s ?", f.column, sqlOp), list)
					continue
				}
				if !isScalar(operand) {
					return nil, g.reject(ErrInvalidFilterValue, spec, fmt.Sprintf("%s on %q expects a scalar", op, key))
				}
				q = q.Where(fmt.Sprintf("%s %s ?", f.column, sqlOp), operand)
			}
		default:
			if !isScalar(cond) {
				return nil, g.reject(ErrInvalidFilterValue, spec, fmt.Sprintf("unsupported value for field %q", key))
			}
			q = q.Where(f.column+" = ?", cond)
		}
	}
	return q, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func toList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if !isScalar(item) {
				return nil, false
			}
		}
		return list, len(list) > 0
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, len(out) > 0
	default:
		return nil, false
	}
}

// normalize smooths over driver differences: sqlite hands back text as []byte
// and booleans as integers.
func normalize(kind fieldKind, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if kind != kindBool {
		return v
	}
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case string:
		parsed, err := strconv.ParseBool(x)
		return err == nil && parsed
	default:
		return false
	}
}

func groupLabel(kind fieldKind, v any) string {
	v = normalize(kind, v)
	switch x := v.(type) {
	case nil:
		return "Unspecified"
	case bool:
		if x {
			return "Active"
		}
		return "Inactive"
	case string:
		if x == "" {
			return "Unspecified"
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}
