package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"portfolio-site/internal/baas"
)

type documentStore struct {
	b       *Backend
	session baas.Session
}

const documentColumns = `id, data, created_at, updated_at`

// buildListSQL renders a list query. Attribute names are bound as parameters.
func buildListSQL(collection string, q baas.Query) (string, []any) {
	var sb strings.Builder
	args := []any{collection}
	sb.WriteString(`SELECT ` + documentColumns + `, count(*) OVER() AS total FROM documents WHERE collection = $1`)
	for _, f := range q.Filters {
		args = append(args, f.Attribute, fmt.Sprint(f.Value))
		fmt.Fprintf(&sb, ` AND data->>$%d = $%d`, len(args)-1, len(args))
	}
	if q.NewestFirst {
		sb.WriteString(` ORDER BY created_at DESC, seq DESC`)
	} else {
		sb.WriteString(` ORDER BY seq ASC`)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}
	return sb.String(), args
}

func (d *documentStore) List(ctx context.Context, collection string, q baas.Query) (baas.DocumentList, error) {
	if err := d.b.allow(ctx, d.session, collection, baas.OpRead); err != nil {
		return baas.DocumentList{}, err
	}
	query, args := buildListSQL(collection, q)
	rows, err := d.b.db.Query(ctx, query, args...)
	if err != nil {
		return baas.DocumentList{}, dbError(err)
	}
	defer rows.Close()

	list := baas.DocumentList{Documents: []baas.Document{}}
	for rows.Next() {
		var (
			doc   baas.Document
			raw   []byte
			total int
		)
		if err := rows.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt, &total); err != nil {
			return baas.DocumentList{}, dbError(err)
		}
		if err := decodeData(&doc, collection, raw); err != nil {
			return baas.DocumentList{}, err
		}
		list.Total = total
		list.Documents = append(list.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return baas.DocumentList{}, dbError(err)
	}
	return list, nil
}

func (d *documentStore) Get(ctx context.Context, collection, id string) (baas.Document, error) {
	if err := d.b.allow(ctx, d.session, collection, baas.OpRead); err != nil {
		return baas.Document{}, err
	}
	return scanDocument(collection, d.b.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE collection = $1 AND id = $2`,
		collection, id))
}

func (d *documentStore) Create(ctx context.Context, collection, id string, data map[string]any) (baas.Document, error) {
	if err := d.b.allow(ctx, d.session, collection, baas.OpCreate); err != nil {
		return baas.Document{}, err
	}
	if id == "" {
		id = baas.UniqueID()
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return baas.Document{}, fmt.Errorf("encode document: %w", err)
	}
	return scanDocument(collection, d.b.db.QueryRow(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING `+documentColumns,
		collection, id, string(payload)))
}

// Update merges the partial data into the stored document.
func (d *documentStore) Update(ctx context.Context, collection, id string, data map[string]any) (baas.Document, error) {
	if err := d.b.allow(ctx, d.session, collection, baas.OpUpdate); err != nil {
		return baas.Document{}, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return baas.Document{}, fmt.Errorf("encode document: %w", err)
	}
	return scanDocument(collection, d.b.db.QueryRow(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2
		RETURNING `+documentColumns,
		collection, id, string(payload)))
}

func (d *documentStore) Delete(ctx context.Context, collection, id string) error {
	if err := d.b.allow(ctx, d.session, collection, baas.OpDelete); err != nil {
		return err
	}
	tag, err := d.b.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return dbError(err)
	}
	if tag.RowsAffected() == 0 {
		return baas.ErrNotFound
	}
	return nil
}

func scanDocument(collection string, row pgx.Row) (baas.Document, error) {
	var (
		doc baas.Document
		raw []byte
	)
	if err := row.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return baas.Document{}, dbError(err)
	}
	if err := decodeData(&doc, collection, raw); err != nil {
		return baas.Document{}, err
	}
	return doc, nil
}

func decodeData(doc *baas.Document, collection string, raw []byte) error {
	doc.Collection = collection
	doc.Data = map[string]any{}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return fmt.Errorf("%w: decode document %s: %w", baas.ErrUnavailable, doc.ID, err)
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return nil
}
