package appwrite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio-site/internal/baas"
)

type documentStore struct {
	c        *client
	database string
	session  baas.Session
}

type documentListResponse struct {
	Total     int                          `json:"total"`
	Documents []map[string]json.RawMessage `json:"documents"`
}

func (d *documentStore) path(collection string, id ...string) string {
	p := "/databases/" + url.PathEscape(d.database) + "/collections/" + url.PathEscape(collection) + "/documents"
	if len(id) > 0 {
		p += "/" + url.PathEscape(id[0])
	}
	return p
}

func (d *documentStore) List(ctx context.Context, collection string, q baas.Query) (baas.DocumentList, error) {
	queries, err := encodeQuery(q)
	if err != nil {
		return baas.DocumentList{}, err
	}
	var resp documentListResponse
	if _, err := d.c.do(ctx, request{
		method:  http.MethodGet,
		path:    d.path(collection),
		query:   url.Values{"queries[]": queries},
		session: d.session,
	}, &resp); err != nil {
		return baas.DocumentList{}, err
	}

	list := baas.DocumentList{Total: resp.Total, Documents: make([]baas.Document, 0, len(resp.Documents))}
	for _, raw := range resp.Documents {
		doc, err := parseDocument(raw)
		if err != nil {
			return baas.DocumentList{}, err
		}
		list.Documents = append(list.Documents, doc)
	}
	return list, nil
}

func (d *documentStore) Get(ctx context.Context, collection, id string) (baas.Document, error) {
	var raw map[string]json.RawMessage
	if _, err := d.c.do(ctx, request{method: http.MethodGet, path: d.path(collection, id), session: d.session}, &raw); err != nil {
		return baas.Document{}, err
	}
	return parseDocument(raw)
}

func (d *documentStore) Create(ctx context.Context, collection, id string, data map[string]any) (baas.Document, error) {
	if id == "" {
		id = "unique()"
	}
	body, err := jsonBody(map[string]any{"documentId": id, "data": data})
	if err != nil {
		return baas.Document{}, err
	}
	var raw map[string]json.RawMessage
	if _, err := d.c.do(ctx, request{method: http.MethodPost, path: d.path(collection), body: body, session: d.session}, &raw); err != nil {
		return baas.Document{}, err
	}
	return parseDocument(raw)
}

func (d *documentStore) Update(ctx context.Context, collection, id string, data map[string]any) (baas.Document, error) {
	body, err := jsonBody(map[string]any{"data": data})
	if err != nil {
		return baas.Document{}, err
	}
	var raw map[string]json.RawMessage
	if _, err := d.c.do(ctx, request{method: http.MethodPatch, path: d.path(collection, id), body: body, session: d.session}, &raw); err != nil {
		return baas.Document{}, err
	}
	return parseDocument(raw)
}

func (d *documentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := d.c.do(ctx, request{method: http.MethodDelete, path: d.path(collection, id), session: d.session}, nil)
	return err
}

type queryJSON struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// encodeQuery renders q in Appwrite's JSON query syntax.
func encodeQuery(q baas.Query) ([]string, error) {
	var parts []queryJSON
	for _, f := range q.Filters {
		parts = append(parts, queryJSON{Method: "equal", Attribute: f.Attribute, Values: []any{f.Value}})
	}
	if q.NewestFirst {
		parts = append(parts, queryJSON{Method: "orderDesc", Attribute: baas.AttrCreatedAt})
	}
	if q.Limit > 0 {
		parts = append(parts, queryJSON{Method: "limit", Values: []any{q.Limit}})
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode query: %w", err)
		}
		out = append(out, string(data))
	}
	return out, nil
}

// parseDocument lifts the $-prefixed system attributes out of the user data.
func parseDocument(raw map[string]json.RawMessage) (baas.Document, error) {
	doc := baas.Document{Data: make(map[string]any, len(raw))}
	for key, value := range raw {
		if !strings.HasPrefix(key, "$") {
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return baas.Document{}, fmt.Errorf("%w: decode attribute %s: %w", baas.ErrUnavailable, key, err)
			}
			doc.Data[key] = v
			continue
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			continue // $permissions and other non-string system fields
		}
		switch key {
		case "$id":
			doc.ID = s
		case "$collectionId":
			doc.Collection = s
		case "$createdAt":
			doc.CreatedAt = parseTime(s)
		case "$updatedAt":
			doc.UpdatedAt = parseTime(s)
		}
	}
	return doc, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
