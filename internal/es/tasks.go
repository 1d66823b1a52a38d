package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/taskhub/internal/transport"
)

type TaskIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewTaskIndex(client *elasticsearch.Client, index string) *TaskIndex {
	return &TaskIndex{client: client, index: index}
}

func (ti *TaskIndex) IndexTask(ctx context.Context, doc transport.TaskDocument) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("es: encode task %d: %w", doc.ID, err)
	}

	res, err := ti.client.Index(
		ti.index,
		&buf,
		ti.client.Index.WithContext(ctx),
		ti.client.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index task %d: %w", doc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index task", res.Status(), res.Body)
	}
	return nil
}

func (ti *TaskIndex) DeleteTask(ctx context.Context, id uint) error {
	res, err := ti.client.Delete(
		ti.index,
		strconv.FormatUint(uint64(id), 10),
		ti.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete task %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete task", res.Status(), res.Body)
	}
	return nil
}

// SearchTasks runs a fuzzy match over title and description restricted to one project.
func (ti *TaskIndex) SearchTasks(ctx context.Context, projectID uint, query string, from, size int) (int64, []transport.TaskDocument, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"project_id": projectID},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := ti.client.Search(
		ti.client.Search.WithContext(ctx),
		ti.client.Search.WithIndex(ti.index),
		ti.client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source transport.TaskDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	docs := make([]transport.TaskDocument, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(body)
	return fmt.Errorf("es: %s: %s: %s", op, status, b)
}
