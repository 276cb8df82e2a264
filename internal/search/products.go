package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

type productDoc struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

func toDoc(p models.Product) productDoc {
	price, _ := p.Price.Float64()
	return productDoc{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         price,
		StockQuantity: p.StockQuantity,
	}
}

// ProductIndex keeps products searchable in one Elasticsearch index.
type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{ES: es, Index: index}
}

func (x *ProductIndex) IndexProducts(ctx context.Context, products []models.Product) error {
	for _, p := range products {
		body, err := json.Marshal(toDoc(p))
		if err != nil {
			return fmt.Errorf("encode product %s: %w", p.ID, err)
		}

		res, err := x.ES.Index(
			x.Index,
			bytes.NewReader(body),
			x.ES.Index.WithContext(ctx),
			x.ES.Index.WithDocumentID(p.ID.String()),
			x.ES.Index.WithRefresh("true"),
		)
		if err != nil {
			return fmt.Errorf("index product %s: %w", p.ID, err)
		}
		if res.IsError() {
			msg, _ := io.ReadAll(res.Body)
			res.Body.Close()
			return fmt.Errorf("index product %s: %s: %s", p.ID, res.Status(), msg)
		}
		res.Body.Close()
	}
	return nil
}

func buildQuery(q string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseHits(body io.Reader) ([]uuid.UUID, int64, error) {
	var r searchResponse
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, r.Hits.Total.Value, nil
}

// SearchIDs returns the ids of the best matches for q, in rank order, and the
// total hit count.
func (x *ProductIndex) SearchIDs(ctx context.Context, q string, from, size int) ([]uuid.UUID, int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(q, from, size)); err != nil {
		return nil, 0, fmt.Errorf("encode query: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, 0, fmt.Errorf("search: %s: %s", res.Status(), msg)
	}

	return parseHits(res.Body)
}
