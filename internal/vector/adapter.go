package vector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

type WeaviateClientAdapter struct {
	Client *weaviate.Client
}

func NewWeaviateClientAdapter(client *weaviate.Client) *WeaviateClientAdapter {
	return &WeaviateClientAdapter{Client: client}
}

func (a *WeaviateClientAdapter) ClassExists(ctx context.Context, className string) (bool, error) {
	return a.Client.Schema().ClassExistenceChecker().WithClassName(className).Do(ctx)
}

func (a *WeaviateClientAdapter) CreateClass(ctx context.Context, class *models.Class) error {
	return a.Client.Schema().ClassCreator().WithClass(class).Do(ctx)
}

func (a *WeaviateClientAdapter) DeleteClass(ctx context.Context, className string) error {
	return a.Client.Schema().ClassDeleter().WithClassName(className).Do(ctx)
}

func (a *WeaviateClientAdapter) InsertObject(ctx context.Context, className, id string, vector []float32, properties map[string]interface{}) error {
	_, err := a.Client.Data().Creator().
		WithClassName(className).
		WithID(id).
		WithProperties(properties).
		WithVector(vector).
		Do(ctx)
	return err
}

func (a *WeaviateClientAdapter) DeleteByDocument(ctx context.Context, className string, documentID int64) error {
	_, err := a.Client.Batch().ObjectsBatchDeleter().
		WithClassName(className).
		WithOutput("minimal").
		WithWhere(filters.Where().
			WithPath([]string{"documentId"}).
			WithOperator(filters.Equal).
			WithValueInt(documentID)).
		Do(ctx)
	return err
}

func (a *WeaviateClientAdapter) NearVector(ctx context.Context, className string, vector []float32, limit int) ([]Hit, error) {
	nearVector := a.Client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	fields := []graphql.Field{
		{Name: "chunkId"},
		{Name: "documentId"},
		{Name: "content"},
		{Name: "metadata"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}

	res, err := a.Client.GraphQL().Get().
		WithClassName(className).
		WithNearVector(nearVector).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var hits []Hit
	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if objects, ok := data[className].([]interface{}); ok {
			for _, o := range objects {
				props, ok := o.(map[string]interface{})
				if !ok {
					continue
				}
				var hit Hit
				if chunkID, ok := props["chunkId"].(float64); ok {
					hit.ChunkID = int64(chunkID)
				}
				if documentID, ok := props["documentId"].(float64); ok {
					hit.DocumentID = int64(documentID)
				}
				if content, ok := props["content"].(string); ok {
					hit.Content = content
				}
				if metadata, ok := props["metadata"].(string); ok && metadata != "" {
					var parsed map[string]interface{}
					if err := json.Unmarshal([]byte(metadata), &parsed); err == nil {
						hit.Metadata = parsed
					}
				}
				if additional, ok := props["_additional"].(map[string]interface{}); ok {
					if distance, ok := additional["distance"].(float64); ok {
						hit.Distance = float32(distance)
					}
				}
				hits = append(hits, hit)
			}
		}
	}
	return hits, nil
}
