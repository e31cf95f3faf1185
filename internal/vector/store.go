package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/weaviate/weaviate/entities/models"
)

// Client defines the Weaviate operations the store depends on
type Client interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	DeleteClass(ctx context.Context, className string) error
	InsertObject(ctx context.Context, className, id string, vector []float32, properties map[string]interface{}) error
	DeleteByDocument(ctx context.Context, className string, documentID int64) error
	NearVector(ctx context.Context, className string, vector []float32, limit int) ([]Hit, error)
}

// Payload is the metadata stored alongside each vector.
type Payload struct {
	ChunkID    int64
	DocumentID int64
	Content    string
	Metadata   map[string]interface{}
}

// Hit is a single search result.
type Hit struct {
	ChunkID    int64
	DocumentID int64
	Content    string
	Metadata   map[string]interface{}
	Distance   float32
}

type DimensionMismatchError struct {
	Collection string
	Want       int
	Got        int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("collection %s expects %d-dimensional vectors, got %d", e.Collection, e.Want, e.Got)
}

type CollectionNotReadyError struct {
	Collection string
}

func (e *CollectionNotReadyError) Error() string {
	return fmt.Sprintf("collection %s has no vectors yet", e.Collection)
}

// CollectionName derives the class name for a knowledge base.
// Weaviate class names must start with an uppercase letter.
func CollectionName(kbID int64) string {
	return fmt.Sprintf("Kb%d", kbID)
}

type collectionStatus int

const (
	statusPending collectionStatus = iota + 1
	statusInitialized
)

type collectionState struct {
	status collectionStatus
	dim    int
}

// Store manages one Weaviate class per knowledge base. Classes are created
// lazily: EnsureCollection only records intent, and the class is provisioned
// when the first vector arrives, which fixes the dimensionality for the
// lifetime of the collection.
type Store struct {
	client   Client
	distance string

	mu          sync.Mutex
	collections map[string]*collectionState
}

func NewStore(client Client, distance string) *Store {
	return &Store{
		client:      client,
		distance:    distance,
		collections: make(map[string]*collectionState),
	}
}

// EnsureCollection registers a collection without creating anything remotely.
// Calling it again for a known collection is a no-op.
func (s *Store) EnsureCollection(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = &collectionState{status: statusPending}
	}
}

// AddVector inserts a vector with its payload, provisioning the class on
// first use. The mutex is held across provisioning so concurrent first
// inserts cannot both create the class; later inserts only take it for the
// dimension check.
func (s *Store) AddVector(ctx context.Context, collection, id string, vector []float32, payload Payload) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for collection %s", collection)
	}

	s.mu.Lock()
	state, ok := s.collections[collection]
	if !ok {
		state = &collectionState{status: statusPending}
		s.collections[collection] = state
	}
	switch state.status {
	case statusPending:
		if err := s.provision(ctx, collection); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("provision collection %s: %w", collection, err)
		}
		state.status = statusInitialized
		state.dim = len(vector)
	case statusInitialized:
		if state.dim != len(vector) {
			s.mu.Unlock()
			return &DimensionMismatchError{Collection: collection, Want: state.dim, Got: len(vector)}
		}
	}
	s.mu.Unlock()

	props, err := payload.properties()
	if err != nil {
		return fmt.Errorf("encode payload for chunk %d: %w", payload.ChunkID, err)
	}
	return s.client.InsertObject(ctx, collection, id, vector, props)
}

// Search runs a nearest-neighbour query. A collection that has not received
// any vectors yet returns CollectionNotReadyError.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error) {
	s.mu.Lock()
	state, ok := s.collections[collection]
	ready := ok && state.status == statusInitialized
	s.mu.Unlock()

	if !ready {
		return nil, &CollectionNotReadyError{Collection: collection}
	}
	return s.client.NearVector(ctx, collection, vector, limit)
}

// DeleteDocument removes every vector belonging to a document. Collections
// that were never provisioned have nothing to delete.
func (s *Store) DeleteDocument(ctx context.Context, collection string, documentID int64) error {
	s.mu.Lock()
	state, ok := s.collections[collection]
	ready := ok && state.status == statusInitialized
	s.mu.Unlock()

	if !ready {
		return nil
	}
	return s.client.DeleteByDocument(ctx, collection, documentID)
}

// DropCollection deletes the class and forgets its state.
func (s *Store) DropCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	state, ok := s.collections[collection]
	provisioned := ok && state.status == statusInitialized
	delete(s.collections, collection)
	s.mu.Unlock()

	if !provisioned {
		return nil
	}
	return s.client.DeleteClass(ctx, collection)
}

func (s *Store) provision(ctx context.Context, collection string) error {
	exists, err := s.client.ClassExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:      collection,
		Vectorizer: "none",
		VectorIndexConfig: map[string]interface{}{
			"distance": s.distance,
		},
		Properties: []*models.Property{
			{
				Name:            "chunkId",
				DataType:        []string{"int"},
				IndexFilterable: boolPtr(true),
			},
			{
				Name:            "documentId",
				DataType:        []string{"int"},
				IndexFilterable: boolPtr(true),
			},
			{
				Name:     "content",
				DataType: []string{"text"},
			},
			{
				Name:     "metadata",
				DataType: []string{"text"},
			},
		},
	}
	return s.client.CreateClass(ctx, class)
}

func (p Payload) properties() (map[string]interface{}, error) {
	metadata := "{}"
	if len(p.Metadata) > 0 {
		raw, err := json.Marshal(p.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = string(raw)
	}
	return map[string]interface{}{
		"chunkId":    p.ChunkID,
		"documentId": p.DocumentID,
		"content":    p.Content,
		"metadata":   metadata,
	}, nil
}

func boolPtr(b bool) *bool { return &b }
