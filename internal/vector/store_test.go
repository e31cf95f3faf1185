package vector

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"
)

type fakeClient struct {
	mu            sync.Mutex
	existing      map[string]bool
	createdClass  []*models.Class
	deletedClass  []string
	inserted      []insertedObject
	deletedDocs   []int64
	nearVectorRes []Hit
	insertErr     error
}

type insertedObject struct {
	className  string
	id         string
	vector     []float32
	properties map[string]interface{}
}

func (f *fakeClient) ClassExists(_ context.Context, className string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[className], nil
}

func (f *fakeClient) CreateClass(_ context.Context, class *models.Class) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdClass = append(f.createdClass, class)
	return nil
}

func (f *fakeClient) DeleteClass(_ context.Context, className string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedClass = append(f.deletedClass, className)
	return nil
}

func (f *fakeClient) InsertObject(_ context.Context, className, id string, vector []float32, properties map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, insertedObject{className, id, vector, properties})
	return nil
}

func (f *fakeClient) DeleteByDocument(_ context.Context, _ string, documentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedDocs = append(f.deletedDocs, documentID)
	return nil
}

func (f *fakeClient) NearVector(_ context.Context, _ string, _ []float32, _ int) ([]Hit, error) {
	return f.nearVectorRes, nil
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "Kb42", CollectionName(42))
}

func TestAddVectorProvisionsOnFirstInsert(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, "cosine")
	store.EnsureCollection("Kb1")

	err := store.AddVector(context.Background(), "Kb1", "id-1", []float32{0.1, 0.2, 0.3}, Payload{
		ChunkID:    7,
		DocumentID: 3,
		Content:    "hello",
		Metadata:   map[string]interface{}{"file_name": "a.txt"},
	})
	require.NoError(t, err)

	require.Len(t, client.createdClass, 1)
	class := client.createdClass[0]
	assert.Equal(t, "Kb1", class.Class)
	assert.Equal(t, "none", class.Vectorizer)
	assert.Equal(t, map[string]interface{}{"distance": "cosine"}, class.VectorIndexConfig)

	names := make([]string, 0, len(class.Properties))
	for _, p := range class.Properties {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"chunkId", "documentId", "content", "metadata"}, names)

	require.Len(t, client.inserted, 1)
	obj := client.inserted[0]
	assert.Equal(t, "id-1", obj.id)
	assert.Equal(t, int64(7), obj.properties["chunkId"])
	assert.Equal(t, int64(3), obj.properties["documentId"])
	assert.Equal(t, "hello", obj.properties["content"])
	assert.JSONEq(t, `{"file_name":"a.txt"}`, obj.properties["metadata"].(string))
}

func TestAddVectorWithoutEnsure(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, "cosine")

	err := store.AddVector(context.Background(), "Kb9", "id-1", []float32{0.5}, Payload{ChunkID: 1})
	require.NoError(t, err)
	assert.Len(t, client.createdClass, 1)
}

func TestAddVectorDimensionMismatch(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, "cosine")

	require.NoError(t, store.AddVector(context.Background(), "Kb1", "a", []float32{1, 2, 3}, Payload{ChunkID: 1}))

	err := store.AddVector(context.Background(), "Kb1", "b", []float32{1, 2}, Payload{ChunkID: 2})
	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Want)
	assert.Equal(t, 2, mismatch.Got)

	// class is created once, failed insert never reaches the client
	assert.Len(t, client.createdClass, 1)
	assert.Len(t, client.inserted, 1)
}

func TestAddVectorEmptyVector(t *testing.T) {
	store := NewStore(&fakeClient{}, "cosine")
	err := store.AddVector(context.Background(), "Kb1", "a", nil, Payload{})
	assert.Error(t, err)
}

func TestAddVectorConcurrentFirstInsert(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, "cosine")
	store.EnsureCollection("Kb1")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AddVector(context.Background(), "Kb1", "x", []float32{1, 2}, Payload{ChunkID: 1})
		}()
	}
	wg.Wait()

	assert.Len(t, client.createdClass, 1)
	assert.Len(t, client.inserted, 16)
}

func TestProvisionSkipsExistingClass(t *testing.T) {
	client := &fakeClient{existing: map[string]bool{"Kb1": true}}
	store := NewStore(client, "cosine")

	require.NoError(t, store.AddVector(context.Background(), "Kb1", "a", []float32{1}, Payload{ChunkID: 1}))
	assert.Empty(t, client.createdClass)
	assert.Len(t, client.inserted, 1)
}

func TestSearchBeforeFirstVector(t *testing.T) {
	store := NewStore(&fakeClient{}, "cosine")
	store.EnsureCollection("Kb1")

	_, err := store.Search(context.Background(), "Kb1", []float32{1, 2}, 5)
	var notReady *CollectionNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, "Kb1", notReady.Collection)
}

func TestSearchAfterFirstVector(t *testing.T) {
	client := &fakeClient{nearVectorRes: []Hit{{ChunkID: 1, Content: "hello"}}}
	store := NewStore(client, "cosine")
	require.NoError(t, store.AddVector(context.Background(), "Kb1", "a", []float32{1, 2}, Payload{ChunkID: 1}))

	hits, err := store.Search(context.Background(), "Kb1", []float32{1, 2}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "hello", hits[0].Content)
}

func TestDeleteDocumentBeforeProvisioning(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, "cosine")
	store.EnsureCollection("Kb1")

	require.NoError(t, store.DeleteDocument(context.Background(), "Kb1", 3))
	assert.Empty(t, client.deletedDocs)
}

func TestDeleteDocumentAfterProvisioning(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, "cosine")
	require.NoError(t, store.AddVector(context.Background(), "Kb1", "a", []float32{1}, Payload{ChunkID: 1, DocumentID: 3}))

	require.NoError(t, store.DeleteDocument(context.Background(), "Kb1", 3))
	assert.Equal(t, []int64{3}, client.deletedDocs)
}

func TestDropCollection(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, "cosine")

	// pending collections are forgotten without a remote call
	store.EnsureCollection("Kb1")
	require.NoError(t, store.DropCollection(context.Background(), "Kb1"))
	assert.Empty(t, client.deletedClass)

	require.NoError(t, store.AddVector(context.Background(), "Kb2", "a", []float32{1}, Payload{ChunkID: 1}))
	require.NoError(t, store.DropCollection(context.Background(), "Kb2"))
	assert.Equal(t, []string{"Kb2"}, client.deletedClass)

	// a dropped collection starts over as pending
	_, err := store.Search(context.Background(), "Kb2", []float32{1}, 1)
	var notReady *CollectionNotReadyError
	assert.True(t, errors.As(err, &notReady))
}
