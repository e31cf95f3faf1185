package document_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomekeeper/backend/features/document"
	"tomekeeper/backend/features/kb"
	"tomekeeper/backend/internal/testutils"
)

func TestDocumentRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := testutils.NewIntegrationSuite(t)
	s.Setup()
	defer s.Teardown()

	ctx := context.Background()
	kbRepo := kb.NewPostgresRepo(s.DB)
	docRepo := document.NewPostgresRepo(s.DB)

	base := &kb.KnowledgeBase{Name: "Research"}
	require.NoError(t, kbRepo.Save(ctx, base))

	doc := &document.Document{
		KnowledgeBaseID: base.ID,
		FileName:        "notes.txt",
		FileType:        "txt",
		FilePath:        "/data/uploads/notes.txt",
		Status:          document.StatusUploaded,
	}
	require.NoError(t, docRepo.Save(ctx, doc))
	require.NotZero(t, doc.ID)

	// duplicate names inside one knowledge base are visible
	exists, err := docRepo.ExistsByName(ctx, base.ID, "notes.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = docRepo.ExistsByName(ctx, base.ID, "other.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// chunk ordering follows chunk_index
	for i, content := range []string{"first", "second", "third"} {
		c := &document.Chunk{
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    content,
			VectorID:   "00000000-0000-0000-0000-00000000000" + string(rune('1'+i)),
		}
		require.NoError(t, docRepo.InsertChunk(ctx, c))
	}

	chunks, err := docRepo.ListChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, "third", chunks[2].Content)

	// status updates stick
	require.NoError(t, docRepo.SetStatus(ctx, doc.ID, document.StatusProcessed))
	got, err := docRepo.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusProcessed, got.Status)

	// cascade: deleting the knowledge base removes documents and chunks
	require.NoError(t, kbRepo.Delete(ctx, base.ID))
	_, err = docRepo.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, document.ErrNotFound)

	count, err := docRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
