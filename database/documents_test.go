package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/lexent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument(title string, pageCount int) *model.Document {
	return &model.Document{
		Title:     title,
		Source:    "pdfs/" + title + ".pdf",
		PageCount: pageCount,
		Metadata:  model.Metadata{"court": "IACHR"},
	}
}

func TestDocumentsNewDocumentsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewDocumentsDBHandler", func(t *testing.T) {
		documentsDbHandler, err := NewDocumentsDBHandler(database, true)
		assert.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")
		require.NotNil(t, documentsDbHandler, "Expected NewDocumentsDBHandler to return a non-nil instance")
		require.NotNil(t, documentsDbHandler.db.Instance, "Expected NewDocumentsDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewDocumentsDBHandler with nil database", func(t *testing.T) {
		_, err := NewDocumentsDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating DocumentsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestDocumentsInsertAndSelect(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")

	t.Run("Insert document without RID", func(t *testing.T) {
		doc := testDocument("report_121_09", 14)
		doc.RID = uuid.Nil

		err := documentsDbHandler.InsertDocument(doc)
		require.NoError(t, err, "Expected Insert to not return an error")
		assert.NotEqual(t, uuid.Nil, doc.RID, "Expected the database to generate a RID")
		assert.NotZero(t, doc.ID, "Expected inserted document to have an ID")
		assert.WithinDuration(t, time.Now(), doc.CreatedAt, 2*time.Second, "Expected CreatedAt to be set")

		retrieved, err := documentsDbHandler.SelectDocument(doc.RID)
		require.NoError(t, err, "Expected SelectDocument to not return an error")
		assert.Equal(t, "report_121_09", retrieved.Title)
		assert.Equal(t, "pdfs/report_121_09.pdf", retrieved.Source)
		assert.Equal(t, 14, retrieved.PageCount, "Expected page count to be stored")
		assert.Equal(t, "IACHR", retrieved.Metadata["court"], "Expected metadata to be stored")

		// Cleanup
		documentsDbHandler.DeleteDocument(doc.RID)
	})

	t.Run("Insert document with RID and nil metadata", func(t *testing.T) {
		doc := testDocument("petition_1097_06", 3)
		doc.RID = uuid.New()
		doc.Metadata = nil
		rid := doc.RID

		err := documentsDbHandler.InsertDocument(doc)
		require.NoError(t, err)
		assert.Equal(t, rid, doc.RID, "Expected the given RID to be kept")
		assert.NotNil(t, doc.Metadata, "Expected empty metadata instead of nil")
		assert.Empty(t, doc.Metadata)

		// Cleanup
		documentsDbHandler.DeleteDocument(doc.RID)
	})

	t.Run("Select unknown document", func(t *testing.T) {
		_, err := documentsDbHandler.SelectDocument(uuid.New())
		assert.Error(t, err, "Expected an error for an unknown RID")
	})
}

func TestDocumentsSelectAll(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	docs := []*model.Document{}
	for _, title := range []string{"merits_a", "merits_b", "merits_c", "merits_d"} {
		doc := testDocument(title, 1)
		require.NoError(t, documentsDbHandler.InsertDocument(doc))
		docs = append(docs, doc)
	}

	t.Run("Select with limit", func(t *testing.T) {
		page, err := documentsDbHandler.SelectAllDocuments(nil, 3)
		assert.NoError(t, err, "Expected SelectAllDocuments to not return an error")
		assert.Len(t, page, 3, "Expected the limit to be applied")
	})

	t.Run("Select next page", func(t *testing.T) {
		all, err := documentsDbHandler.SelectAllDocuments(nil, 100)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(all), len(docs))

		next, err := documentsDbHandler.SelectAllDocuments(&all[1].CreatedAt, 100)
		require.NoError(t, err)
		for _, doc := range next {
			assert.True(t, doc.CreatedAt.Before(all[1].CreatedAt), "Expected only older documents after the cursor")
		}
	})

	// Cleanup
	for _, doc := range docs {
		documentsDbHandler.DeleteDocument(doc.RID)
	}
}

func TestDocumentsSearch(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	docs := []*model.Document{}
	for _, title := range []string{"admissibility_honduras", "merits_honduras", "friendly_settlement_peru"} {
		doc := testDocument(title, 2)
		require.NoError(t, documentsDbHandler.InsertDocument(doc))
		docs = append(docs, doc)
	}

	t.Run("Search by title", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySearch("honduras", 10)
		assert.NoError(t, err, "Expected SelectDocumentsBySearch to not return an error")
		assert.Len(t, results, 2, "Expected to find only matching documents")
	})

	t.Run("Search with limit", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySearch("honduras", 1)
		assert.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("Search without match", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySearch("zzzzqqqq", 10)
		assert.NoError(t, err)
		assert.Empty(t, results)
	})

	// Cleanup
	for _, doc := range docs {
		documentsDbHandler.DeleteDocument(doc.RID)
	}
}

func TestDocumentsUpdateAndDelete(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	doc := testDocument("draft_report", 0)
	require.NoError(t, documentsDbHandler.InsertDocument(doc))

	t.Run("Update document", func(t *testing.T) {
		doc.Title = "final_report"
		doc.Source = "pdfs/final_report.pdf"
		doc.PageCount = 22
		doc.Metadata = model.Metadata{"court": "IACHR", "final": true}

		err := documentsDbHandler.UpdateDocument(doc)
		assert.NoError(t, err, "Expected UpdateDocument to not return an error")

		retrieved, err := documentsDbHandler.SelectDocument(doc.RID)
		require.NoError(t, err)
		assert.Equal(t, "final_report", retrieved.Title, "Expected title to be updated")
		assert.Equal(t, "pdfs/final_report.pdf", retrieved.Source, "Expected source to be updated")
		assert.Equal(t, 22, retrieved.PageCount, "Expected page count to be updated")
		assert.Equal(t, true, retrieved.Metadata["final"], "Expected metadata to be updated")
	})

	t.Run("Delete document", func(t *testing.T) {
		err := documentsDbHandler.DeleteDocument(doc.RID)
		assert.NoError(t, err, "Expected Delete to not return an error")

		_, err = documentsDbHandler.SelectDocument(doc.RID)
		assert.Error(t, err, "Expected SelectDocument to return an error for deleted document")
	})
}
