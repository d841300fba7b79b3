package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadDocument pushes a small file through the multipart endpoint and
// returns the created document payload.
func uploadDocument(t *testing.T, app *fiber.App, token, filename, category string, content []byte) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if category != "" {
		require.NoError(t, writer.WriteField("category", category))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	doc, ok := body["document"].(map[string]interface{})
	require.True(t, ok)
	return doc
}

func TestUploadDocumentMetadata(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, _ := signupUser(t, app, "Uploader One")

	doc := uploadDocument(t, app, token, "report.pdf", "Finance", []byte("pdf-bytes"))
	assert.Equal(t, "report.pdf", doc["name"])
	assert.Equal(t, "PDF", doc["type"])
	assert.Equal(t, "0.00 MB", doc["size"])
	assert.Equal(t, "Finance", doc["category"])
	assert.Equal(t, "Uploader One", doc["uploadedBy"])
	assert.NotEmpty(t, doc["path"])

	// category defaults when the field is absent
	doc = uploadDocument(t, app, token, "notes.txt", "", []byte("notes"))
	assert.Equal(t, "General", doc["category"])
	assert.Equal(t, "TXT", doc["type"])
}

func TestUploadDocumentMissingFile(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, _ := signupUser(t, app, "Uploader Two")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("category", "Finance"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadDocument(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, _ := signupUser(t, app, "Downloader")
	content := []byte("quarterly numbers")
	doc := uploadDocument(t, app, token, "numbers.csv", "Finance", content)
	docID := doc["id"].(string)

	resp, err := app.Test(jsonRequest("GET", "/api/documents/download/"+docID, nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	disposition := resp.Header.Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, `"numbers.csv"`)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
}

func TestDownloadExtensionlessDocument(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, _ := signupUser(t, app, "Downloader Three")
	doc := uploadDocument(t, app, token, "README", "General", []byte("plain notes"))
	docID := doc["id"].(string)

	resp, err := app.Test(jsonRequest("GET", "/api/documents/download/"+docID, nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the attachment filename always carries an extension
	disposition := resp.Header.Get("Content-Disposition")
	assert.Contains(t, disposition, `"README.bin"`)
}

func TestDownloadDocumentNotFound(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, _ := signupUser(t, app, "Downloader Two")

	resp, err := app.Test(jsonRequest("GET", "/api/documents/download/64f0000000000000000000bb", nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest("GET", "/api/documents/download/not-an-id", nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteDocumentKeepsFileOnDisk(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, _ := signupUser(t, app, "Deleter")
	doc := uploadDocument(t, app, token, "old-policy.pdf", "HR", []byte("obsolete"))
	docID := doc["id"].(string)
	path := doc["path"].(string)

	resp, err := app.Test(jsonRequest("DELETE", "/api/documents/delete/"+docID, nil, token), -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the metadata row is gone but the stored file stays behind
	resp, err = app.Test(jsonRequest("GET", "/api/documents/download/"+docID, nil, token), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = os.Stat(path)
	assert.NoError(t, err, "stored file should remain on disk after metadata deletion")

	// deleting twice reports not found
	resp, err = app.Test(jsonRequest("DELETE", "/api/documents/delete/"+docID, nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListDocumentsNewestFirst(t *testing.T) {
	requireDB(t)
	app := createTestApp()

	token, _ := signupUser(t, app, "Lister")
	uploadDocument(t, app, token, "first.txt", "General", []byte("a"))
	time.Sleep(5 * time.Millisecond) // uploadDate has millisecond precision
	uploadDocument(t, app, token, "second.txt", "General", []byte("b"))

	resp, err := app.Test(jsonRequest("GET", "/api/documents", nil, token), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	docs := body["documents"].([]interface{})
	require.GreaterOrEqual(t, len(docs), 2)

	// scan for our two uploads; the later one must come first
	firstIdx, secondIdx := -1, -1
	for i, raw := range docs {
		doc := raw.(map[string]interface{})
		switch doc["name"] {
		case "first.txt":
			if firstIdx == -1 {
				firstIdx = i
			}
		case "second.txt":
			if secondIdx == -1 {
				secondIdx = i
			}
		}
	}
	require.NotEqual(t, -1, firstIdx)
	require.NotEqual(t, -1, secondIdx)
	assert.Less(t, secondIdx, firstIdx)
}
