package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace/internal/handlers"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
	"marketplace/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// setupApp builds the API on an in-memory SQLite database and an in-memory image store.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := setupAppWithDB(t)
	return app
}

func setupAppWithDB(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := repositories.OpenDatabase("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", zap.NewNop())
	require.NoError(t, err)

	log := zap.NewNop()
	images := storage.NewMemoryStore("http://localhost:8080/images")

	app := handlers.NewApp(handlers.AppDeps{
		Listings:  services.NewListingService(repositories.NewGORMListingRepository(db), nil, log),
		Messages:  services.NewMessageService(repositories.NewGORMMessageRepository(db), nil, log),
		Uploads:   services.NewUploadService(images, nil, log),
		BodyLimit: 16 * 1024 * 1024,
		DBPing: func(ctx context.Context) error {
			return repositories.Ping(ctx, db)
		},
		Images: images,
		Log:    log,
	})
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func bikeRequest() map[string]interface{} {
	return map[string]interface{}{
		"title":        "Bike",
		"description":  "Great bike",
		"price":        50,
		"category":     "sporting-goods",
		"seller_email": "Seller@Example.com ",
	}
}

func createListing(t *testing.T, app *fiber.App, body map[string]interface{}) models.Listing {
	t.Helper()
	resp, env := doJSON(t, app, http.MethodPost, "/api/listings", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var listing models.Listing
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	return listing
}

func TestCreateListingNormalizesAndRoundTrips(t *testing.T) {
	app := setupApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/listings", bikeRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "Listing created successfully", env.Message)

	var created models.Listing
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "seller@example.com", created.SellerEmail)
	assert.Equal(t, "Unknown", created.Location)
	assert.Nil(t, created.ImageURL)
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	resp, env = doJSON(t, app, http.MethodGet, "/api/listings/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Listing retrieved successfully", env.Message)
	assert.Equal(t, "public, max-age=300, s-maxage=600", resp.Header.Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("ETag"), `"`+created.ID+"-"))

	var fetched models.Listing
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	created.CreatedAt, created.UpdatedAt = time.Time{}, time.Time{}
	fetched.CreatedAt, fetched.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, created, fetched)
}

func TestCreateListingValidationFailures(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name    string
		mutate  func(map[string]interface{})
		raw     string
		wantErr string
	}{
		{name: "missing title", mutate: func(b map[string]interface{}) { delete(b, "title") }, wantErr: "Missing required fields"},
		{name: "zero price", mutate: func(b map[string]interface{}) { b["price"] = 0 }, wantErr: "Invalid price"},
		{name: "string price", mutate: func(b map[string]interface{}) { b["price"] = "50" }, wantErr: "Invalid price"},
		{name: "bad email", mutate: func(b map[string]interface{}) { b["seller_email"] = "seller" }, wantErr: "Invalid email"},
		{name: "ftp image", mutate: func(b map[string]interface{}) { b["image_url"] = "ftp://example.com/a.png" }, wantErr: "Invalid image URL"},
		{name: "malformed json", raw: `{"title": `, wantErr: "Invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body interface{} = tt.raw
			if tt.mutate != nil {
				b := bikeRequest()
				tt.mutate(b)
				body = b
			}
			resp, env := doJSON(t, app, http.MethodPost, "/api/listings", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantErr, env.Error)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestGetListingErrors(t *testing.T) {
	app := setupApp(t)

	missing := uuid.NewString()
	resp, env := doJSON(t, app, http.MethodGet, "/api/listings/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Listing not found", env.Error)
	assert.Equal(t, "No listing found with ID: "+missing, env.Message)

	resp, env = doJSON(t, app, http.MethodGet, "/api/listings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid listing ID", env.Error)
}

func TestListListingsFiltersAndCacheHeaders(t *testing.T) {
	app := setupApp(t)

	createListing(t, app, bikeRequest())
	sofa := bikeRequest()
	sofa["title"] = "Sofa"
	sofa["description"] = "Comfy"
	sofa["category"] = "furniture"
	createListing(t, app, sofa)

	resp, env := doJSON(t, app, http.MethodGet, "/api/listings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=60, s-maxage=300", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "category, search", resp.Header.Get("Vary"))
	var all []models.Listing
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, 2)
	assert.Equal(t, "Sofa", all[0].Title)

	_, env = doJSON(t, app, http.MethodGet, "/api/listings?category=furniture", nil)
	var furniture []models.Listing
	require.NoError(t, json.Unmarshal(env.Data, &furniture))
	require.Len(t, furniture, 1)
	assert.Equal(t, "Sofa", furniture[0].Title)

	_, env = doJSON(t, app, http.MethodGet, "/api/listings?category=furniture&search=GREAT", nil)
	var searched []models.Listing
	require.NoError(t, json.Unmarshal(env.Data, &searched))
	require.Len(t, searched, 1)
	assert.Equal(t, "Bike", searched[0].Title)

	_, env = doJSON(t, app, http.MethodGet, "/api/listings?search=piano", nil)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestUpdateAndDeleteListing(t *testing.T) {
	app := setupApp(t)
	created := createListing(t, app, bikeRequest())
	path := "/api/listings/" + created.ID

	resp, env := doJSON(t, app, http.MethodPut, path, map[string]interface{}{"price": 75, "location": "Berlin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Listing updated successfully", env.Message)
	var updated models.Listing
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, float64(75), updated.Price)
	assert.Equal(t, "Berlin", updated.Location)
	assert.Equal(t, "Bike", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	resp, env = doJSON(t, app, http.MethodPut, path, map[string]interface{}{"seller_email": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid email", env.Error)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/listings/"+uuid.NewString(), map[string]interface{}{"price": 10})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Listing deleted successfully", env.Message)
	assert.JSONEq(t, `null`, string(env.Data))

	resp, env = doJSON(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Listing not found", env.Error)
}

func TestMessages(t *testing.T) {
	app := setupApp(t)
	listingID := uuid.NewString()

	resp, env := doJSON(t, app, http.MethodPost, "/api/messages", map[string]interface{}{
		"listing_id":   listingID,
		"buyer_email":  "x@y.com",
		"seller_email": "x@y.com",
		"message":      "hi",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid recipient", env.Error)

	for _, text := range []string{"first", "second"} {
		resp, env = doJSON(t, app, http.MethodPost, "/api/messages", map[string]interface{}{
			"listing_id":   listingID,
			"buyer_email":  "buyer@example.com",
			"seller_email": "Seller@Example.com",
			"message":      "  " + text + "  ",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
		assert.Equal(t, "Message sent successfully", env.Message)
	}

	resp, env = doJSON(t, app, http.MethodGet, "/api/messages?listing_id="+listingID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var messages []models.Message
	require.NoError(t, json.Unmarshal(env.Data, &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Body)
	assert.Equal(t, "second", messages[1].Body)
	assert.Equal(t, "seller@example.com", messages[0].SellerEmail)

	resp, env = doJSON(t, app, http.MethodGet, "/api/messages", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing listing_id", env.Error)

	resp, env = doJSON(t, app, http.MethodPost, "/api/messages", "not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON", env.Error)
}

func multipartRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	app := setupApp(t)
	pixels := []byte("\x89PNG fake image bytes")

	resp, env := do(t, app, multipartRequest(t, "file", "photo.png", "image/png", pixels))
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	assert.Equal(t, "Image uploaded successfully", env.Message)

	var uploaded models.UploadedImage
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	assert.True(t, strings.HasSuffix(uploaded.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/images/"+uploaded.Key, uploaded.URL)

	imgResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/images/"+uploaded.Key, nil), -1)
	require.NoError(t, err)
	defer imgResp.Body.Close()
	assert.Equal(t, http.StatusOK, imgResp.StatusCode)
	assert.Equal(t, "image/png", imgResp.Header.Get("Content-Type"))
	got, err := io.ReadAll(imgResp.Body)
	require.NoError(t, err)
	assert.Equal(t, pixels, got)

	resp, env = doJSON(t, app, http.MethodDelete, "/api/upload/"+uploaded.Key, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/images/"+uploaded.Key, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadImageRejections(t *testing.T) {
	app := setupApp(t)

	resp, env := do(t, app, multipartRequest(t, "file", "notes.txt", "text/plain", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid file type", env.Error)

	resp, env = do(t, app, multipartRequest(t, "other", "photo.png", "image/png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file provided", env.Error)

	oversized := make([]byte, models.MaxImageSize+1)
	resp, env = do(t, app, multipartRequest(t, "file", "big.png", "image/png", oversized))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "File too large", env.Error)

	resp, env = doJSON(t, app, http.MethodPost, "/api/upload", map[string]string{"file": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid form data", env.Error)
}

func TestUploadInfo(t *testing.T) {
	app := setupApp(t)

	resp, env := doJSON(t, app, http.MethodGet, "/api/upload", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Upload configuration retrieved", env.Message)

	var info models.UploadInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, "10MB", info.MaxFileSize)
	assert.Equal(t, "file", info.FieldName)
	assert.Equal(t, "multipart/form-data", info.ContentType)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, map[string]interface{}{"database": "ok"}, health["checks"])

	resp404, env := doJSON(t, app, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, resp404.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestStoreFailuresReturnInternalErrorEnvelope(t *testing.T) {
	app, db := setupAppWithDB(t)
	created := createListing(t, app, bikeRequest())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	tests := []struct {
		name        string
		method      string
		path        string
		body        interface{}
		wantError   string
		wantMessage string
	}{
		{name: "list listings", method: http.MethodGet, path: "/api/listings", wantError: "Failed to fetch listings", wantMessage: "Internal server error"},
		{name: "get listing", method: http.MethodGet, path: "/api/listings/" + created.ID, wantError: "Failed to fetch listing", wantMessage: "Internal server error"},
		{name: "create listing", method: http.MethodPost, path: "/api/listings", body: bikeRequest(), wantError: "Failed to create listing", wantMessage: "Database operation failed"},
		{name: "update listing", method: http.MethodPut, path: "/api/listings/" + created.ID, body: map[string]interface{}{"price": 10}, wantError: "Failed to update listing", wantMessage: "Database operation failed"},
		{name: "delete listing", method: http.MethodDelete, path: "/api/listings/" + created.ID, wantError: "Failed to delete listing", wantMessage: "Database operation failed"},
		{name: "list messages", method: http.MethodGet, path: "/api/messages?listing_id=" + created.ID, wantError: "Failed to fetch messages", wantMessage: "Internal server error"},
		{name: "send message", method: http.MethodPost, path: "/api/messages", body: map[string]interface{}{
			"listing_id":   created.ID,
			"buyer_email":  "buyer@example.com",
			"seller_email": "seller@example.com",
			"message":      "hi",
		}, wantError: "Failed to send message", wantMessage: "Database operation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantError, env.Error)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
