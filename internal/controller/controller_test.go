package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"citystyle-be/internal/dto"
	"citystyle-be/internal/pkg/logger"
	"citystyle-be/pkg/outfit"
	"citystyle-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRagService struct {
	res *dto.PerformRagResponse
	err error
	got *dto.PerformRagRequest
}

func (f *fakeRagService) PerformRag(ctx context.Context, req *dto.PerformRagRequest) (*dto.PerformRagResponse, error) {
	f.got = req
	return f.res, f.err
}

type fakeOutfitService struct {
	res *dto.GenerateOutfitResponse
	err error
	got *dto.GenerateOutfitRequest
}

func (f *fakeOutfitService) GenerateOutfit(ctx context.Context, req *dto.GenerateOutfitRequest) (*dto.GenerateOutfitResponse, error) {
	f.got = req
	return f.res, f.err
}

func newTestApp(ragSvc *fakeRagService, outfitSvc *fakeOutfitService) *fiber.App {
	app := fiber.New()
	NewRagController(ragSvc, logger.NewNopLogger()).RegisterRoutes(app)
	NewOutfitController(outfitSvc, logger.NewNopLogger()).RegisterRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestRagController_PerformRag(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		res        *dto.PerformRagResponse
		err        error
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "tldr success",
			url:        "/rag?type=tldr&query=fashion+trends&city=Paris",
			res:        &dto.PerformRagResponse{Summary: "Linen.", ImageUrls: []string{"https://img.test/0.png"}},
			wantStatus: 200,
			wantBody:   map[string]interface{}{"summary": "Linen.", "imageUrls": []interface{}{"https://img.test/0.png"}},
		},
		{
			name:       "buy success on alias",
			url:        "/api/perform-rag?type=buy&query=where+to+shop",
			res:        &dto.PerformRagResponse{Message: "Visit Le Bon Marche."},
			wantStatus: 200,
			wantBody:   map[string]interface{}{"message": "Visit Le Bon Marche."},
		},
		{
			name:       "missing query",
			url:        "/rag?type=tldr",
			wantStatus: 400,
			wantBody:   map[string]interface{}{"error": "Query and type are required."},
		},
		{
			name:       "missing type",
			url:        "/rag?query=trends",
			wantStatus: 400,
			wantBody:   map[string]interface{}{"error": "Query and type are required."},
		},
		{
			name:       "unsupported type",
			url:        "/rag?type=rent&query=trends",
			err:        &rag.StageError{Stage: rag.StateValidating, Err: rag.ErrUnsupportedIntent},
			wantStatus: 400,
			wantBody:   map[string]interface{}{"error": "Unsupported query type."},
		},
		{
			name:       "pipeline failure",
			url:        "/rag?type=compare&query=trends",
			err:        fmt.Errorf("%w: exa down", rag.ErrSearchUnavailable),
			wantStatus: 500,
			wantBody:   map[string]interface{}{"error": "Failed to perform operation", "details": "search unavailable: exa down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRagService{res: tt.res, err: tt.err}
			app := newTestApp(svc, &fakeOutfitService{})

			status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestRagController_PerformRag_PassesCity(t *testing.T) {
	svc := &fakeRagService{res: &dto.PerformRagResponse{Summary: "ok"}}
	app := newTestApp(svc, &fakeOutfitService{})

	status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/rag?type=compare&query=trends&city=New+York", nil))

	assert.Equal(t, 200, status)
	assert.Equal(t, &dto.PerformRagRequest{Type: "compare", Query: "trends", City: "New York"}, svc.got)
}

func TestOutfitController_GenerateOutfit(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		res        *dto.GenerateOutfitResponse
		err        error
		wantStatus int
		wantBody   map[string]interface{}
		wantItems  dto.ItemList
	}{
		{
			name:       "array body",
			body:       `{"selectedItems":["wool coat","leather boots"]}`,
			res:        &dto.GenerateOutfitResponse{Outfit: "Wear it.", ImageUrl: "https://img.test/1.png"},
			wantStatus: 200,
			wantBody:   map[string]interface{}{"outfit": "Wear it.", "imageUrl": "https://img.test/1.png"},
			wantItems:  dto.ItemList{"wool coat", "leather boots"},
		},
		{
			name:       "string body",
			body:       `{"selectedItems":"wool coat. leather boots."}`,
			res:        &dto.GenerateOutfitResponse{Outfit: "Wear it.", ImageUrl: "u"},
			wantStatus: 200,
			wantBody:   map[string]interface{}{"outfit": "Wear it.", "imageUrl": "u"},
			wantItems:  dto.ItemList{"wool coat. leather boots."},
		},
		{
			name:       "missing items",
			body:       `{}`,
			wantStatus: 400,
			wantBody:   map[string]interface{}{"error": "No items provided."},
		},
		{
			name:       "blank items",
			body:       `{"selectedItems":[" "]}`,
			err:        outfit.ErrNoItems,
			wantStatus: 400,
			wantBody:   map[string]interface{}{"error": "No items provided."},
			wantItems:  dto.ItemList{" "},
		},
		{
			name:       "generation failure",
			body:       `{"selectedItems":["coat"]}`,
			err:        fmt.Errorf("%w: completion: boom", outfit.ErrGenerationFailed),
			wantStatus: 500,
			wantBody: map[string]interface{}{
				"error":   "Failed to generate outfit and image",
				"details": "failed to generate outfit and image: completion: boom",
			},
			wantItems: dto.ItemList{"coat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeOutfitService{res: tt.res, err: tt.err}
			app := newTestApp(&fakeRagService{}, svc)

			req := httptest.NewRequest(http.MethodPost, "/generate-outfit", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			status, body := doRequest(t, app, req)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
			if tt.wantItems != nil {
				require.NotNil(t, svc.got)
				assert.Equal(t, tt.wantItems, svc.got.SelectedItems)
			}
		})
	}
}
