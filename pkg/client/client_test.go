package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_RefreshesTokenOnceOn401(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired", "code": "TOKEN_EXPIRED"})
			return
		}
		writeJSON(w, http.StatusOK, []domain.RecipeBook{{ID: "book-1", Name: "Breads"}})
	}))
	t.Cleanup(srv.Close)

	var refreshes atomic.Int32
	tokens := TokenFunc(func(_ context.Context, refresh bool) (string, error) {
		if refresh {
			refreshes.Add(1)
			return "fresh", nil
		}
		return "stale", nil
	})

	books, err := New(srv.URL, tokens).ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Breads", books[0].Name)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestClient_GivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token", "code": "UNAUTHORIZED"})
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, StaticToken("bad")).ListRecipes(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_SendsRequestIDAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/api/books", r.URL.Path)

		var in BookInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Breads", in.Name)

		writeJSON(w, http.StatusCreated, CreateBookResult{
			Message: `Recipe book "Breads" has been added successfully!`,
			ID:      "book-1",
			Book:    &domain.RecipeBook{ID: "book-1", Name: in.Name},
		})
	}))
	t.Cleanup(srv.Close)

	out, err := New(srv.URL, StaticToken("t")).CreateBook(context.Background(), BookInput{
		Name:        "Breads",
		Description: "Loaves",
		Image:       "🍞",
	})
	require.NoError(t, err)
	assert.Equal(t, "book-1", out.ID)
}

func TestClient_DecodesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/versions/compare/rcp-1/1/9", r.URL.Path)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Version not found", "code": "NOT_FOUND"})
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, StaticToken("t")).CompareVersions(context.Background(), "rcp-1", 1, 9)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "recipehub: 404 NOT_FOUND: Version not found", err.Error())
}

func TestClient_SearchQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "bread", q.Get("q"))
		assert.Equal(t, "flour,yeast", q.Get("tags"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Empty(t, q.Get("offset"))
		writeJSON(w, http.StatusOK, map[string]any{"query": "bread", "total": 0, "tookMs": 1, "hits": []any{}})
	}))
	t.Cleanup(srv.Close)

	result, err := New(srv.URL, StaticToken("t")).SearchRecipes(context.Background(), "bread", SearchOptions{
		Tags:  []string{"flour", "yeast"},
		Limit: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "bread", result.Query)
}

func TestClient_DisplayRecipeQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recipes/rcp-1/display", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("system"))
		assert.Equal(t, "2", r.URL.Query().Get("scale"))
		writeJSON(w, http.StatusOK, map[string]any{
			"recipe":      map[string]any{"id": "rcp-1"},
			"system":      "metric",
			"scale":       2,
			"servings":    8,
			"ingredients": []string{"950 ml flour"},
		})
	}))
	t.Cleanup(srv.Close)

	out, err := New(srv.URL, StaticToken("t")).DisplayRecipe(context.Background(), "rcp-1", "metric", 2)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Servings)
	assert.Equal(t, []string{"950 ml flour"}, out.Ingredients.Items())
}
