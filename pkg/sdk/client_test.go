package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAPIRootAndCollection(t *testing.T) {
	tests := []struct {
		in         string
		collection string
		root       string
	}{
		{"https://api.example.com/api/recipes", "https://api.example.com/api/recipes", "https://api.example.com/api"},
		{"https://api.example.com/api/recipes/", "https://api.example.com/api/recipes", "https://api.example.com/api"},
		{"https://api.example.com/api/Product", "https://api.example.com/api/Product", "https://api.example.com/api"},
		{"https://api.example.com/api/products", "https://api.example.com/api/products", "https://api.example.com/api"},
		{"https://api.example.com/api/recipe", "https://api.example.com/api/recipe", "https://api.example.com/api"},
		{"https://api.example.com/api", "https://api.example.com/api", "https://api.example.com/api"},
		{"https://api.example.com/api/recipesx", "https://api.example.com/api/recipesx", "https://api.example.com/api/recipesx"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.collection, APICollection(tt.in))
			assert.Equal(t, tt.root, APIRoot(tt.in))

			c := NewClient(tt.in)
			assert.Equal(t, tt.collection, c.Collection())
			assert.Equal(t, tt.root, c.Root())
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/recipes", opts...)
}

func TestClient_AuthenticatedCallWithoutToken(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.MyRecipes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTokenProvider)
	assert.False(t, called, "no request without a token")

	empty := TokenProviderFunc(func(context.Context) (*oauth2.Token, error) { return &oauth2.Token{}, nil })
	_, err = c.WithTokens(empty).MyRecipes(context.Background())
	assert.ErrorIs(t, err, ErrNoTokenProvider)
}

func TestClient_TokenProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	failing := TokenProviderFunc(func(context.Context) (*oauth2.Token, error) { return nil, errors.New("login required") })

	_, err := c.WithTokens(failing).FavoriteIDs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login required")
}

func TestClient_RecipeCRUD(t *testing.T) {
	var gotAuth []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/recipes":
			assert.Equal(t, "Pasta", r.URL.Query().Get("name"))
			_, _ = io.WriteString(w, `[{"id":1,"name":"Pasta","category":["MAIN_COURSE"]}]`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/recipes/1":
			_, _ = io.WriteString(w, `{"id":1,"name":"Pasta"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/recipes/mine":
			_, _ = io.WriteString(w, `[]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/recipes":
			var in Recipe
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Error(err)
			}
			in.ID = "7"
			_ = json.NewEncoder(w).Encode(in)
		case r.Method == http.MethodPut && r.URL.Path == "/api/recipes/7":
			_, _ = io.WriteString(w, `{"id":7,"name":"Pizza"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/recipes/7":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}, WithTokenProvider(StaticToken("secret")))
	ctx := context.Background()

	list, err := c.ListRecipes(ctx, RecipeFilter{Name: "Pasta"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ID("1"), list[0].ID)
	assert.Equal(t, Categories{"MAIN_COURSE"}, list[0].Category)

	one, err := c.GetRecipe(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Pasta", one.Name)

	mine, err := c.MyRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)

	created, err := c.CreateRecipe(ctx, Recipe{Name: "Pizza", Servings: 2})
	require.NoError(t, err)
	assert.Equal(t, ID("7"), created.ID)
	assert.Equal(t, 2, created.Servings)

	updated, err := c.UpdateRecipe(ctx, "7", Recipe{Name: "Pizza"})
	require.NoError(t, err)
	assert.Equal(t, "Pizza", updated.Name)

	require.NoError(t, c.DeleteRecipe(ctx, "7"))

	_, err = c.GetRecipe(ctx, "999")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	// public reads carry no token
	assert.Equal(t, "", gotAuth[0])
	assert.Equal(t, "Bearer secret", gotAuth[2])
}

func TestClient_Validation(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api/recipes", WithTokenProvider(StaticToken("x")))
	ctx := context.Background()

	_, err := c.CreateRecipe(ctx, Recipe{})
	assert.Error(t, err)
	_, err = c.GetRecipe(ctx, "")
	assert.Error(t, err)
	assert.Error(t, c.DeleteRecipe(ctx, ""))
}

func TestClient_Favorites(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/favorites/ids":
			_, _ = io.WriteString(w, `[3, 5]`)
		case "/api/favorites/9":
			assert.Equal(t, http.MethodPut, r.Method)
			_, _ = io.WriteString(w, `[3, 5, 9]`)
		case "/api/favorites/3":
			assert.Equal(t, http.MethodDelete, r.Method)
			_, _ = io.WriteString(w, `{"unexpected":true}`)
		case "/api/favorites":
			_, _ = io.WriteString(w, `[{"id":3,"name":"Soup"}]`)
		default:
			http.NotFound(w, r)
		}
	}, WithTokenProvider(StaticToken("t")))
	ctx := context.Background()

	ids, err := c.FavoriteIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ID{"3", "5"}, ids)

	ids, err = c.AddFavorite(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, []ID{"3", "5", "9"}, ids)

	ids, err = c.RemoveFavorite(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []ID{}, ids)

	recipes, err := c.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Name)
}

func TestClient_MealPlanAndShopping(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/mealplan":
			_, _ = io.WriteString(w, `[{"id":1,"productId":4,"date":"2026-10-19","meal":"DINNER"}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/mealplan":
			_, _ = io.WriteString(w, `{"id":2,"productId":4,"date":"2026-10-20"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/mealplan/2":
			_, _ = io.WriteString(w, `{"id":2,"productId":4,"date":"2026-10-21"}`)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/api/shopping/checks":
			_, _ = io.WriteString(w, `[{"key":"mehl","checked":true}]`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/shopping/checks":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}, WithTokenProvider(StaticToken("t")))
	ctx := context.Background()

	plan, err := c.MealPlan(ctx)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, ID("4"), plan[0].RecipeID)

	created, err := c.AddMealPlanEntry(ctx, MealPlanEntry{RecipeID: "4", Date: "2026-10-20"})
	require.NoError(t, err)
	assert.Equal(t, ID("2"), created.ID)

	updated, err := c.UpdateMealPlanEntry(ctx, "2", MealPlanEntry{RecipeID: "4", Date: "2026-10-21"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-21", updated.Date)

	require.NoError(t, c.DeleteMealPlanEntry(ctx, "2"))
	require.NoError(t, c.ClearMealPlan(ctx))

	checks, err := c.ShoppingChecks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingCheck{{Key: "mehl", Checked: true}}, checks)
	require.NoError(t, c.SetShoppingCheck(ctx, ShoppingCheck{Key: "mehl"}))

	assert.Contains(t, methods, "DELETE /api/mealplan/2")
	assert.Contains(t, methods, "DELETE /api/mealplan")
}

func TestClient_MeConvertsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "nope")
	}, WithTokenProvider(StaticToken("t")))

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileResolution)

	var perr *ProfileResolutionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusForbidden, perr.StatusCode)
	assert.Equal(t, "nope", perr.Body)
}

func TestClient_CategoryTranslationsNonObject(t *testing.T) {
	body := `["a","b"]`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/category/translation", r.URL.Path)
		_, _ = io.WriteString(w, body)
	})

	labels, err := c.CategoryTranslations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{}, labels)

	body = `{"DESSERT":"Nachspeise","BROKEN":3}`
	labels, err = c.CategoryTranslations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DESSERT": "Nachspeise"}, labels)
}

func TestClient_ProductReviewsNonArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/review/product/42", r.URL.Path)
		_, _ = io.WriteString(w, `{"error":"weird"}`)
	})

	reviews, err := c.ProductReviews(context.Background(), "42")
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestClient_ListRecipesAcceptsScalarCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"Pad Thai","category":"ASIATISCH"},{"id":2,"name":"Suppe","category":["SOUP","STARTER"]},{"id":3,"name":"Brot"}]`)
	})

	list, err := c.ListRecipes(context.Background(), RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, Categories{"ASIATISCH"}, list[0].Category)
	assert.Equal(t, Categories{"SOUP", "STARTER"}, list[1].Category)
	assert.Empty(t, list[2].Category)
}
