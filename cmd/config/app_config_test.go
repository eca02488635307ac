package config

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newTestApp(t *testing.T) (*client, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	root := t.TempDir()
	app, err := NewApp(db, Dependencies{
		Logger:    testutil.Logger(t),
		Cache:     testutil.NewMemoryCache(),
		Storage:   storage.NewLocalStorage(root, "/media"),
		Mailer:    mailing.NewMailer(mailing.MailConfig{}),
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
		CacheTTL:  time.Minute,
		MediaRoot: root,
		MediaURL:  "/media",
	})
	require.NoError(t, err)
	return &client{t: t, app: app}, db
}

func (c *client) raw(method, path, token string, body any) *http.Response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	return resp
}

func (c *client) do(method, path, token string, body any, dest any) int {
	c.t.Helper()
	resp := c.raw(method, path, token, body)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	if dest != nil && len(env.Data) > 0 {
		require.NoError(c.t, json.Unmarshal(env.Data, dest))
	}
	return resp.StatusCode
}

func (c *client) signup(username string) (domain.UserResponse, string) {
	c.t.Helper()
	var user domain.UserResponse
	status := c.do(http.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "s3cret-pass",
	}, &user)
	require.Equal(c.t, http.StatusCreated, status)

	var login domain.LoginResponse
	status = c.do(http.MethodPost, "/api/auth/token/login", "", domain.LoginRequest{
		Email:    username + "@example.com",
		Password: "s3cret-pass",
	}, &login)
	require.Equal(c.t, http.StatusOK, status)
	require.NotEmpty(c.t, login.AuthToken)
	return user, login.AuthToken
}

func TestAuthFlow(t *testing.T) {
	c, _ := newTestApp(t)
	user, token := c.signup("anna")

	status := c.do(http.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email: "anna@example.com", Username: "anna2", FirstName: "a", LastName: "b", Password: "s3cret-pass",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	status = c.do(http.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email: "bad@example.com", Username: "bad name!", FirstName: "a", LastName: "b", Password: "s3cret-pass",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = c.do(http.MethodPost, "/api/auth/token/login", "", domain.LoginRequest{
		Email: "anna@example.com", Password: "wrong-pass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var me domain.UserResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/users/me", token, nil, &me))
	assert.Equal(t, user.ID, me.ID)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/users/me", "", nil, nil))

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/auth/token/logout", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/users/me", token, nil, nil))
}

func TestRecipeFlow(t *testing.T) {
	c, db := newTestApp(t)
	_, annaToken := c.signup("anna")
	boris, borisToken := c.signup("boris")
	salt := testutil.CreateIngredient(t, db, "salt", "g")
	lunch := testutil.CreateTag(t, db, "Lunch", "#00FF00", "lunch")

	req := domain.RecipeRequest{
		Name:        "Soup",
		Text:        "Boil water.",
		CookingTime: 20,
		Image:       "data:image/png;base64," + testutil.PixelPNG,
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID.String(), Amount: 5}},
		Tags:        []string{lunch.ID.String()},
	}

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/recipes", "", req, nil))

	var created domain.RecipeResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/recipes", annaToken, req, &created))
	assert.Equal(t, "Soup", created.Name)

	image := c.raw(http.MethodGet, created.Image, "", nil)
	assert.Equal(t, http.StatusOK, image.StatusCode, "local media is served")
	image.Body.Close()

	noIngredients := req
	noIngredients.Ingredients = nil
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/recipes", annaToken, noIngredients, nil))

	var list domain.RecipeListResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/recipes?tags=lunch", "", nil, &list))
	require.Len(t, list.Recipes, 1)
	assert.False(t, list.Recipes[0].IsFavorited)

	path := "/api/recipes/" + created.ID
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPatch, path, borisToken, req, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/recipes/not-a-uuid", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/recipes/9e3c1f0a-7b2d-4c6e-8f1a-2b3c4d5e6f70", "", nil, nil))

	var short domain.RecipeShortResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, path+"/favorite", borisToken, nil, &short))
	assert.Equal(t, created.ID, short.ID)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, path+"/favorite", borisToken, nil, nil))

	var seen domain.RecipeResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, path, borisToken, nil, &seen))
	assert.True(t, seen.IsFavorited)

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, path+"/shopping_cart", borisToken, nil, nil))
	resp := c.raw(http.MethodGet, "/api/recipes/download_shopping_cart", borisToken, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), domain.ShoppingListFilename)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "salt - 5 (g)", string(body))

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, path+"/shopping_cart", borisToken, nil, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, path+"/shopping_cart", borisToken, nil, nil))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/users/"+boris.ID+"/subscribe", borisToken, nil, nil))

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, path, annaToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, path, "", nil, nil))
}

func TestSubscriptions(t *testing.T) {
	c, _ := newTestApp(t)
	anna, _ := c.signup("anna")
	_, readerToken := c.signup("reader")

	var card domain.SubscriptionResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/users/"+anna.ID+"/subscribe", readerToken, nil, &card))
	assert.True(t, card.IsSubscribed)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/users/"+anna.ID+"/subscribe", readerToken, nil, nil))

	var subs domain.SubscriptionListResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/users/subscriptions?recipes_limit=2", readerToken, nil, &subs))
	require.Len(t, subs.Subscriptions, 1)
	assert.Equal(t, "anna", subs.Subscriptions[0].Username)

	var profile domain.UserResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/users/"+anna.ID, readerToken, nil, &profile))
	assert.True(t, profile.IsSubscribed)

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/users/"+anna.ID+"/subscribe", readerToken, nil, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, "/api/users/"+anna.ID+"/subscribe", readerToken, nil, nil))
}

func TestReferenceEndpoints(t *testing.T) {
	c, db := newTestApp(t)
	testutil.CreateIngredient(t, db, "salt", "g")
	testutil.CreateIngredient(t, db, "sugar", "g")
	testutil.CreateTag(t, db, "Lunch", "#00FF00", "lunch")

	var ingredients []domain.IngredientResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/ingredients?name=SU", "", nil, &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "sugar", ingredients[0].Name)

	var tags []domain.TagResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/tags", "", nil, &tags))
	require.Len(t, tags, 1)

	var tag domain.TagResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/tags/"+tags[0].ID, "", nil, &tag))
	assert.Equal(t, "lunch", tag.Slug)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/unknown", "", nil, nil))
}
