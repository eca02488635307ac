package recipe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     RecipeService
	root    string
	author  *entities.User
	salt    *entities.Ingredient
	sugar   *entities.Ingredient
	flour   *entities.Ingredient
	lunch   *entities.Tag
	dinner  *entities.Tag
	request domain.RecipeRequest
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	root := t.TempDir()
	svc := NewRecipeService(NewRecipeRepository(db), storage.NewLocalStorage(root, "/media"), testutil.Logger(t))

	f := &fixture{
		db:     db,
		svc:    svc,
		root:   root,
		author: testutil.CreateUser(t, db, "anna"),
		salt:   testutil.CreateIngredient(t, db, "salt", "g"),
		sugar:  testutil.CreateIngredient(t, db, "sugar", "kg"),
		flour:  testutil.CreateIngredient(t, db, "flour", "g"),
		lunch:  testutil.CreateTag(t, db, "Lunch", "#00FF00", "lunch"),
		dinner: testutil.CreateTag(t, db, "Dinner", "#0000FF", "dinner"),
	}
	f.request = domain.RecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 15,
		Image:       "data:image/png;base64," + testutil.PixelPNG,
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.salt.ID.String(), Amount: 5},
			{ID: f.flour.ID.String(), Amount: 200},
		},
		Tags: []string{f.lunch.ID.String()},
	}
	return f
}

func (f *fixture) create(t *testing.T, req domain.RecipeRequest, userID string) domain.RecipeResponse {
	t.Helper()
	res, err := f.svc.CreateRecipe(context.Background(), req, userID)
	require.NoError(t, err)
	return res
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestCreateRecipe(t *testing.T) {
	f := newFixture(t)

	res := f.create(t, f.request, f.author.ID.String())

	assert.Equal(t, "Pancakes", res.Name)
	assert.Equal(t, f.author.Username, res.Author.Username)
	require.Len(t, res.Ingredients, 2)
	assert.Equal(t, "flour", res.Ingredients[0].Name)
	assert.Equal(t, 200, res.Ingredients[0].Amount)
	assert.Equal(t, "salt", res.Ingredients[1].Name)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "lunch", res.Tags[0].Slug)
	assert.False(t, res.IsFavorited)

	require.True(t, strings.HasPrefix(res.Image, "/media/recipes/"), res.Image)
	_, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(res.Image, "/media/"))))
	assert.NoError(t, err)
}

func TestCreateRecipe_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	noImage := f.request
	noImage.Image = ""
	_, err := f.svc.CreateRecipe(ctx, noImage, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrImageRequired)

	dup := f.request
	dup.Ingredients = []domain.RecipeIngredientRequest{
		{ID: f.salt.ID.String(), Amount: 1},
		{ID: f.salt.ID.String(), Amount: 2},
	}
	_, err = f.svc.CreateRecipe(ctx, dup, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	assert.ErrorIs(t, err, domain.ErrValidation)

	unknown := f.request
	unknown.Tags = []string{"8b5f6f2e-6a4e-4a4b-9d1d-7f2a9d0c1e11"}
	_, err = f.svc.CreateRecipe(ctx, unknown, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	badImage := f.request
	badImage.Image = "data:text/plain;base64,aGVsbG8gd29ybGQ="
	_, err = f.svc.CreateRecipe(ctx, badImage, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImage)

	assert.Zero(t, count(t, f.db, &entities.Recipe{}))
	assert.Zero(t, count(t, f.db, &entities.RecipeIngredient{}))

	entries, err := os.ReadDir(filepath.Join(f.root, "recipes"))
	if err == nil {
		assert.Empty(t, entries, "uploaded image should be removed after a failed create")
	}
}

func TestUpdateRecipe_ReplacesIngredientsAndTags(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.request, f.author.ID.String())

	update := f.request
	update.Name = "Sweet pancakes"
	update.Image = ""
	update.Ingredients = []domain.RecipeIngredientRequest{{ID: f.sugar.ID.String(), Amount: 1}}
	update.Tags = []string{f.dinner.ID.String(), f.lunch.ID.String()}

	res, err := f.svc.UpdateRecipe(context.Background(), created.ID, update, f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Sweet pancakes", res.Name)
	assert.Equal(t, created.Image, res.Image, "image is kept when omitted")
	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "sugar", res.Ingredients[0].Name)
	assert.Len(t, res.Tags, 2)
	assert.EqualValues(t, 1, count(t, f.db, &entities.RecipeIngredient{}))
	assert.EqualValues(t, 2, count(t, f.db, &entities.RecipeTag{}))
}

func TestUpdateRecipe_NewImageReplacesOld(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.request, f.author.ID.String())

	res, err := f.svc.UpdateRecipe(context.Background(), created.ID, f.request, f.author.ID.String())
	require.NoError(t, err)
	require.NotEqual(t, created.Image, res.Image)

	_, err = os.Stat(filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(created.Image, "/media/"))))
	assert.True(t, os.IsNotExist(err), "old image should be deleted")
}

func TestUpdateAndDelete_OnlyAuthor(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.request, f.author.ID.String())
	other := testutil.CreateUser(t, f.db, "boris")
	ctx := context.Background()

	_, err := f.svc.UpdateRecipe(ctx, created.ID, f.request, other.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.svc.DeleteRecipe(ctx, created.ID, other.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualValues(t, 1, count(t, f.db, &entities.Recipe{}))
}

func TestDeleteRecipe_Cascades(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.request, f.author.ID.String())
	fan := testutil.CreateUser(t, f.db, "fan")

	recipe, err := NewRecipeRepository(f.db).GetRecipeByID(context.Background(), mustUUID(t, created.ID))
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&entities.Favorite{UserID: fan.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCartEntry{UserID: fan.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, f.svc.DeleteRecipe(context.Background(), created.ID, f.author.ID.String()))

	assert.Zero(t, count(t, f.db, &entities.Recipe{}))
	assert.Zero(t, count(t, f.db, &entities.RecipeIngredient{}))
	assert.Zero(t, count(t, f.db, &entities.RecipeTag{}))
	assert.Zero(t, count(t, f.db, &entities.Favorite{}))
	assert.Zero(t, count(t, f.db, &entities.ShoppingCartEntry{}))
	assert.EqualValues(t, 3, count(t, f.db, &entities.Ingredient{}), "ingredients outlive recipes")

	_, err = f.svc.GetRecipe(context.Background(), created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGetRecipes_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer := testutil.CreateUser(t, f.db, "viewer")

	older := f.create(t, f.request, f.author.ID.String())
	require.NoError(t, f.db.Model(&entities.Recipe{}).
		Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	dinnerReq := f.request
	dinnerReq.Name = "Stew"
	dinnerReq.Tags = []string{f.dinner.ID.String()}
	newer := f.create(t, dinnerReq, viewer.ID.String())

	all, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{}, "")
	require.NoError(t, err)
	require.Len(t, all.Recipes, 2)
	assert.Equal(t, newer.ID, all.Recipes[0].ID, "newest first")
	assert.Equal(t, domain.DefaultPageSize, all.Pagination.Limit)
	assert.EqualValues(t, 1, all.Pagination.TotalPages)

	byTag, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"lunch"}}, "")
	require.NoError(t, err)
	require.Len(t, byTag.Recipes, 1)
	assert.Equal(t, older.ID, byTag.Recipes[0].ID)

	byAuthor, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{AuthorID: viewer.ID.String()}, "")
	require.NoError(t, err)
	require.Len(t, byAuthor.Recipes, 1)
	assert.Equal(t, newer.ID, byAuthor.Recipes[0].ID)

	require.NoError(t, f.db.Create(&entities.Favorite{UserID: viewer.ID, RecipeID: mustUUID(t, older.ID)}).Error)
	favorites, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, viewer.ID.String())
	require.NoError(t, err)
	require.Len(t, favorites.Recipes, 1)
	assert.Equal(t, older.ID, favorites.Recipes[0].ID)
	assert.True(t, favorites.Recipes[0].IsFavorited)

	anonymous, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, "")
	require.NoError(t, err)
	assert.Len(t, anonymous.Recipes, 2, "favorite filter is ignored for anonymous viewers")

	paged, err := f.svc.GetRecipes(ctx, domain.RecipeFilter{PageRequest: domain.PageRequest{Page: 2, Limit: 1}}, "")
	require.NoError(t, err)
	require.Len(t, paged.Recipes, 1)
	assert.Equal(t, older.ID, paged.Recipes[0].ID)
	assert.EqualValues(t, 2, paged.Pagination.TotalPages)
}

func TestShoppingList_SumsByNameAndUnit(t *testing.T) {
	f := newFixture(t)
	shopper := testutil.CreateUser(t, f.db, "shopper")

	first := f.request
	first.Ingredients = []domain.RecipeIngredientRequest{{ID: f.salt.ID.String(), Amount: 5}}
	second := f.request
	second.Ingredients = []domain.RecipeIngredientRequest{
		{ID: f.salt.ID.String(), Amount: 3},
		{ID: f.sugar.ID.String(), Amount: 2},
	}
	a := f.create(t, first, f.author.ID.String())
	b := f.create(t, second, f.author.ID.String())

	for _, id := range []string{a.ID, b.ID} {
		require.NoError(t, f.db.Create(&entities.ShoppingCartEntry{UserID: shopper.ID, RecipeID: mustUUID(t, id)}).Error)
	}

	body, err := f.svc.DownloadShoppingList(context.Background(), shopper.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "salt - 8 (g)\nsugar - 2 (kg)", string(body))

	empty, err := f.svc.DownloadShoppingList(context.Background(), f.author.ID.String())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRenderShoppingList(t *testing.T) {
	got := RenderShoppingList([]domain.ShoppingListItem{
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 3},
		{Name: "milk", MeasurementUnit: "ml", Amount: 250},
	})
	assert.Equal(t, "eggs - 3 (pcs)\nmilk - 250 (ml)", got)
}
