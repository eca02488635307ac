package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, tagIDs []uuid.UUID) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, tagIDs []uuid.UUID) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID *uuid.UUID) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
		GetFavoritedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		GetCartRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		GetFollowedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, ingredients, tagIDs); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, ingredients, tagIDs)
	})
}

// UpdateRecipe overwrites the scalar fields and swaps the ingredient and tag
// sets in one transaction.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, ingredients, tagIDs); err != nil {
			return err
		}
		res := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
				"image_url":    recipe.ImageURL,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeTag{}).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, ingredients, tagIDs)
	})
}

func checkReferences(tx *gorm.DB, ingredients []domain.IngredientLine, tagIDs []uuid.UUID) error {
	ingredientIDs := make([]uuid.UUID, 0, len(ingredients))
	for _, line := range ingredients {
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}

	var count int64
	if err := tx.Model(&entities.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ingredientIDs)) {
		return domain.ErrIngredientNotFound
	}

	if err := tx.Model(&entities.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return domain.ErrTagNotFound
	}
	return nil
}

func replaceAssociations(tx *gorm.DB, recipeID uuid.UUID, ingredients []domain.IngredientLine, tagIDs []uuid.UUID) error {
	rows := make([]entities.RecipeIngredient, 0, len(ingredients))
	for _, line := range ingredients {
		rows = append(rows, entities.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}
	if len(rows) > 0 {
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}

	tags := make([]entities.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, entities.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(tags) > 0 {
		if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecipe relies on the schema cascades to drop ingredient lines, tag
// links, favorites and cart entries.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID *uuid.UUID) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.applyFilter(r.db.WithContext(ctx).Model(&entities.Recipe{}), filter, viewerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.applyFilter(r.withDetails(r.db.WithContext(ctx)), filter, viewerID).
		Order("recipes.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags.Tag")
}

// applyFilter narrows a recipes query. Favorite and cart filters only apply
// when a viewer is known.
func (r *recipeRepository) applyFilter(db *gorm.DB, filter domain.RecipeFilter, viewerID *uuid.UUID) *gorm.DB {
	if filter.AuthorID != "" {
		db = db.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Model(&entities.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		db = db.Where("recipes.id IN (?)", tagged)
	}
	if viewerID != nil && filter.IsFavorited {
		favorites := r.db.Model(&entities.Favorite{}).Select("recipe_id").Where("user_id = ?", *viewerID)
		db = db.Where("recipes.id IN (?)", favorites)
	}
	if viewerID != nil && filter.IsInShoppingCart {
		cart := r.db.Model(&entities.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", *viewerID)
		db = db.Where("recipes.id IN (?)", cart)
	}
	return db
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) GetFavoritedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.pluckSet(ctx, &entities.Favorite{}, "recipe_id", "user_id = ? AND recipe_id IN ?", userID, recipeIDs)
}

func (r *recipeRepository) GetCartRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.pluckSet(ctx, &entities.ShoppingCartEntry{}, "recipe_id", "user_id = ? AND recipe_id IN ?", userID, recipeIDs)
}

func (r *recipeRepository) GetFollowedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.pluckSet(ctx, &entities.Follow{}, "author_id", "user_id = ? AND author_id IN ?", userID, authorIDs)
}

func (r *recipeRepository) pluckSet(ctx context.Context, model any, column, query string, args ...any) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(model).Where(query, args...).Pluck(column, &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// GetShoppingList sums ingredient amounts across every recipe in the user's
// cart, one row per (name, unit) pair.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	err := r.db.WithContext(ctx).
		Table("shopping_cart_entries").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
