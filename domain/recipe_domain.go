package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"
	MessageSuccessAddShoppingCart = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart  = "recipe removed from shopping cart"
	MessageFailedGetRecipes       = "failed to get recipes"
	MessageFailedGetRecipeDetail  = "failed to get recipe detail"
	MessageFailedCreateRecipe     = "failed to create recipe"
	MessageFailedUpdateRecipe     = "failed to update recipe"
	MessageFailedDeleteRecipe     = "failed to delete recipe"
	MessageFailedAddFavorite      = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite   = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart  = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadCart     = "failed to build shopping list"
	ShoppingListFilename          = "shopping_list.txt"

	ErrRecipeNotFound           = kindError(ErrNotFound, "recipe not found")
	ErrUnauthorizedRecipeAccess = kindError(ErrForbidden, "only the author can modify this recipe")
	ErrRecipeNameBlank          = kindError(ErrValidation, "recipe name must not be blank")
	ErrRecipeTextBlank          = kindError(ErrValidation, "recipe text must not be blank")
	ErrInvalidCookingTime       = kindError(ErrValidation, "cooking time must be at least 1 minute")
	ErrNoIngredients            = kindError(ErrValidation, "add at least one ingredient")
	ErrDuplicateIngredient      = kindError(ErrValidation, "ingredient is listed more than once")
	ErrInvalidAmount            = kindError(ErrValidation, "ingredient amount must be at least 1")
	ErrNoTags                   = kindError(ErrValidation, "add at least one tag")
	ErrDuplicateTag             = kindError(ErrValidation, "tag is listed more than once")
	ErrImageRequired            = kindError(ErrValidation, "recipe image is required")
	ErrInvalidImage             = kindError(ErrValidation, "image must be a base64 encoded picture")

	ErrAlreadyFavorited = kindError(ErrConflict, "recipe is already in favorites")
	ErrNotFavorited     = kindError(ErrConflict, "recipe is not in favorites")
	ErrAlreadyInCart    = kindError(ErrConflict, "recipe is already in shopping cart")
	ErrNotInCart        = kindError(ErrConflict, "recipe is not in shopping cart")
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required"`
		Amount int    `json:"amount"`
	}

	// RecipeRequest is the payload of both create and update. Image is a
	// base64 data URI and may be omitted on update.
	RecipeRequest struct {
		Name        string                    `json:"name" validate:"max=200"`
		Text        string                    `json:"text"`
		CookingTime int                       `json:"cooking_time"`
		Image       string                    `json:"image,omitempty"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"dive"`
		Tags        []string                  `json:"tags"`
	}

	IngredientLine struct {
		IngredientID uuid.UUID
		Amount       int
	}

	// RecipeInput is a RecipeRequest that passed ValidateRecipeInput.
	RecipeInput struct {
		Name        string
		Text        string
		CookingTime int
		Image       string
		Ingredients []IngredientLine
		TagIDs      []uuid.UUID
	}

	RecipeFilter struct {
		PageRequest
		AuthorID         string
		TagSlugs         []string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		Image            string                     `json:"image"`
		CookingTime      int                        `json:"cooking_time"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		Tags             []TagResponse              `json:"tags"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Recipes    []RecipeResponse `json:"recipes"`
		Pagination Pagination       `json:"pagination"`
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int64  `json:"amount"`
	}
)

// ValidateRecipeInput checks the recipe invariants and resolves the submitted
// identifiers. Ingredient and tag order is preserved.
func ValidateRecipeInput(req RecipeRequest, requireImage bool) (RecipeInput, error) {
	in := RecipeInput{
		Name:        strings.TrimSpace(req.Name),
		Text:        strings.TrimSpace(req.Text),
		CookingTime: req.CookingTime,
		Image:       strings.TrimSpace(req.Image),
	}
	if in.Name == "" {
		return RecipeInput{}, ErrRecipeNameBlank
	}
	if in.Text == "" {
		return RecipeInput{}, ErrRecipeTextBlank
	}
	if in.CookingTime < 1 {
		return RecipeInput{}, ErrInvalidCookingTime
	}
	if requireImage && in.Image == "" {
		return RecipeInput{}, ErrImageRequired
	}

	if len(req.Ingredients) == 0 {
		return RecipeInput{}, ErrNoIngredients
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(req.Ingredients))
	for _, line := range req.Ingredients {
		id, err := uuid.Parse(line.ID)
		if err != nil {
			return RecipeInput{}, ErrParseUUID
		}
		if _, ok := seenIngredients[id]; ok {
			return RecipeInput{}, ErrDuplicateIngredient
		}
		if line.Amount < 1 {
			return RecipeInput{}, ErrInvalidAmount
		}
		seenIngredients[id] = struct{}{}
		in.Ingredients = append(in.Ingredients, IngredientLine{IngredientID: id, Amount: line.Amount})
	}

	if len(req.Tags) == 0 {
		return RecipeInput{}, ErrNoTags
	}
	seenTags := make(map[uuid.UUID]struct{}, len(req.Tags))
	for _, raw := range req.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			return RecipeInput{}, ErrParseUUID
		}
		if _, ok := seenTags[id]; ok {
			return RecipeInput{}, ErrDuplicateTag
		}
		seenTags[id] = struct{}{}
		in.TagIDs = append(in.TagIDs, id)
	}

	return in, nil
}

func (in RecipeInput) IngredientIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, line := range in.Ingredients {
		ids = append(ids, line.IngredientID)
	}
	return ids
}
