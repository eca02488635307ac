package domain

import (
	"sort"

	"foodgram/entities"
)

func ToUserResponse(u *entities.User, isSubscribed bool) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func ToTagResponse(t *entities.Tag) TagResponse {
	return TagResponse{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func ToIngredientResponse(i *entities.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func ToRecipeShortResponse(r *entities.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// ToRecipeResponse expects Author, Ingredients.Ingredient and Tags.Tag to be
// preloaded. Ingredients and tags are sorted by name.
func ToRecipeResponse(r *entities.Recipe, authorSubscribed, favorited, inCart bool) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		line := RecipeIngredientResponse{
			ID:     ri.IngredientID.String(),
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			line.Name = ri.Ingredient.Name
			line.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, line)
	}
	sort.SliceStable(ingredients, func(i, j int) bool { return ingredients[i].Name < ingredients[j].Name })

	tags := make([]TagResponse, 0, len(r.Tags))
	for _, rt := range r.Tags {
		if rt.Tag == nil {
			continue
		}
		tags = append(tags, ToTagResponse(rt.Tag))
	}
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	return RecipeResponse{
		ID:               r.ID.String(),
		Name:             r.Name,
		Text:             r.Text,
		Image:            r.ImageURL,
		CookingTime:      r.CookingTime,
		Author:           ToUserResponse(r.Author, authorSubscribed),
		Ingredients:      ingredients,
		Tags:             tags,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		CreatedAt:        r.CreatedAt,
	}
}
