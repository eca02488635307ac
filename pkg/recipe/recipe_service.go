package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/logger"
	"foodgram/internal/utils/storage"

	"github.com/google/uuid"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipe(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) (domain.RecipeListResponse, error)
		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		DownloadShoppingList(ctx context.Context, userID string) ([]byte, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		storage          storage.Storage
		log              *logger.Logger
	}
)

func NewRecipeService(recipeRepository RecipeRepository, s storage.Storage, log *logger.Logger) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		storage:          s,
		log:              log,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}
	in, err := domain.ValidateRecipeInput(req, true)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL, err := s.uploadImage(ctx, in.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    imageURL,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, in.Ingredients, in.TagIDs); err != nil {
		s.removeImage(ctx, imageURL)
		return domain.RecipeResponse{}, err
	}

	s.log.Info("recipe created", "recipe_id", recipe.ID.String(), "author_id", userID)
	return s.GetRecipe(ctx, recipe.ID.String(), userID)
}

// UpdateRecipe replaces the recipe wholesale. The stored image is kept when the
// request carries none.
func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeResponse, error) {
	current, err := s.authoredRecipe(ctx, recipeID, userID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	in, err := domain.ValidateRecipeInput(req, false)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL := current.ImageURL
	if in.Image != "" {
		if imageURL, err = s.uploadImage(ctx, in.Image); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	updated := &entities.Recipe{
		ID:          current.ID,
		AuthorID:    current.AuthorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    imageURL,
	}
	if err := s.recipeRepository.UpdateRecipe(ctx, updated, in.Ingredients, in.TagIDs); err != nil {
		if imageURL != current.ImageURL {
			s.removeImage(ctx, imageURL)
		}
		return domain.RecipeResponse{}, err
	}
	if imageURL != current.ImageURL {
		s.removeImage(ctx, current.ImageURL)
	}

	return s.GetRecipe(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	current, err := s.authoredRecipe(ctx, recipeID, userID)
	if err != nil {
		return err
	}
	if err := s.recipeRepository.DeleteRecipe(ctx, current.ID); err != nil {
		return err
	}
	s.removeImage(ctx, current.ImageURL)
	s.log.Info("recipe deleted", "recipe_id", recipeID, "author_id", userID)
	return nil
}

// authoredRecipe loads a recipe and checks that userID wrote it.
func (s *recipeService) authoredRecipe(ctx context.Context, recipeID string, userID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID.String() != userID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string, viewerID string) (domain.RecipeResponse, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	res, err := s.toResponses(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return res[0], nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) (domain.RecipeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultPageSize
	}
	if filter.AuthorID != "" {
		if _, err := uuid.Parse(filter.AuthorID); err != nil {
			return domain.RecipeListResponse{}, domain.ErrParseUUID
		}
	}

	var viewer *uuid.UUID
	if id, err := uuid.Parse(viewerID); err == nil {
		viewer = &id
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewer)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	res, err := s.toResponses(ctx, recipes, viewerID)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	return domain.RecipeListResponse{
		Recipes:    res,
		Pagination: domain.NewPagination(filter.PageRequest, count),
	}, nil
}

// toResponses maps recipes and fills the viewer-dependent flags with one query
// per flag. Anonymous viewers get every flag false.
func (s *recipeService) toResponses(ctx context.Context, recipes []*entities.Recipe, viewerID string) ([]domain.RecipeResponse, error) {
	res := make([]domain.RecipeResponse, 0, len(recipes))

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	following := map[uuid.UUID]bool{}
	if viewer, err := uuid.Parse(viewerID); err == nil && len(recipes) > 0 {
		recipeIDs := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}
		if favorited, err = s.recipeRepository.GetFavoritedRecipeIDs(ctx, viewer, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.recipeRepository.GetCartRecipeIDs(ctx, viewer, recipeIDs); err != nil {
			return nil, err
		}
		if following, err = s.recipeRepository.GetFollowedAuthorIDs(ctx, viewer, authorIDs); err != nil {
			return nil, err
		}
	}

	for _, r := range recipes {
		res = append(res, domain.ToRecipeResponse(r, following[r.AuthorID], favorited[r.ID], inCart[r.ID]))
	}
	return res, nil
}

func (s *recipeService) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.recipeRepository.GetShoppingList(ctx, id)
}

func (s *recipeService) DownloadShoppingList(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []byte(RenderShoppingList(items)), nil
}

// RenderShoppingList formats one "name - amount (unit)" line per item.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %d (%s)", item.Name, item.Amount, item.MeasurementUnit))
	}
	return strings.Join(lines, "\n")
}

func (s *recipeService) uploadImage(ctx context.Context, payload string) (string, error) {
	data, err := storage.DecodeBase64Image(payload)
	if err != nil {
		return "", domain.ErrInvalidImage
	}
	key, err := s.storage.UploadBytes(ctx, uuid.NewString(), data, imageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return "", domain.ErrInvalidImage
		}
		return "", err
	}
	return s.storage.GetPublicLinkKey(key), nil
}

func (s *recipeService) removeImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	key := s.storage.GetObjectKeyFromLink(link)
	if key == "" {
		return
	}
	if err :=s.storage.DeleteFile(ctx, key); err != nil {
		s.log.Warn("failed to delete recipe image", "key", key, "error", err)
	}
}
