package relation

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/logger"
	"foodgram/pkg/recipe"

	"github.com/google/uuid"
)

type (
	// RelationService guards the per-user relations: subscriptions to
	// authors, favorites and shopping cart entries. Adding an existing
	// relation or removing a missing one is a conflict.
	RelationService interface {
		Follow(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.SubscriptionResponse, error)
		Unfollow(ctx context.Context, userID string, authorID string) error
		GetSubscriptions(ctx context.Context, userID string, page domain.PageRequest, recipesLimit int) (domain.SubscriptionListResponse, error)

		AddFavorite(ctx context.Context, userID string, recipeID string) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, userID string, recipeID string) error
		AddToCart(ctx context.Context, userID string, recipeID string) (domain.RecipeShortResponse, error)
		RemoveFromCart(ctx context.Context, userID string, recipeID string) error
	}

	relationService struct {
		relationRepository RelationRepository
		recipeRepository   recipe.RecipeRepository
		log                *logger.Logger
	}
)

func NewRelationService(relationRepository RelationRepository, recipeRepository recipe.RecipeRepository, log *logger.Logger) RelationService {
	return &relationService{
		relationRepository: relationRepository,
		recipeRepository:   recipeRepository,
		log:                log,
	}
}

func parsePair(a, b string) (uuid.UUID, uuid.UUID, error) {
	first, err := uuid.Parse(a)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	second, err := uuid.Parse(b)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	return first, second, nil
}

func (s *relationService) Follow(ctx context.Context, userID string, authorID string, recipesLimit int) (domain.SubscriptionResponse, error) {
	uid, aid, err := parsePair(userID, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if uid == aid {
		return domain.SubscriptionResponse{}, domain.ErrSelfFollow
	}

	author, err := s.relationRepository.GetUserByID(ctx, aid)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if err := s.relationRepository.CreateFollow(ctx, uid, aid); err != nil {
		return domain.SubscriptionResponse{}, err
	}

	s.log.Info("subscribed", "user_id", userID, "author_id", authorID)
	return s.subscriptionCard(ctx, author, recipesLimit)
}

func (s *relationService) Unfollow(ctx context.Context, userID string, authorID string) error {
	uid, aid, err := parsePair(userID, authorID)
	if err != nil {
		return err
	}
	if _, err := s.relationRepository.GetUserByID(ctx, aid); err != nil {
		return err
	}
	return s.relationRepository.DeleteFollow(ctx, uid, aid)
}

func (s *relationService) GetSubscriptions(ctx context.Context, userID string, page domain.PageRequest, recipesLimit int) (domain.SubscriptionListResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscriptionListResponse{}, domain.ErrParseUUID
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = domain.DefaultPageSize
	}

	authors, count, err := s.relationRepository.GetFollowedAuthors(ctx, uid, page)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	subscriptions := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		card, err := s.subscriptionCard(ctx, author, recipesLimit)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}
		subscriptions = append(subscriptions, card)
	}

	return domain.SubscriptionListResponse{
		Subscriptions: subscriptions,
		Pagination:    domain.NewPagination(page, count),
	}, nil
}

// subscriptionCard is the author as seen by a subscriber: the profile, up to
// recipesLimit newest recipes (all when recipesLimit <= 0) and the total count.
func (s *relationService) subscriptionCard(ctx context.Context, author *entities.User, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	total, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	short := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, domain.ToRecipeShortResponse(r))
	}
	return domain.SubscriptionResponse{
		UserResponse: domain.ToUserResponse(author, true),
		Recipes:      short,
		RecipesCount: total,
	}, nil
}

func (s *relationService) AddFavorite(ctx context.Context, userID string, recipeID string) (domain.RecipeShortResponse, error) {
	return s.addRecipeRelation(ctx, userID, recipeID, s.relationRepository.CreateFavorite)
}

func (s *relationService) RemoveFavorite(ctx context.Context, userID string, recipeID string) error {
	return s.removeRecipeRelation(ctx, userID, recipeID, s.relationRepository.DeleteFavorite)
}

func (s *relationService) AddToCart(ctx context.Context, userID string, recipeID string) (domain.RecipeShortResponse, error) {
	return s.addRecipeRelation(ctx, userID, recipeID, s.relationRepository.CreateCartEntry)
}

func (s *relationService) RemoveFromCart(ctx context.Context, userID string, recipeID string) error {
	return s.removeRecipeRelation(ctx, userID, recipeID, s.relationRepository.DeleteCartEntry)
}

type recipeRelationFunc func(ctx context.Context, userID, recipeID uuid.UUID) error

func (s *relationService) addRecipeRelation(ctx context.Context, userID, recipeID string, create recipeRelationFunc) (domain.RecipeShortResponse, error) {
	uid, rid, err := parsePair(userID, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	r, err := s.relationRepository.GetRecipeByID(ctx, rid)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}
	if err := create(ctx, uid, rid); err != nil {
		return domain.RecipeShortResponse{}, err
	}
	return domain.ToRecipeShortResponse(r), nil
}

func (s *relationService) removeRecipeRelation(ctx context.Context, userID, recipeID string, remove recipeRelationFunc) error {
	uid, rid, err := parsePair(userID, recipeID)
	if err != nil {
		return err
	}
	if _, err := s.relationRepository.GetRecipeByID(ctx, rid); err != nil {
		return err
	}
	return remove(ctx, uid, rid)
}
