package ingredient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/cache"
	"foodgram/internal/utils/logger"

	"github.com/google/uuid"
)

const (
	cacheKeyGeneration = "ingredients:generation"
	cacheKeyID         = "ingredients:id:"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, prefix string) ([]domain.IngredientResponse, error)
		GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error)
		ImportIngredients(ctx context.Context, ingredients []domain.IngredientResponse) (int, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		cache                cache.Cache
		ttl                  time.Duration
		log                  *logger.Logger
	}
)

func NewIngredientService(ingredientRepository IngredientRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) IngredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		cache:                c,
		ttl:                  ttl,
		log:                  log,
	}
}

// searchKey is namespaced by a generation number so an import can invalidate
// every cached prefix at once.
func (s *ingredientService) searchKey(ctx context.Context, prefix string) string {
	var generation int64
	s.cached(ctx, cacheKeyGeneration, &generation)
	return fmt.Sprintf("ingredients:%d:prefix:%s", generation, prefix)
}

func (s *ingredientService) GetIngredients(ctx context.Context, prefix string) ([]domain.IngredientResponse, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	key := s.searchKey(ctx, prefix)

	var res []domain.IngredientResponse
	if s.cached(ctx, key, &res) {
		return res, nil
	}

	ingredients, err := s.ingredientRepository.GetIngredients(ctx, prefix)
	if err != nil {
		return nil, err
	}
	res = make([]domain.IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		res = append(res, domain.ToIngredientResponse(i))
	}

	s.store(ctx, key, res, s.ttl)
	return res, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.IngredientResponse{}, domain.ErrParseUUID
	}

	var res domain.IngredientResponse
	if s.cached(ctx, cacheKeyID+ingredientID.String(), &res) {
		return res, nil
	}

	i, err := s.ingredientRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	res = domain.ToIngredientResponse(i)

	s.store(ctx, cacheKeyID+ingredientID.String(), res, s.ttl)
	return res, nil
}

func (s *ingredientService) ImportIngredients(ctx context.Context, ingredients []domain.IngredientResponse) (int, error) {
	created := 0
	for _, i := range ingredients {
		ok, err := s.ingredientRepository.EnsureIngredient(ctx, &entities.Ingredient{
			Name:            i.Name,
			MeasurementUnit: i.MeasurementUnit,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	if created > 0 {
		s.store(ctx, cacheKeyGeneration, time.Now().UnixNano(), 0)
	}
	return created, nil
}

func (s *ingredientService) cached(ctx context.Context, key string, dest any) bool {
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("ingredient cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *ingredientService) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("ingredient cache write failed", "key", key, "error", err)
	}
}
