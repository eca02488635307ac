package tag

import (
	"context"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/cache"
	"foodgram/internal/utils/logger"

	"github.com/google/uuid"
)

const (
	cacheKeyAll    = "tags:all"
	cacheKeyPrefix = "tags:id:"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTag(ctx context.Context, id string) (domain.TagResponse, error)
		ImportTags(ctx context.Context, tags []domain.TagResponse) (int, error)
	}

	tagService struct {
		tagRepository TagRepository
		cache         cache.Cache
		ttl           time.Duration
		log           *logger.Logger
	}
)

func NewTagService(tagRepository TagRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) TagService {
	return &tagService{
		tagRepository: tagRepository,
		cache:         c,
		ttl:           ttl,
		log:           log,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	var res []domain.TagResponse
	if s.cached(ctx, cacheKeyAll, &res) {
		return res, nil
	}

	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	res = make([]domain.TagResponse, 0, len(tags))
	for _, t := range tags {
		res = append(res, domain.ToTagResponse(t))
	}

	s.store(ctx, cacheKeyAll, res)
	return res, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (domain.TagResponse, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return domain.TagResponse{}, domain.ErrParseUUID
	}

	var res domain.TagResponse
	if s.cached(ctx, cacheKeyPrefix+tagID.String(), &res) {
		return res, nil
	}

	t, err := s.tagRepository.GetTagByID(ctx, tagID)
	if err != nil {
		return domain.TagResponse{}, err
	}
	res = domain.ToTagResponse(t)

	s.store(ctx, cacheKeyPrefix+tagID.String(), res)
	return res, nil
}

// ImportTags creates the tags whose slug is not taken yet and returns how many
// were created. The list cache is dropped when anything changed.
func (s *tagService) ImportTags(ctx context.Context, tags []domain.TagResponse) (int, error) {
	created := 0
	for _, t := range tags {
		ok, err := s.tagRepository.EnsureTag(ctx, &entities.Tag{Name: t.Name, Color: t.Color, Slug: t.Slug})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	if created > 0 {
		if err := s.cache.Delete(ctx, cacheKeyAll); err != nil {
			s.log.Warn("failed to invalidate tag cache", "error", err)
		}
	}
	return created, nil
}

func (s *tagService) cached(ctx context.Context, key string, dest any) bool {
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("tag cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *tagService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("tag cache write failed", "key", key, "error", err)
	}
}
