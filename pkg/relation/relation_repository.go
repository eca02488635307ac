package relation

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RelationRepository interface {
		CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error
		DeleteFollow(ctx context.Context, userID, authorID uuid.UUID) error
		IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
		GetFollowedAuthors(ctx context.Context, userID uuid.UUID, page domain.PageRequest) ([]*entities.User, int64, error)

		CreateFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
		DeleteFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
		CreateCartEntry(ctx context.Context, userID, recipeID uuid.UUID) error
		DeleteCartEntry(ctx context.Context, userID, recipeID uuid.UUID) error

		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// insertOnce creates row unless a row matching query already exists. Both the
// pre-check and the unique index report a duplicate as conflict, so concurrent
// callers see the same error.
func (r *relationRepository) insertOnce(ctx context.Context, probe any, row any, conflict, missing error, query string, args ...any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(probe).Where(query, args...).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflict
		}
		if err := tx.Create(row).Error; err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				return conflict
			case errors.Is(err, gorm.ErrForeignKeyViolated):
				return missing
			}
			return err
		}
		return nil
	})
}

func (r *relationRepository) deleteOnce(ctx context.Context, model any, missing error, query string, args ...any) error {
	res := r.db.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missing
	}
	return nil
}

func (r *relationRepository) CreateFollow(ctx context.Context, userID, authorID uuid.UUID) error {
	return r.insertOnce(ctx,
		&entities.Follow{},
		&entities.Follow{UserID: userID, AuthorID: authorID},
		domain.ErrAlreadyFollowing, domain.ErrUserNotFound,
		"user_id = ? AND author_id = ?", userID, authorID,
	)
}

func (r *relationRepository) DeleteFollow(ctx context.Context, userID, authorID uuid.UUID) error {
	return r.deleteOnce(ctx, &entities.Follow{}, domain.ErrNotFollowing, "user_id = ? AND author_id = ?", userID, authorID)
}

func (r *relationRepository) IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) GetFollowedAuthors(ctx context.Context, userID uuid.UUID, page domain.PageRequest) ([]*entities.User, int64, error) {
	var authors []*entities.User
	var count int64

	if err := r.db.WithContext(ctx).Model(&entities.Follow{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, count, nil
}

func (r *relationRepository) CreateFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.insertOnce(ctx,
		&entities.Favorite{},
		&entities.Favorite{UserID: userID, RecipeID: recipeID},
		domain.ErrAlreadyFavorited, domain.ErrRecipeNotFound,
		"user_id = ? AND recipe_id = ?", userID, recipeID,
	)
}

func (r *relationRepository) DeleteFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.deleteOnce(ctx, &entities.Favorite{}, domain.ErrNotFavorited, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (r *relationRepository) CreateCartEntry(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.insertOnce(ctx,
		&entities.ShoppingCartEntry{},
		&entities.ShoppingCartEntry{UserID: userID, RecipeID: recipeID},
		domain.ErrAlreadyInCart, domain.ErrRecipeNotFound,
		"user_id = ? AND recipe_id = ?", userID, recipeID,
	)
}

func (r *relationRepository) DeleteCartEntry(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.deleteOnce(ctx, &entities.ShoppingCartEntry{}, domain.ErrNotInCart, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (r *relationRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *relationRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}
