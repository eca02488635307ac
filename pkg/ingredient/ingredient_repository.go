package ingredient

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type (
	IngredientRepository interface {
		// GetIngredients lists ingredients whose name starts with prefix,
		// ignoring case. An empty prefix lists everything.
		GetIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error)
		// EnsureIngredient inserts ingredient unless the same (name, unit)
		// pair exists.
		EnsureIngredient(ctx context.Context, ingredient *entities.Ingredient) (bool, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	q := r.db.WithContext(ctx)
	if prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}
	if err := q.Order("name ASC").Order("measurement_unit ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) EnsureIngredient(ctx context.Context, ingredient *entities.Ingredient) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Where("name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return false, err
	}
	return true, nil
}
