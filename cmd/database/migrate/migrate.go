package migration

import (
	"foodgram/entities"

	"gorm.io/gorm"
)

// Models lists every table in dependency order. Foreign-key cascades and check
// constraints are declared on the entity tags.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Follow{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.ShoppingCartEntry{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
