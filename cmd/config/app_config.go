package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/presenters"
	"foodgram/internal/api/routes"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/cache"
	"foodgram/internal/utils/logger"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

const bodyLimit = 10 * 1024 * 1024

// Dependencies are the collaborators NewApp wires into the services.
type Dependencies struct {
	Logger    *logger.Logger
	Cache     cache.Cache
	Storage   storage.Storage
	Mailer    mailing.Mailer
	JWTSecret string
	JWTTTL    time.Duration
	CacheTTL  time.Duration
	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
	// RateLimit is the per-client requests per second; 0 disables it.
	RateLimit int
	MediaRoot string
	MediaURL  string
}

// LoadDependencies builds the production collaborators from config.
func LoadDependencies(ctx context.Context, log *logger.Logger) (Dependencies, error) {
	deps := Dependencies{
		Logger:    log,
		Mailer:    mailing.NewMailer(mailing.LoadMailConfig()),
		JWTSecret: utils.GetConfig("JWT_SECRET"),
		JWTTTL:    time.Duration(utils.GetConfigInt("JWT_TTL_MINUTES", 24*60)) * time.Minute,
		CacheTTL:  time.Duration(utils.GetConfigInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		RateLimit: utils.GetConfigInt("RATE_LIMIT_PER_SECOND", 10),
	}

	if addr := utils.GetConfig("REDIS_ADDR"); addr != "" {
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     addr,
			Password: utils.GetConfig("REDIS_PASSWORD"),
			DB:       utils.GetConfigInt("REDIS_DB", 0),
			Prefix:   "foodgram:",
		})
		if err != nil {
			return Dependencies{}, err
		}
		deps.Cache = c
	} else {
		log.Warn("REDIS_ADDR not set, caching and token revocation are disabled")
		deps.Cache = cache.NewNoopCache()
	}

	switch utils.GetConfig("STORAGE_DRIVER") {
	case "s3":
		s3, err := storage.NewAwsS3(ctx, storage.AwsS3Config{
			Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
			Region:    utils.GetConfig("AWS_S3_REGION"),
			AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
			SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
			Endpoint:  utils.GetConfig("AWS_S3_ENDPOINT"),
		})
		if err != nil {
			return Dependencies{}, err
		}
		deps.Storage = s3
	default:
		deps.MediaRoot = utils.GetConfig("MEDIA_ROOT")
		deps.MediaURL = utils.GetConfig("MEDIA_URL")
		deps.Storage = storage.NewLocalStorage(deps.MediaRoot, utils.GetConfig("APP_URL")+deps.MediaURL)
	}

	if path := utils.GetConfig("LOG_FILE"); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return Dependencies{}, err
		}
		file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return Dependencies{}, err
		}
		deps.AccessLog = file
	} else {
		deps.AccessLog = os.Stdout
	}

	return deps, nil
}

func NewApp(db *gorm.DB, deps Dependencies) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return presenters.FailedResponse(c, err.Error(), err)
		},
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if deps.AccessLog != nil {
		app.Use(fiberLogger.New(fiberLogger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Output:     deps.AccessLog,
		}))
	}
	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	relationRepository := relation.NewRelationRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)

	// Service
	jwtService := jwt.NewJWTService(deps.JWTSecret, deps.JWTTTL, deps.Cache)
	userService := user.NewUserService(userRepository, jwtService, deps.Mailer, deps.Logger)
	recipeService := recipe.NewRecipeService(recipeRepository, deps.Storage, deps.Logger)
	relationService := relation.NewRelationService(relationRepository, recipeRepository, deps.Logger)
	tagService := tag.NewTagService(tagRepository, deps.Cache, deps.CacheTTL, deps.Logger)
	ingredientService := ingredient.NewIngredientService(ingredientRepository, deps.Cache, deps.CacheTTL, deps.Logger)

	// Handler
	userHandler := handlers.NewUserHandler(userService, relationService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, relationService, validator)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		RecipeHandler:     recipeHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
		MediaRoot:         deps.MediaRoot,
		MediaURL:          deps.MediaURL,
	}
	routesConfig.Setup()
	return app, nil
}
