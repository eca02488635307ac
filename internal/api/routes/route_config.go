package routes

import (
	"foodgram/internal/api/handlers"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
	// MediaRoot is served at MediaURL when recipe images live on local disk.
	MediaRoot string
	MediaURL  string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.User()
	c.Recipe()
	c.Reference()
	c.GuestRoute()
	c.Media()
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	auth.Post("/login", c.UserHandler.Login)
	auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
}

func (c *Config) User() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuth(c.JWTService)

	user := c.App.Group("/api/users")
	// static paths first, fiber matches in registration order
	{
		user.Post("", c.UserHandler.Register)
		user.Get("", optional, c.UserHandler.GetUsers)
		user.Get("/me", required, c.UserHandler.Me)
		user.Get("/subscriptions", required, c.UserHandler.GetSubscriptions)
		user.Post("/set_password", required, c.UserHandler.SetPassword)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", required, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", required, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Recipe() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuth(c.JWTService)

	recipes := c.App.Group("/api/recipes")
	recipes.Get("/download_shopping_cart", required, c.RecipeHandler.DownloadShoppingCart)

	recipes.Get("", optional, c.RecipeHandler.GetRecipes)
	recipes.Post("", required, c.RecipeHandler.CreateRecipe)
	recipes.Get("/:id", optional, c.RecipeHandler.GetRecipeDetail)
	recipes.Patch("/:id", required, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", required, c.RecipeHandler.DeleteRecipe)

	recipes.Post("/:id/favorite", required, c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id/favorite", required, c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", required, c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", required, c.RecipeHandler.RemoveFromShoppingCart)
}

func (c *Config) Reference() {
	tags := c.App.Group("/api/tags")
	tags.Get("", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Media() {
	if c.MediaRoot == "" || c.MediaURL == "" {
		return
	}
	c.App.Static(c.MediaURL, c.MediaRoot)
}
