package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/cmd/database/seed"
	"foodgram/internal/utils"
	"foodgram/internal/utils/logger"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/tag"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply the database schema and exit")
	seedIngredients := flag.String("seed-ingredients", "", "import ingredients from a name,measurement_unit CSV and exit")
	seedTags := flag.String("seed-tags", "", "import tags from a name,color,slug CSV and exit")
	flag.Parse()

	utils.LoadConfig()
	log, err := logger.New(utils.GetConfig("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal("failed to connect database", "error", err)
	}

	ctx := context.Background()
	if *migrate {
		if err := migration.Migrate(db); err != nil {
			log.Fatal("migration failed", "error", err)
		}
		log.Info("migration complete")
		return
	}

	deps, err := config.LoadDependencies(ctx, log)
	if err != nil {
		log.Fatal("failed to initialise dependencies", "error", err)
	}

	if *seedIngredients != "" || *seedTags != "" {
		if *seedIngredients != "" {
			svc := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db), deps.Cache, deps.CacheTTL, log)
			n, err := seed.Ingredients(ctx, svc, *seedIngredients)
			if err != nil {
				log.Fatal("ingredient import failed", "error", err)
			}
			log.Info("ingredients imported", "created", n)
		}
		if *seedTags != "" {
			svc := tag.NewTagService(tag.NewTagRepository(db), deps.Cache, deps.CacheTTL, log)
			n, err := seed.Tags(ctx, svc, *seedTags)
			if err != nil {
				log.Fatal("tag import failed", "error", err)
			}
			log.Info("tags imported", "created", n)
		}
		return
	}

	app, err := config.NewApp(db, deps)
	if err != nil {
		log.Fatal("failed to build app", "error", err)
	}

	go func() {
		if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
			log.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server exited")
}
