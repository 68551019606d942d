package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/RadislavKrasnov/contacts-api/internal/auth"
	"github.com/RadislavKrasnov/contacts-api/internal/cache"
	"github.com/RadislavKrasnov/contacts-api/internal/config"
	"github.com/RadislavKrasnov/contacts-api/internal/database"
	"github.com/RadislavKrasnov/contacts-api/internal/handler"
	"github.com/RadislavKrasnov/contacts-api/internal/mail"
	"github.com/RadislavKrasnov/contacts-api/internal/repository"
	"github.com/RadislavKrasnov/contacts-api/internal/router"
	"github.com/RadislavKrasnov/contacts-api/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, identity cache disabled")
	}

	users := repository.NewUserRepo(db)
	contacts := repository.NewContactRepo(db)

	codec := auth.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	issuer := auth.NewIssuer(codec, cfg.AccessTTL, cfg.RefreshTTL)
	verifier := auth.NewVerifier(codec, users)
	resolver := auth.NewResolver(verifier, users, cache.New(rdb, cfg.UserCacheTTL))

	mailer := mail.NewPublisher(cfg.AMQPURL)
	go func() {
		if err := mail.StartConsumer(cfg.AMQPURL); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	uploader := storage.NewAvatarUploader(config.LoadStorageConfig())

	e := echo.New()
	router.Register(e,
		handler.NewAuthHandler(cfg, users, issuer, verifier, mailer),
		handler.NewUserHandler(users, uploader),
		handler.NewContactHandler(contacts),
		handler.NewHealthHandler(db),
		resolver,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
