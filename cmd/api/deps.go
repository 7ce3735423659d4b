package main

import (
	"context"
	"log"
	"net/http"

	"finclusion/internal/domain/category"
	"finclusion/internal/domain/identity"
	"finclusion/internal/domain/onboarding"
	"finclusion/internal/domain/profile"
	"finclusion/internal/domain/transaction"
	"finclusion/internal/infrastructure/filestore"
	"finclusion/internal/infrastructure/firebase"
	"finclusion/internal/infrastructure/postgres"
	httphandlers "finclusion/internal/interfaces/http"
	"finclusion/internal/shared/auth"
	"finclusion/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	CategoryHandler    *httphandlers.CategoryHandler
	TransactionHandler *httphandlers.TransactionHandler
	ProfileHandler     *httphandlers.ProfileHandler

	// Auth
	IdentityService *identity.Service

	// Uploads is set when profile images are kept on local disk and
	// served by this process.
	Uploads http.Handler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	images, uploads, err := newImageStore(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	identityRepo := postgres.NewIdentityRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Initialize domain services
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	identityService := identity.NewService(identityRepo, jwt)
	profileService := profile.NewService(profileRepo, images)
	categoryService := category.NewService(categoryRepo, transactionRepo)
	transactionService := transaction.NewService(transactionRepo, categoryRepo)
	registrar := onboarding.NewRegistrar(identityService, profileService, categoryService)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        httphandlers.NewAuthHandler(registrar, cfg.JWT.TTL),
		CategoryHandler:    httphandlers.NewCategoryHandler(categoryService),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService),
		ProfileHandler:     httphandlers.NewProfileHandler(profileService, cfg.Storage.MaxFileSize),
		IdentityService:    identityService,
		Uploads:            uploads,
	}, nil
}

// newImageStore picks the profile image backend. The disk backend also
// returns the handler that serves stored files under /uploads/.
func newImageStore(ctx context.Context, cfg *config.Config) (profile.ImageStore, http.Handler, error) {
	if cfg.Storage.Backend == config.StorageBackendFirebase {
		store, err := firebase.NewImageStore(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.Bucket)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Storing profile images in bucket %s", cfg.Firebase.Bucket)
		return store, nil, nil
	}

	baseURL := cfg.Storage.PublicBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	disk, err := filestore.NewDisk(cfg.Storage.UploadDir, baseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Storing profile images in %s", disk.Dir())
	return disk, http.StripPrefix("/uploads/", http.FileServer(http.Dir(disk.Dir()))), nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
