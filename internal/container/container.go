package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joshua-takyi/devconnector/internal/config"
	"github.com/joshua-takyi/devconnector/internal/helpers"
	"github.com/joshua-takyi/devconnector/internal/models"
	"github.com/joshua-takyi/devconnector/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Tokens         *helpers.TokenService
	UserService    *services.UserService
	ProfileService *services.ProfileService
	PostService    *services.PostService
	AccountService *services.AccountService
}

// Repos groups the store implementations the services run on.
type Repos struct {
	Users    models.UserRepo
	Profiles models.ProfileRepo
	Posts    models.PostRepo
}

// MongoRepos backs every repo with the same database.
func MongoRepos(db *mongo.Database) (*models.MongodbRepo, Repos) {
	repo := models.MongodbNewRepo(db)
	return repo, Repos{Users: repo, Profiles: repo, Posts: repo}
}

// NewContainer creates a new dependency injection container. cld may be nil,
// in which case profile image upload is turned off.
func NewContainer(cfg *config.Config, logger *slog.Logger, repos Repos, cld *cloudinary.Cloudinary) *Container {
	tokens := helpers.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	hasher := helpers.NewPasswordHasher(cfg.BcryptCost)

	var uploader services.ImageUploader
	if cld != nil {
		uploader = helpers.NewCloudinaryUploader(cld, helpers.AvatarFolder)
	}

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Tokens:         tokens,
		UserService:    services.NewUserService(repos.Users, hasher, tokens, logger),
		ProfileService: services.NewProfileService(repos.Profiles, repos.Users, uploader, logger),
		PostService:    services.NewPostService(repos.Posts, repos.Users, logger),
		AccountService: services.NewAccountService(repos.Posts, repos.Profiles, repos.Users, logger),
	}
}
