package client

import (
	"context"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

// API is the typed contract of the quiz platform backend used by the stores.
// Every method returns ErrUnavailable/ErrBadResponse for transport failures
// and *APIError for answers the server rejected.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)

	GetProfile(ctx context.Context) (*models.Identity, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Identity, error)
	DeleteAccount(ctx context.Context) error
	GetUserStats(ctx context.Context) (*models.UserStats, error)

	ListQuizzes(ctx context.Context, official *bool) ([]models.Quiz, error)
	GetQuiz(ctx context.Context, id int64) (*models.Quiz, error)
	CreateQuiz(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, id int64, draft models.QuizDraft) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id int64) error
	SubmitResult(ctx context.Context, id int64, sub models.QuizSubmission) (*models.QuizSubmitResult, error)

	ListShopItems(ctx context.Context) ([]models.ShopItem, error)
	GetInventory(ctx context.Context) ([]models.InventoryEntry, error)
	Purchase(ctx context.Context, itemID int64) (*models.PurchaseResult, error)

	GetPlatformStats(ctx context.Context) (*models.PlatformStats, error)

	ListUsers(ctx context.Context) ([]models.Identity, error)
	UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (*models.Identity, error)
	CreateShopItem(ctx context.Context, item models.ShopItem) (*models.ShopItem, error)
	UpdateShopItem(ctx context.Context, item models.ShopItem) (*models.ShopItem, error)
	DeleteShopItem(ctx context.Context, id int64) error
	ListPendingQuizzes(ctx context.Context) ([]models.Quiz, error)
	VerifyQuiz(ctx context.Context, id int64) error
	RejectQuiz(ctx context.Context, id int64) error
}
