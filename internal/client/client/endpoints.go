package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

var _ API = (*HTTPClient)(nil)

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.Post(ctx, "/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Identity, error) {
	var id models.Identity
	if err := c.Get(ctx, "/users/me", &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Identity, error) {
	var id models.Identity
	if err := c.Put(ctx, "/users/update-profile", update, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	return c.Delete(ctx, "/users/delete-account", nil)
}

func (c *HTTPClient) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	var stats models.UserStats
	if err := c.Get(ctx, "/users/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) ListQuizzes(ctx context.Context, official *bool) ([]models.Quiz, error) {
	path := "/quizzes"
	if official != nil {
		path += "?official=" + strconv.FormatBool(*official)
	}
	var quizzes []models.Quiz
	if err := c.Get(ctx, path, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *HTTPClient) GetQuiz(ctx context.Context, id int64) (*models.Quiz, error) {
	var q models.Quiz
	if err := c.Get(ctx, fmt.Sprintf("/quizzes/%d", id), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *HTTPClient) CreateQuiz(ctx context.Context, draft models.QuizDraft) (*models.Quiz, error) {
	var q models.Quiz
	if err := c.Post(ctx, "/quizzes", draft, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *HTTPClient) UpdateQuiz(ctx context.Context, id int64, draft models.QuizDraft) (*models.Quiz, error) {
	var q models.Quiz
	if err := c.Put(ctx, fmt.Sprintf("/quizzes/%d", id), draft, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *HTTPClient) DeleteQuiz(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/quizzes/%d", id), nil)
}

func (c *HTTPClient) SubmitResult(ctx context.Context, id int64, sub models.QuizSubmission) (*models.QuizSubmitResult, error) {
	var res models.QuizSubmitResult
	if err := c.Post(ctx, fmt.Sprintf("/quizzes/%d/submit", id), sub, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListShopItems(ctx context.Context) ([]models.ShopItem, error) {
	var items []models.ShopItem
	if err := c.Get(ctx, "/shop", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) GetInventory(ctx context.Context) ([]models.InventoryEntry, error) {
	var inv []models.InventoryEntry
	if err := c.Get(ctx, "/shop/my-inventory", &inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (c *HTTPClient) Purchase(ctx context.Context, itemID int64) (*models.PurchaseResult, error) {
	var res models.PurchaseResult
	if err := c.Post(ctx, fmt.Sprintf("/shop/purchase/%d", itemID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) GetPlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	var stats models.PlatformStats
	if err := c.Get(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.Identity, error) {
	var users []models.Identity
	if err := c.Get(ctx, "/Admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) (*models.Identity, error) {
	var user models.Identity
	if err := c.Put(ctx, fmt.Sprintf("/Admin/users/%d", id), update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) CreateShopItem(ctx context.Context, item models.ShopItem) (*models.ShopItem, error) {
	var created models.ShopItem
	if err := c.Post(ctx, "/Admin/shop", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateShopItem(ctx context.Context, item models.ShopItem) (*models.ShopItem, error) {
	var updated models.ShopItem
	if err := c.Put(ctx, fmt.Sprintf("/Admin/shop/%d", item.ID), item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) DeleteShopItem(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/Admin/shop/%d", id), nil)
}

func (c *HTTPClient) ListPendingQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.Get(ctx, "/Admin/quizzes/pending", &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *HTTPClient) VerifyQuiz(ctx context.Context, id int64) error {
	return c.Put(ctx, fmt.Sprintf("/Admin/quizzes/%d/verify", id), nil, nil)
}

func (c *HTTPClient) RejectQuiz(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/Admin/quizzes/%d/reject", id), nil)
}
