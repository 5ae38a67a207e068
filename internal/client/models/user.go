package models

import "time"

// RoleAdmin marks identities allowed to moderate quizzes and edit the shop.
const RoleAdmin = "Admin"

// Identity is the authenticated user's profile together with economy fields.
type Identity struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Points      int64     `json:"points"`
	Experience  int64     `json:"experience"`
	Level       int       `json:"level"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Economy projects the economy fields of the identity.
func (i Identity) Economy() EconomySnapshot {
	return EconomySnapshot{Points: i.Points, Experience: i.Experience, Level: i.Level}
}

// WithEconomy returns a copy of i carrying the given economy values.
func (i Identity) WithEconomy(e EconomySnapshot) Identity {
	i.Points = e.Points
	i.Experience = e.Experience
	i.Level = e.Level
	return i
}

// EconomySnapshot is the most recent server-confirmed economy state.
type EconomySnapshot struct {
	Points     int64 `json:"points"`
	Experience int64 `json:"experience"`
	Level      int   `json:"level"`
}

// WalletTotals carries server-confirmed totals to install into the economy.
// Nil fields are left as they are.
type WalletTotals struct {
	Points     int64
	Experience *int64
	Level      *int
}

// ProfileUpdate is a partial profile update; nil fields are not sent.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.AvatarURL == nil
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// Credentials is the login request body.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// UserStats are the per-user play statistics.
type UserStats struct {
	QuizzesPlayed          int `json:"quizzesPlayed"`
	TotalQuestionsAnswered int `json:"totalQuestionsAnswered"`
	CorrectAnswers         int `json:"correctAnswers"`
	BestStreak             int `json:"bestStreak"`
}

// UserUpdate is an admin-side partial edit of another user's account.
type UserUpdate struct {
	DisplayName *string `json:"displayName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Role        *string `json:"role,omitempty"`
	Points      *int64  `json:"points,omitempty"`
}
