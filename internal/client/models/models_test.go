package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdentity_EconomyRoundTrip(t *testing.T) {
	id := Identity{ID: 1, DisplayName: "alice", Points: 10, Experience: 20, Level: 3}

	e := id.Economy()
	require.Equal(t, EconomySnapshot{Points: 10, Experience: 20, Level: 3}, e)

	updated := id.WithEconomy(EconomySnapshot{Points: 5, Experience: 30, Level: 4})
	require.Equal(t, int64(5), updated.Points)
	require.Equal(t, "alice", updated.DisplayName)
	require.Equal(t, int64(10), id.Points, "receiver must not be mutated")
}

func TestIdentity_IsAdmin(t *testing.T) {
	require.True(t, Identity{Role: "Admin"}.IsAdmin())
	require.False(t, Identity{Role: "User"}.IsAdmin())
}

func TestQuiz_CloneIsDeep(t *testing.T) {
	now := time.Now()
	q := Quiz{ID: 1, Questions: []Question{{Text: "q", Distractors: []string{"a", "b"}}}, CreatedAt: &now}

	c := q.Clone()
	c.Questions[0].Distractors[0] = "changed"
	c.Questions[0].Text = "changed"
	*c.CreatedAt = now.Add(time.Hour)

	require.Equal(t, "a", q.Questions[0].Distractors[0])
	require.Equal(t, "q", q.Questions[0].Text)
	require.Equal(t, now, *q.CreatedAt)
}

func TestShopItem_PresetClass(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"preset:gold", "item-preset-gold"},
		{"preset:", ""},
		{"https://cdn/img.png", ""},
		{"", ""},
		{"linear-gradient(red, blue)", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ShopItem{ImageURL: tt.url}.PresetClass(), tt.url)
	}
}

func TestEnumsString(t *testing.T) {
	require.Equal(t, "Legendary", RarityLegendary.String())
	require.Equal(t, "Unknown", ItemRarity(9).String())
	require.Equal(t, "Ticket", ItemTicket.String())
	require.Equal(t, "Unknown", ItemType(-1).String())
}

func TestQuizSubmitResult_OptionalTotals(t *testing.T) {
	var r QuizSubmitResult
	require.NoError(t, json.Unmarshal([]byte(`{"pointsGained":5,"xpGained":7,"isLevelUp":true,"currentLevel":2}`), &r))
	require.Nil(t, r.NewTotalPoints)
	require.True(t, r.IsLevelUp)

	require.NoError(t, json.Unmarshal([]byte(`{"newTotalPoints":120}`), &r))
	require.NotNil(t, r.NewTotalPoints)
	require.Equal(t, int64(120), *r.NewTotalPoints)
}

func TestProfileUpdate_Empty(t *testing.T) {
	require.True(t, ProfileUpdate{}.Empty())
	name := "bob"
	require.False(t, ProfileUpdate{DisplayName: &name}.Empty())

	b, err := json.Marshal(ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	require.JSONEq(t, `{"displayName":"bob"}`, string(b))
}
