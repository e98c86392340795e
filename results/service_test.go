package results

import (
	"context"
	"testing"
	"time"

	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/storage"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(storage.NewGuildRepository(storage.NewInMemoryStore()))
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 21, 30, 0, 0, utils.JST) }
	return svc
}

func seed(t *testing.T, svc *Service, guildID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Register(ctx, guildID, "Alpha", []int{500}, "5 1")
	require.NoError(t, err)
	_, err = svc.Register(ctx, guildID, "Beta", []int{480, 504}, "5 3")
	require.NoError(t, err)
	_, err = svc.Register(ctx, guildID, "alpine", []int{492, 492}, "5 2")
	require.NoError(t, err)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	tests := []struct {
		name    string
		scores  []int
		date    string
		want    models.Result
		wantErr error
	}{
		{"one score", []int{500}, "", models.Result{Score: 500, EnemyScore: 484, Enemy: "X", Date: "2024-05-10 21:30:00"}, nil},
		{"two scores", []int{450, 520}, "3", models.Result{Score: 450, EnemyScore: 520, Enemy: "X", Date: "2024-05-03 00:00:00"}, nil},
		{"full date", []int{500}, "2023 12 24", models.Result{Score: 500, EnemyScore: 484, Enemy: "X", Date: "2023-12-24 00:00:00"}, nil},
		{"no scores", nil, "", models.Result{}, ErrInvalidScoreInput},
		{"three scores", []int{1, 2, 3}, "", models.Result{}, ErrInvalidScoreInput},
		{"bad date", []int{500}, "2 30", models.Result{}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Register(ctx, "g", "X", tt.scores, tt.date)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ListIsSortedByDate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.List(ctx, "g")
	assert.ErrorIs(t, err, ErrEmptyResult)

	seed(t, svc, "g")
	list, err := svc.List(ctx, "g")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Alpha", "alpine", "Beta"}, []string{list[0].Enemy, list[1].Enemy, list[2].Enemy})
	assert.Equal(t, 2, list[2].ID)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	seed(t, svc, "g")

	matches, similar, err := svc.Search(ctx, "g", "Beta")
	require.NoError(t, err)
	assert.Nil(t, similar)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].ID)

	matches, similar, err = svc.Search(ctx, "g", "ALP")
	require.NoError(t, err)
	assert.Nil(t, matches)
	assert.Equal(t, []string{"Alpha", "alpine"}, similar)

	_, _, err = svc.Search(ctx, "g", "Zeta")
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	seed(t, svc, "g")

	_, err := svc.Delete(ctx, "g", nil)
	assert.ErrorIs(t, err, ErrInvalidIDInput)

	_, err = svc.Delete(ctx, "g", []int{0, 3})
	assert.ErrorIs(t, err, ErrIDOutOfRange)

	list, err := svc.List(ctx, "g")
	require.NoError(t, err)
	assert.Len(t, list, 3, "failed delete must not change results")

	deleted, err := svc.Delete(ctx, "g", []int{2, 0, 2})
	require.NoError(t, err)
	require.Len(t, deleted, 2)
	assert.Equal(t, "Alpha", deleted[0].Enemy)
	assert.Equal(t, "Beta", deleted[1].Enemy)

	list, err = svc.List(ctx, "g")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alpine", list[0].Enemy)
}

func TestService_Edit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	seed(t, svc, "g")

	edited, err := svc.Edit(ctx, "g", 0, Edit{Scores: []int{510}})
	require.NoError(t, err)
	assert.Equal(t, models.Result{Score: 510, EnemyScore: 484, Enemy: "Alpha", Date: "2024-05-01 00:00:00"}, edited)

	edited, err = svc.Edit(ctx, "g", 0, Edit{Enemy: "Gamma", Scores: []int{400, 584}, Date: "5 9"})
	require.NoError(t, err)
	assert.Equal(t, models.Result{Score: 400, EnemyScore: 584, Enemy: "Gamma", Date: "2024-05-09 00:00:00"}, edited)

	list, err := svc.List(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", list[2].Enemy, "edited date moves the result to the end")

	_, err = svc.Edit(ctx, "g", 5, Edit{Enemy: "Nope"})
	assert.ErrorIs(t, err, ErrIDOutOfRange)
	_, err = svc.Edit(ctx, "g", 0, Edit{Scores: []int{}})
	assert.ErrorIs(t, err, ErrInvalidScoreInput)
}

func TestService_Replace(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	seed(t, svc, "g")

	require.NoError(t, svc.Replace(ctx, "g", []models.Result{{Score: 1, EnemyScore: 2, Enemy: "Only", Date: "2024-01-01 00:00:00"}}))
	all, err := svc.All(ctx, "g")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Only", all[0].Enemy)
}
