package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/score"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c, err := NewClient(mr.Host(), port, "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRankingKeyCanonical(t *testing.T) {
	a := schema.Slots{"category": "business_card", "quantity": "500", "paper": "아트지"}
	b := schema.Slots{"paper": "아트지", "quantity": "500", "category": "business_card"}

	assert.Equal(t, RankingKey(a), RankingKey(b))

	c := a.Clone()
	c["quantity"] = "1000"
	assert.NotEqual(t, RankingKey(a), RankingKey(c))
}

func TestRankingRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	res := score.Result{
		Count: 2,
		Items: []score.ScoredCandidate{
			{VendorID: 1, Name: "한빛인쇄", EstimatedPrice: 150000, Scores: score.SubScores{Total: 90}},
		},
		All: []score.ScoredCandidate{
			{VendorID: 1, Name: "한빛인쇄", EstimatedPrice: 150000, Scores: score.SubScores{Total: 90}},
			{VendorID: 2, Name: "모던프린트", EstimatedPrice: 180000, Scores: score.SubScores{Total: 75}},
		},
	}

	key := RankingKey(schema.Slots{"category": "business_card", "quantity": "500"})
	require.NoError(t, c.SetRanking(ctx, key, res))

	got, hit, err := c.GetRanking(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, res.Count, got.Count)
	require.Len(t, got.All, 2)
	assert.Equal(t, int64(1), got.All[0].VendorID)
	assert.Equal(t, 90, got.All[0].Scores.Total)
}

func TestRankingMiss(t *testing.T) {
	c := newTestClient(t)

	_, hit, err := c.GetRanking(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInvalidateRankings(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	key := RankingKey(schema.Slots{"category": "poster"})
	require.NoError(t, c.SetRanking(ctx, key, score.Result{Count: 1}))
	require.NoError(t, c.InvalidateRankings(ctx))

	_, hit, err := c.GetRanking(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)
}
