package places

import (
	"context"
	"errors"
	"testing"

	"parking-api/internal/gateway"

	"github.com/stretchr/testify/require"
)

type countingNotifier struct {
	single []int
	batch  [][]int
}

func (n *countingNotifier) NotifyPlaceChanged(placeID int) {
	n.single = append(n.single, placeID)
}

func (n *countingNotifier) NotifyPlacesChanged(placeIDs []int) {
	n.batch = append(n.batch, placeIDs)
}

func TestWithBroadcast_NotifiesOnceOnSuccess(t *testing.T) {
	n := &countingNotifier{}
	fn := func(_ context.Context, _ gateway.Gateway, _ string, p IDParams) (gateway.IDResult, error) {
		return gateway.IDResult{ID: p.ID}, nil
	}

	wrapped := WithBroadcast(n, fn)
	res, err := wrapped(context.Background(), nil, "alice", IDParams{ID: 42})
	require.NoError(t, err)
	require.Equal(t, 42, res.ID)
	require.Equal(t, []int{42}, n.single)
}

func TestWithBroadcast_SilentOnFailure(t *testing.T) {
	n := &countingNotifier{}
	boom := errors.New("boom")
	fn := func(_ context.Context, _ gateway.Gateway, _ string, p IDParams) (gateway.IDResult, error) {
		return gateway.IDResult{}, boom
	}

	wrapped := WithBroadcast(n, fn)
	_, err := wrapped(context.Background(), nil, "alice", IDParams{ID: 42})
	require.ErrorIs(t, err, boom)
	require.Empty(t, n.single)
}
