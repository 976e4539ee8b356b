package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessager(t *testing.T) {
	var got []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		got = append(got, m.Content)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ctx := context.Background()
	m := NewMessager(srv.URL, "hardhat", true)

	require.NoError(t, m.Notify(ctx, "proposal 1 executed"))
	require.NoError(t, m.NotifyWarning(ctx, errors.New("ProposalManager skipped")))
	require.NoError(t, m.NotifyError(ctx, errors.New("queue: tx failed")))

	assert.Equal(t, []string{
		"[hardhat] proposal 1 executed",
		"[hardhat] warning: ProposalManager skipped",
		"[hardhat] error: queue: tx failed",
	}, got)
}

func TestMessagerDisabled(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	require.NoError(t, NewMessager(srv.URL, "hardhat", false).Notify(context.Background(), "hi"))
	require.NoError(t, NewMessager("", "hardhat", true).Notify(context.Background(), "hi"))
	assert.False(t, called)
}

func TestMessagerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewMessager(srv.URL, "sepolia", true).Notify(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrSendFailed)
}
