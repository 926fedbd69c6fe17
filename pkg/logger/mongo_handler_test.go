package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	col := &fakeCollection{}
	h := newMongoHandler(col)

	log := slog.New(h).With("request_id", "abc123")
	log.Info("order created", "order_id", 7)
	log.WithGroup("auth").Warn("token rejected", "reason", "expired")
	h.Close()
	h.Close()

	require.Len(t, col.docs, 2)
	assert.Equal(t, "order created", col.docs[0].Msg)
	assert.Equal(t, "abc123", col.docs[0].RequestID)
	assert.EqualValues(t, 7, col.docs[0].Attrs["order_id"])
	assert.Equal(t, "WARN", col.docs[1].Level)
	assert.Equal(t, "expired", col.docs[1].Attrs["auth.reason"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	a, b := &fakeCollection{}, &fakeCollection{}
	ha, hb := newMongoHandler(a), newMongoHandler(b)

	slog.New(NewMultiHandler(ha, hb)).Error("boom")
	ha.Close()
	hb.Close()

	assert.Len(t, a.docs, 1)
	assert.Len(t, b.docs, 1)
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	tagged := L.With("request_id", "r-1")
	ctx := InjectLogger(context.Background(), tagged)
	assert.Same(t, tagged, WithCtx(ctx))
}
