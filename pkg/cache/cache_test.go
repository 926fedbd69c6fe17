package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsNoop(t *testing.T) {
	s := New(nil, "users", time.Minute)
	ctx := context.Background()

	assert.False(t, s.Enabled())
	assert.NoError(t, s.Set(ctx, "isatoltar", map[string]string{"a": "b"}))

	var out map[string]string
	assert.False(t, s.Get(ctx, "isatoltar", &out))
	assert.Nil(t, out)
}

func TestKeyIsNamespaced(t *testing.T) {
	assert.Equal(t, "pizzeria:users:isatoltar", New(nil, "users", time.Minute).Key("isatoltar"))
}

func TestNilStoreIsDisabled(t *testing.T) {
	var s *Store
	assert.False(t, s.Enabled())
}
