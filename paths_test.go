package cachecore

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinPathUsesDoubleColonSeparator(t *testing.T) {
	assert.Equal(t, "users::1::profile", JoinPath("users", "1", "profile"))
	assert.Equal(t, "", JoinPath())
}

func TestSetPathAndGetPathRoundTrip(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.SetPath("alice", 0, "users", "1", "name")
	v, ok := c.GetPath("users", "1", "name")
	require.True(t, ok)
	assert.Equal(t, "alice", v)
}

func TestEmptyPathIsANoOp(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.SetPath("ignored", 0) // no segments -> empty key -> silent no-op
	_, ok := c.GetPath()
	assert.False(t, ok)
	assert.False(t, c.ContainsPath())
	_, ok = c.RemovePath()
	assert.False(t, ok)
}

func TestContainsPathAndRemovePath(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.SetPath("bob", 0, "users", "2")
	assert.True(t, c.ContainsPath("users", "2"))

	v, ok := c.RemovePath("users", "2")
	require.True(t, ok)
	assert.Equal(t, "bob", v)
	assert.False(t, c.ContainsPath("users", "2"))
}

func TestKeysWithPrefixSweepsExpiredFirst(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.SetPath("a", 0, "users", "1")
	c.SetPath("b", 0, "users", "2")
	c.Set("other::1", "c", 0)
	c.Set("users::3", "expired", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	keys := c.KeysWithPrefix("users" + PathSeparator)
	sort.Strings(keys)
	assert.Equal(t, []string{"users::1", "users::2"}, keys)
}

func TestRemoveWithPrefixReturnsCountAndLeavesOthers(t *testing.T) {
	c := New[string]()
	defer c.Dispose()

	c.SetPath("a", 0, "users", "1")
	c.SetPath("b", 0, "users", "2")
	c.Set("sessions::1", "tok", 0)

	n := c.RemoveWithPrefix("users" + PathSeparator)
	assert.Equal(t, 2, n)
	assert.True(t, c.ContainsKey("sessions::1"))
	assert.False(t, c.ContainsPath("users", "1"))
}
