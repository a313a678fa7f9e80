package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	entries := []Entry{
		{Key: "general", Model: "facebook/bart-large-cnn"},
		{Key: "simplified", Model: "sshleifer/distilbart-cnn-12-6"},
	}

	registry, err := NewRegistry("http://localhost", "", 1024, entries, newTestLogger())
	require.NoError(t, err)
	require.Equal(t, []string{"general", "simplified"}, registry.Keys())

	m, ok := registry.Model("general")
	require.True(t, ok)
	require.NotNil(t, m)

	_, ok = registry.Model("missing")
	require.False(t, ok)
}

func TestNewRegistry_SkipsBadEntries(t *testing.T) {
	entries := []Entry{
		{Key: "", Model: "no-key"},
		{Key: "general", Model: "facebook/bart-large-cnn"},
		{Key: "general", Model: "duplicate/key"},
		{Key: "broken", Model: "  "},
	}

	registry, err := NewRegistry("http://localhost", "", 1024, entries, newTestLogger())
	require.NoError(t, err)
	require.Equal(t, []string{"general"}, registry.Keys())
}

func TestNewRegistry_EmptyIsFatal(t *testing.T) {
	_, err := NewRegistry("http://localhost", "", 1024, nil, newTestLogger())
	require.Error(t, err)

	_, err = NewRegistry("http://localhost", "", 1024, []Entry{{Key: "bad", Model: ""}}, newTestLogger())
	require.Error(t, err)
}

func TestRegistry_KeysIsACopy(t *testing.T) {
	registry, err := NewRegistry("http://localhost", "", 1024, []Entry{{Key: "general", Model: "m"}}, newTestLogger())
	require.NoError(t, err)

	keys := registry.Keys()
	keys[0] = "mutated"
	require.Equal(t, []string{"general"}, registry.Keys())
}
