package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/termnavi/internal/domain"
)

type songCache []domain.Song

func (c songCache) AllSongs() []domain.Song { return c }

func TestKey(t *testing.T) {
	assert.Equal(t, "la vie en rose edith piaf", Key(domain.Song{Title: "La Vie en Rose", Artist: "Édith Piaf"}))
	assert.Equal(t, "help!", Key(domain.Song{Title: "Help!"}))
}

func TestFilterLocal(t *testing.T) {
	cache := songCache{
		{ID: "1", Title: "Come Together", Artist: "The Beatles", Album: "Abbey Road"},
		{ID: "2", Title: "Something", Artist: "The Beatles", Album: "Abbey Road"},
		{ID: "3", Title: "Hymne à l'amour", Artist: "Édith Piaf"},
	}
	s := NewService(cache, nil)

	got := Songs(s.FilterLocal("together"))
	require.NotEmpty(t, got)
	assert.Equal(t, "1", got[0].ID)

	got = Songs(s.FilterLocal("EDITH"))
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	assert.Empty(t, s.FilterLocal("zzzz"))
	assert.Empty(t, s.FilterLocal("   "))
}

func TestFilterLocal_EmptyCache(t *testing.T) {
	assert.Empty(t, NewService(songCache(nil), nil).FilterLocal("abc"))
	assert.Empty(t, NewService(nil, nil).FilterLocal("abc"))
}
