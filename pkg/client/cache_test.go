package client

import (
	"testing"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/stretchr/testify/assert"
)

func TestCacheLastInvalidateWins(t *testing.T) {
	c := NewCache()
	key := DefaultPageKey(0, 10)

	gen := c.begin(key)
	c.Invalidate(key)

	// a fetch that started before the invalidation must not land
	stale := models.NewMissionPage([]models.Mission{{ID: 99}}, 1, 0, 10)
	assert.False(t, c.commit(key, gen, stale))
	_, ok := c.Get(key)
	assert.False(t, ok)

	gen = c.begin(key)
	fresh := models.NewMissionPage([]models.Mission{{ID: 1}}, 1, 0, 10)
	assert.True(t, c.commit(key, gen, fresh))
	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, int64(1), got.Content[0].ID)
}

func TestCacheKeysAreIsolated(t *testing.T) {
	c := NewCache()
	k0 := DefaultPageKey(0, 10)
	k1 := DefaultPageKey(1, 10)

	c.commit(k0, c.begin(k0), models.NewMissionPage([]models.Mission{{ID: 1, Tasks: []models.Task{}}}, 1, 0, 10))
	c.commit(k1, c.begin(k1), models.NewMissionPage([]models.Mission{{ID: 2, Tasks: []models.Task{}}}, 1, 1, 10))

	// mutating a mission on one page leaves the other page alone
	ok := c.mutateMission(k0, 1, func(m *models.Mission) {
		m.Tasks = append(m.Tasks, models.Task{ID: -1, Title: "x", Difficulty: 3})
	})
	assert.True(t, ok)

	p1, _ := c.Get(k1)
	assert.Empty(t, p1.Content[0].Tasks)

	// a mission absent from the keyed page is reported, not guessed
	assert.False(t, c.mutateMission(k1, 1, func(m *models.Mission) {}))
}

func TestCacheReady(t *testing.T) {
	c := NewCache()
	assert.False(t, c.Ready())
	key := DefaultPageKey(0, 10)
	c.commit(key, c.begin(key), models.NewMissionPage(nil, 0, 0, 10))
	assert.True(t, c.Ready())
}
