package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrama-dev/hybridcore/internal/pool"
)

func TestPostingScratchRoundTrip(t *testing.T) {
	m := pool.GetPostingScratch()
	assert.Empty(t, m)
	m["foo"] = 3
	pool.PutPostingScratch(m)

	m2 := pool.GetPostingScratch()
	assert.Empty(t, m2, "scratch must come back cleared")
}

func TestVisitedSetRoundTrip(t *testing.T) {
	s := pool.GetVisitedSet()
	s[7] = struct{}{}
	pool.PutVisitedSet(s)

	s2 := pool.GetVisitedSet()
	assert.Empty(t, s2)
}

func TestArenaAcquireReleaseResets(t *testing.T) {
	a := pool.AcquireArena()
	a.Lexical = append(a.Lexical, pool.ScoredID{ID: 1, Score: 0.5})
	a.Terms[1] = []string{"foo"}
	pool.ReleaseArena(a)

	b := pool.AcquireArena()
	assert.Empty(t, b.Lexical)
	assert.Empty(t, b.Semantic)
	assert.Empty(t, b.Graph)
	assert.Empty(t, b.Terms)
}

func TestConfigureDisablesPooling(t *testing.T) {
	pool.Configure(false)
	defer pool.Configure(true)
	assert.False(t, pool.IsEnabled())

	a := pool.AcquireArena()
	assert.NotNil(t, a)
}
