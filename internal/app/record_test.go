package app

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord_IdentityIsPath(t *testing.T) {
	r := NewRecord("/Applications/Safari.app", "Safari", 12.5)
	assert.Equal(t, "/Applications/Safari.app", r.Identity)
	assert.Equal(t, r.Path, r.Identity)
	assert.Equal(t, 12.5, r.LastLaunched)
}

func TestNewRecord_ClampsInvalidTimes(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		r := NewRecord("/a.app", "A", v)
		assert.Equal(t, 0.0, r.LastLaunched, "value %v", v)
	}
}

func TestHistory_Lookup(t *testing.T) {
	h := History{"/a.app": 100, "/b.app": -5}
	assert.Equal(t, 100.0, h.Lookup("/a.app"))
	assert.Equal(t, 0.0, h.Lookup("/b.app"))
	assert.Equal(t, 0.0, h.Lookup("/missing.app"))

	var nilHistory History
	assert.Equal(t, 0.0, nilHistory.Lookup("/a.app"))
}

func TestHistory_CloneIsIndependent(t *testing.T) {
	h := History{"/a.app": 1}
	c := h.Clone()
	c["/a.app"] = 2
	assert.Equal(t, 1.0, h["/a.app"])
}

func TestLastLaunchedTime(t *testing.T) {
	assert.True(t, Record{}.LastLaunchedTime().IsZero())

	at := time.Unix(1700000000, 500_000_000)
	r := NewRecord("/a.app", "A", UnixSeconds(at))
	assert.WithinDuration(t, at, r.LastLaunchedTime(), time.Millisecond)
}
