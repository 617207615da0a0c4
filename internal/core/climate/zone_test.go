package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveZone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		location string
		want     Zone
	}{
		{"exact city", "Penzance", 9},
		{"exact city with padding", "  INVERNESS ", 7},
		{"exact region", "Cornwall", 9},
		{"exact region island", "Isles of Scilly", 10},
		{"unknown place defaults", "totally unknown place", DefaultZone},
		{"empty defaults", "", DefaultZone},
		{"blank defaults", "   ", DefaultZone},
		{"location contains city", "Newlyn, near Penzance, Cornwall", 9},
		{"city wins over region in substring scan", "Aviemore, Cairngorms", 7},
		{"city key inside region name", "a village in north yorkshire", 8},
		{"location contains region only", "somewhere in the highlands", 7},
		{"city key contains location", "aberyst", 9},
		{"region key contains location", "pembroke", 9},
		{"declared order breaks ties", "london or inverness", 9},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ResolveZone(tt.location))
		})
	}
}

func TestResolveZone_AlwaysInRange(t *testing.T) {
	t.Parallel()

	for _, loc := range []string{"x", "?", "scilly", "north", "st", "!!!", "Ω"} {
		z := ResolveZone(loc)
		assert.True(t, z.Valid(), "zone %d out of range for %q", z, loc)
	}
}

func TestLookupInfo(t *testing.T) {
	t.Parallel()

	info := LookupInfo(9)
	assert.Equal(t, Zone(9), info.Zone)
	assert.NotEmpty(t, info.Description)
	assert.Less(t, info.MinTempC, info.MaxTempC)

	assert.Equal(t, DefaultZone, LookupInfo(42).Zone)
	assert.Equal(t, "zone 8", DefaultZone.String())
}
