package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter(t *testing.T) {
	require.Nil(t, newIPRateLimiter(0, 5))
	var unlimited *ipRateLimiter
	require.True(t, unlimited.allow("1.2.3.4"))

	now := time.Unix(1_700_000_000, 0)
	l := newIPRateLimiter(1, 2)
	l.nowTime = func() time.Time { return now }

	require.True(t, l.allow("1.2.3.4"))
	require.True(t, l.allow("1.2.3.4"))
	require.False(t, l.allow("1.2.3.4"))
	require.True(t, l.allow("5.6.7.8"), "buckets are per IP")

	now = now.Add(time.Second)
	require.True(t, l.allow("1.2.3.4"))
}

func TestColourMethod(t *testing.T) {
	require.Equal(t, Green+" GET    "+ResetColor, colourMethod("GET"))
	require.Equal(t, Magenta+" PATCH  "+ResetColor, colourMethod("PATCH"))
	require.Equal(t, Gray+"        "+ResetColor, colourMethod(""))
}
