package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name string
		want CompressionType
		ok   bool
	}{
		{"zstd", CompressionZstd, true},
		{"LZ4", CompressionLZ4, true},
		{"s2", CompressionS2, true},
		{"", CompressionNone, true},
		{"gzip", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCompression(tt.name)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestKind(t *testing.T) {
	require.True(t, KindModes.IsValid())
	require.False(t, Kind(0).IsValid())
	require.False(t, Kind(9).IsValid())
	require.Equal(t, "Regression", KindRegression.String())
	require.Equal(t, "Unknown", Kind(9).String())
}
