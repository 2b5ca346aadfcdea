package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
			assert.Equal(t, tt.id, Checksum([]byte(tt.data)))
		})
	}
}

func TestIDDistinguishesKeys(t *testing.T) {
	a := ID("ACCESS1-0/historical/r1i1p1/tos/ann_ano")
	b := ID("ACCESS1-0/rcp85/r1i1p1/tos/ann_ano")
	assert.NotEqual(t, a, b)
}
