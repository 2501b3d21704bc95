package qrlabel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload(t *testing.T) {
	got := Payload("TYT-2023-BRK", "Brake Pad", "Camry", "2023", 45.99)
	assert.Equal(t, "TYT-2023-BRK|Brake Pad|Camry|2023|45.99", got)
}

func TestPayloadPadsPrice(t *testing.T) {
	got := Payload("C-1", "Oil Filter", "Civic", "2019", 12.5)
	assert.Equal(t, "C-1|Oil Filter|Civic|2019|12.50", got)
}

func TestRenderProducesPNG(t *testing.T) {
	img, err := Render("C-1|Oil Filter|Civic|2019|12.50", 128)
	require.NoError(t, err)
	require.NotEmpty(t, img)
	// PNG signature
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img[:4])
}

func TestRenderRaisesTinySizes(t *testing.T) {
	img, err := Render("x", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}
