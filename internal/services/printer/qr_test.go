package printer

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isDark(t *testing.T, r, g, b uint32) bool {
	t.Helper()
	return r == 0 && g == 0 && b == 0
}

func TestQREncoder_Encode(t *testing.T) {
	code := NewQREncoder().Encode("LBL-0001")

	require.False(t, code.Blank())
	assert.Equal(t, "LBL-0001", code.SourceText)
	assert.True(t, strings.HasPrefix(code.Image, "data:image/png;base64,"))

	data, err := code.PNG()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, QRSize, img.Bounds().Dx())
	assert.Equal(t, QRSize, img.Bounds().Dy())

	// One quiet module around the symbol, then the top-left finder pattern
	r, g, b, _ := img.At(2, 2).RGBA()
	assert.False(t, isDark(t, r, g, b), "quiet zone should be light")
	r, g, b, _ = img.At(12, 12).RGBA()
	assert.True(t, isDark(t, r, g, b), "finder pattern should start after one module")
}

func TestGeneratedCode_ModulesMatchBitmap(t *testing.T) {
	code := NewQREncoder().Encode("PRD2410-0001|7-LOT2401-00|40")
	modules, err := code.Modules()
	require.NoError(t, err)
	assert.Equal(t, QRSize, modules.Width)
	assert.Equal(t, QRSize, modules.Height)

	data, err := code.PNG()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	for y := 0; y < QRSize; y++ {
		for x := 0; x < QRSize; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if modules.Dark(x, y) != isDark(t, r, g, b) {
				t.Fatalf("pixel %d,%d: traced dark=%v", x, y, modules.Dark(x, y))
			}
		}
	}
	assert.Less(t, len(modules.Rects), QRSize*QRSize/10, "rows of one module should merge")

	_, err = GeneratedCode{Image: "data:image/png;base64,bm90IGEgcG5n"}.Modules()
	assert.Error(t, err)
}

func TestQREncoder_Deterministic(t *testing.T) {
	enc := NewQREncoder()
	assert.Equal(t, enc.Encode("PRD2410").Image, enc.Encode("PRD2410").Image)
	assert.NotEqual(t, enc.Encode("PRD2410").Image, enc.Encode("PRD2411").Image)
}

func TestQREncoder_FailureReturnsSentinel(t *testing.T) {
	enc := NewQREncoder()

	assert.True(t, enc.Encode("").Blank())

	// Larger than the biggest QR version can hold
	code := enc.Encode(strings.Repeat("x", 8000))
	assert.True(t, code.Blank())
	assert.Equal(t, 8000, len(code.SourceText))
}

func TestDecodeDataURI(t *testing.T) {
	_, err := DecodeDataURI("")
	assert.Error(t, err)

	_, err = DecodeDataURI("data:image/jpeg;base64,AAAA")
	assert.Error(t, err)

	data, err := DecodeDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
