package theme

import (
	"testing"

	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/stretchr/testify/assert"
)

func TestPaletteFromTint(t *testing.T) {
	src := &tint.Tint{
		ID:          "Test_Tint",
		DisplayName: " Test Tint ",
		Fg:          tint.FromHex("#f8f8f2"),
		Bg:          tint.FromHex("#282a36"),
		BrightBlack: tint.FromHex("#6272a4"),
		Cyan:        tint.FromHex("#8be9fd"),
		BrightBlue:  tint.FromHex("#d6acff"),
		Green:       tint.FromHex("#50fa7b"),
		Blue:        tint.FromHex("#bd93f9"),
		Yellow:      tint.FromHex("#f1fa8c"),
		Red:         tint.FromHex("#ff5555"),
		BrightWhite: tint.FromHex("#ffffff"),
	}

	p := paletteFromTint(src)
	assert.Equal(t, "test_tint", p.Name)
	assert.Equal(t, "Test Tint", p.DisplayName)
	assert.Equal(t, "#F8F8F2", p.Colors[ColorTextPrimary].Light)
	assert.Equal(t, "#282A36", p.Colors[ColorSurface].Dark)
	assert.Equal(t, "#50FA7B", p.Colors[ColorSuccess].Light)
	assert.Equal(t, "#FF5555", p.Colors[ColorDanger].Dark)
}

func TestPaletteFromTintMissingChannels(t *testing.T) {
	assert.Empty(t, paletteFromTint(nil).Name)

	// unset channels fall back to the default palette at lookup time
	p := paletteFromTint(&tint.Tint{ID: "bare"})
	assert.Equal(t, "bare", p.Name)
	assert.NotEmpty(t, p.Color(ColorTextPrimary).Light)
}

func TestRegistryIncludesBundledTints(t *testing.T) {
	names := Available()
	assert.Contains(t, names, DefaultName)
	assert.Contains(t, names, DefaultDarkName)
	assert.Greater(t, len(names), 2, "bundled tints should register alongside the built-ins")
}
