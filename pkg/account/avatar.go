package account

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AvatarConfig controls the generated gradient colours.
type AvatarConfig struct {
	Saturation int `env:"FRONTDOOR_AVATAR_SATURATION" envDefault:"65"`
	Lightness  int `env:"FRONTDOOR_AVATAR_LIGHTNESS" envDefault:"55"`
}

// DefaultAvatarConfig returns the stock colours.
func DefaultAvatarConfig() AvatarConfig {
	return AvatarConfig{Saturation: 65, Lightness: 55}
}

// Avatar is a letter avatar: an initial on a two-colour gradient derived
// deterministically from an identifier, usually the email.
type Avatar struct {
	Identifier string
	Initial    string
	Gradient   string // CSS linear-gradient(...)
	TextColor  string
	Hue1       float64
	Hue2       float64
}

// BackgroundStyle returns the inline CSS for the gradient.
func (a Avatar) BackgroundStyle() string {
	return "background: " + a.Gradient + ";"
}

// TextStyle returns the inline CSS for the initial.
func (a Avatar) TextStyle() string {
	return "color: " + a.TextColor + ";"
}

// Style combines BackgroundStyle and TextStyle.
func (a Avatar) Style() string {
	return a.BackgroundStyle() + " " + a.TextStyle()
}

// NewAvatar builds the avatar for identifier. The initial comes from name, or
// from the identifier when name is empty.
func NewAvatar(identifier, name string, cfg AvatarConfig) Avatar {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(identifier))))
	hash := hex.EncodeToString(sum[:])

	hue1 := hexByte(hash[0:2]) / 255 * 360
	hue2 := hexByte(hash[2:4]) / 255 * 360
	angle := hexByte(hash[4:6]) / 255 * 360

	// Keep the two hues visibly apart.
	if math.Abs(hue1-hue2) < 30 {
		hue2 = math.Mod(hue1+60, 360)
	}

	color1 := fmt.Sprintf("hsl(%d, %d%%, %d%%)", int(hue1), cfg.Saturation, cfg.Lightness)
	color2 := fmt.Sprintf("hsl(%d, %d%%, %d%%)", int(hue2), cfg.Saturation, cfg.Lightness)

	textColor := "#ffffff"
	if cfg.Lightness > 55 {
		textColor = "#1f2937"
	}

	return Avatar{
		Identifier: identifier,
		Initial:    initial(name, identifier),
		Gradient:   fmt.Sprintf("linear-gradient(%ddeg, %s, %s)", int(angle), color1, color2),
		TextColor:  textColor,
		Hue1:       hue1,
		Hue2:       hue2,
	}
}

// Avatar returns the letter avatar for the account, keyed by its email.
func (a *Account) Avatar(cfg AvatarConfig) Avatar {
	return NewAvatar(a.Email, a.Name, cfg)
}

func hexByte(s string) float64 {
	v, _ := strconv.ParseUint(s, 16, 8)
	return float64(v)
}
