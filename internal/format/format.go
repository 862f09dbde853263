// Package format turns stored listing values into display strings and
// derives storage keys for uploaded images.
package format

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Price renders a price as US currency with no decimals, e.g. 2300 -> "$2,300".
func Price(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-$" + printer.Sprintf("%d", -rounded)
	}
	return "$" + printer.Sprintf("%d", rounded)
}

// RelativeAge describes how long ago t was, relative to now. Months are 30
// days and there is no year bucket.
func RelativeAge(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}

	minutes := int64(diff / time.Minute)
	hours := int64(diff / time.Hour)
	days := hours / 24

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return plural(minutes, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return plural(days/7, "week")
	default:
		return plural(days/30, "month")
	}
}

func plural(n int64, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// Extension returns the text after the last "." of name, or "" if there is none.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// UploadKey builds the object key "{epoch-millis}_{token}.{extension}".
// A name without an extension still yields the trailing dot.
func UploadKey(originalName string, now time.Time, token string) string {
	return fmt.Sprintf("%d_%s.%s", now.UnixMilli(), token, Extension(originalName))
}

const (
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	// TokenLength is the length of the random part of an upload key.
	TokenLength = 13
)

// RandomToken returns n random base36 characters.
func RandomToken(n int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b.WriteByte(tokenAlphabet[idx.Int64()])
	}
	return b.String(), nil
}

// IsValidURL reports whether raw parses as an absolute http or https URL.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
