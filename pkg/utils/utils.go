package utils

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

func EscapeMarkdownV2(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(text)
}

// NameColor maps an asset name to a stable RGB value for display purposes.
// The same name always maps to the same colour.
func NameColor(name string) uint32 {
	r := channelFromName(name)
	g := channelFromName(name + "salt1")
	b := channelFromName(name + "salt2")
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func channelFromName(name string) int {
	rng := rand.New(rand.NewSource(nameSeed(name)))
	return rng.Intn(256)
}

func nameSeed(name string) int64 {
	var seed uint64
	for _, b := range []byte(name) {
		seed = seed*31 + uint64(b)
	}
	return int64(seed)
}

// RoundToSig rounds x to n significant figures.
func RoundToSig(x float64, n int) float64 {
	if x == 0 {
		return 0
	}
	magnitude := math.Pow(10, float64(n-1)-math.Floor(math.Log10(math.Abs(x))))
	return math.Round(x*magnitude) / magnitude
}

// FormatAmount renders a value with thousands separators, e.g. 1,234,567.
func FormatAmount(x float64) string {
	s := strconv.FormatFloat(math.Round(x), 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var out strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(digit)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}

func FormatPrice(x float64) string {
	return fmt.Sprintf("%.2f", x)
}

func PrettyDate(t time.Time) string {
	return t.Format("02 Jan 2006 15:04")
}
