package catalog

import (
	"strings"
	"unicode/utf16"
)

// Palette holds the avatar colours Color picks from.
var Palette = []string{
	"#3b82f6", "#10b981", "#f59e0b", "#ef4444",
	"#8b5cf6", "#06b6d4", "#84cc16", "#f97316",
	"#ec4899", "#6366f1", "#14b8a6", "#f59e0b",
}

// Color picks a palette entry from a 32-bit string hash of name, so an
// object keeps its colour across sessions and clients.
func Color(name string) string {
	return Palette[colorIndex(name)]
}

func colorIndex(name string) int {
	var h int64
	for _, c := range utf16.Encode([]rune(name)) {
		h = int64(c) + int64(int32(h)<<5) - h
	}
	if h < 0 {
		h = -h
	}
	return int(h % int64(len(Palette)))
}

const (
	imagePrefix  = "https://images.unsplash.com/photo-"
	imageSuffix  = "?w=300&h=300&fit=crop&crop=center"
	defaultImage = "1560472354-b33ff0c44a43"
	phoneImage   = "1511707171634-5f897ff02aa9"
	ipadImage    = "1561154464-82e9adf32764"
	macbookImage = "1517336714731-489689fd1ca8"
	watchImage   = "1434493789847-2f02dc6ca35d"
	airpodsImage = "1606220945770-b5b6c2c55bf1"
	beatsImage   = "1505740420928-5e560c06d30e"
)

type match struct {
	needle string
	value  string
}

// Specific models first, then product families.
var imageTable = []match{
	{"google pixel", phoneImage},
	{"iphone 12 mini", "1592750475338-74b7b21085ab"},
	{"iphone 12 pro max", "1605236453806-6ff36851218e"},
	{"iphone 11", "1556656793-08538906a9f8"},
	{"samsung galaxy z fold", phoneImage},
	{"airpods", airpodsImage},
	{"macbook pro", macbookImage},
	{"apple watch", watchImage},
	{"beats studio", beatsImage},
	{"ipad mini", ipadImage},
	{"ipad air", "1544244015-0df4b3ffc6b0"},

	{"iphone", phoneImage},
	{"ipad", ipadImage},
	{"macbook", macbookImage},
	{"watch", watchImage},
	{"beats", beatsImage},
	{"pixel", phoneImage},
	{"samsung", phoneImage},
}

var iconTable = []match{
	{"iphone", "📱"}, {"phone", "📱"}, {"pixel", "📱"},
	{"ipad", "📱"}, {"tablet", "📱"},
	{"macbook", "💻"}, {"laptop", "💻"},
	{"watch", "⌚"},
	{"airpods", "🎧"}, {"headphones", "🎧"}, {"beats", "🎧"},
	{"samsung", "📱"},
	{"google", "📱"},
}

// ImageURL returns a product photo for name, chosen by substring.
func ImageURL(name string) string {
	return imagePrefix + lookup(imageTable, name, defaultImage) + imageSuffix
}

// Icon returns an emoji for name, chosen by substring.
func Icon(name string) string {
	return lookup(iconTable, name, "📦")
}

func lookup(table []match, name, fallback string) string {
	lower := strings.ToLower(name)
	for _, m := range table {
		if strings.Contains(lower, m.needle) {
			return m.value
		}
	}
	return fallback
}
