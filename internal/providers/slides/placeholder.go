package slides

import "fmt"

const (
	placeholderCount  = 5
	placeholderWidth  = 1920
	placeholderHeight = 1080
)

// PlaceholderSlide builds an SVG slide carrying a visible 1-based page number.
func PlaceholderSlide(pageNumber int) []byte {
	svg := fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
    <rect width="100%%" height="100%%" fill="#1e293b"/>
    <rect x="50" y="50" width="%d" height="%d" fill="#334155" rx="10"/>
    <text x="50%%" y="45%%" text-anchor="middle" font-size="64" fill="#e2e8f0" font-family="Arial, sans-serif">Slide %d</text>
    <text x="50%%" y="55%%" text-anchor="middle" font-size="32" fill="#94a3b8" font-family="Arial, sans-serif">Lecture Content (Mock)</text>
</svg>`,
		placeholderWidth, placeholderHeight,
		placeholderWidth-100, placeholderHeight-100,
		pageNumber,
	)
	return []byte(svg)
}

// PlaceholderSlides is the fixed-size fallback deck.
func PlaceholderSlides() [][]byte {
	pages := make([][]byte, placeholderCount)
	for i := range pages {
		pages[i] = PlaceholderSlide(i + 1)
	}
	return pages
}
