package draw

import (
	"bufio"
	"fmt"
	"strings"
)

// Sprite is a monochrome bitmap drawn scaled into an entity rect.
type Sprite struct {
	Width  int
	Height int
	bits   []bool
}

// ParseSprite builds a sprite from text art. Any character other than
// space or '.' is a set pixel. Lines shorter than the widest one are padded.
func ParseSprite(art string) (*Sprite, error) {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(art))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" && len(lines) == 0 {
			continue // Skip leading blank lines
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("sprite is empty")
	}

	width := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}

	s := &Sprite{Width: width, Height: len(lines), bits: make([]bool, width*len(lines))}
	for y, line := range lines {
		for x, r := range []rune(line) {
			if r != ' ' && r != '.' {
				s.bits[y*width+x] = true
			}
		}
	}
	return s, nil
}

// At reports whether the sprite pixel at (x, y) is set.
func (s *Sprite) At(x, y int) bool {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return false
	}
	return s.bits[y*s.Width+x]
}
