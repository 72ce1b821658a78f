// Package roadmap turns generated learning-plan text into a structured
// document and renders it back for display.
package roadmap

import "strings"

// Document is a parsed roadmap. An empty Sections slice means no structure
// was recognized and callers should show the raw lines instead.
type Document struct {
	Sections []Section `json:"sections"`
}

// Section is a top-level heading such as "Weak Areas".
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is a topic within a section. Title may be empty when bullets appear
// before any topic heading.
type Item struct {
	Title   string   `json:"title,omitempty"`
	Bullets []string `json:"bullets"`
}

// Empty reports whether no section was recognized.
func (d Document) Empty() bool { return len(d.Sections) == 0 }

const marker = "**"

var sectionKeywords = []string{"weak areas", "strong areas"}

var bulletGlyphs = []string{"•", "-"}

// markerText returns the text between bold markers, or false if line is not
// a marker line.
func markerText(line string) (string, bool) {
	if len(line) < 2*len(marker) || !strings.HasPrefix(line, marker) || !strings.HasSuffix(line, marker) {
		return "", false
	}
	return strings.TrimSpace(line[len(marker) : len(line)-len(marker)]), true
}

func isSectionTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range sectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func bulletText(line string) (string, bool) {
	for _, g := range bulletGlyphs {
		if rest, ok := strings.CutPrefix(line, g); ok {
			return strings.TrimLeft(rest, " \t"), true
		}
	}
	return "", false
}

// Parse builds a Document from roadmap lines in a single forward pass.
//
// Marker lines (**...**) whose text names weak or strong areas open a
// section; other marker lines open an item. Lines starting with • or - add
// a bullet to the pending item, creating an untitled one if needed. Items
// seen before the first section are carried into it. Everything else is
// ignored.
func Parse(lines []string) Document {
	var (
		doc     Document
		section *Section
		item    *Item
	)

	flushItem := func() {
		if item != nil && section != nil {
			section.Items = append(section.Items, *item)
			item = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if title, ok := markerText(line); ok {
			if isSectionTitle(title) {
				flushItem()
				if section != nil {
					doc.Sections = append(doc.Sections, *section)
				}
				section = &Section{Title: title, Items: []Item{}}
				continue
			}
			flushItem()
			// With no open section the previous pending item is replaced.
			item = &Item{Title: title, Bullets: []string{}}
			continue
		}

		if text, ok := bulletText(line); ok {
			if item == nil {
				item = &Item{Bullets: []string{}}
			}
			item.Bullets = append(item.Bullets, text)
		}
	}

	flushItem()
	if section != nil {
		doc.Sections = append(doc.Sections, *section)
	}
	return doc
}
