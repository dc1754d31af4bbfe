package score

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ErrInvalidDump is returned when a link dump is structurally unusable.
// Individual malformed links never error; they just carry targets nothing
// will match.
var ErrInvalidDump = errors.New("invalid link dump")

// LoadDump reads and parses a renderer link dump file.
func LoadDump(path string) (*MemoryDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDump(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseDump decodes a renderer link dump into a MemoryDocument.
//
// The dump is the JSON a renderer writes after extracting the navigable
// links of a typeset score:
//
//	{
//	  "score": "build/score.pdf",
//	  "pages": [
//	    {"links": [{"url": "textedit:///a.ly:2:4:1", "area": [x0,y0,x1,y1]}]}
//	  ]
//	}
//
// Page order and per-page link order are preserved. Links with a missing
// or short "area" get a zero region; links with no "url" get an empty
// target.
func ParseDump(data []byte) (*MemoryDocument, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidDump)
	}

	root := gjson.ParseBytes(data)
	pagesVal := root.Get("pages")
	if !pagesVal.IsArray() {
		return nil, fmt.Errorf("%w: missing \"pages\" array", ErrInvalidDump)
	}

	var pages []MemoryPage
	pagesVal.ForEach(func(_, page gjson.Result) bool {
		var links []Link
		page.Get("links").ForEach(func(_, link gjson.Result) bool {
			ml := MemoryLink{Target: link.Get("url").String()}
			if area := link.Get("area").Array(); len(area) >= 4 {
				ml.Region = Rect{
					X0: area[0].Float(),
					Y0: area[1].Float(),
					X1: area[2].Float(),
					Y1: area[3].Float(),
				}
			}
			links = append(links, ml)
			return true
		})
		pages = append(pages, NewMemoryPage(links...))
		return true
	})

	doc := NewMemoryDocument(pages...)
	doc.source = root.Get("score").String()
	return doc, nil
}
