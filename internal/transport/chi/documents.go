package chi

import (
	"encoding/json"
	"strings"
)

// summarizeDocument accepts either a bare JSON string or an object with
// a "text" field, matching what the search endpoint hands back to
// clients. Anything else decodes to an empty text and is dropped.
type summarizeDocument struct {
	Text string
}

func (d *summarizeDocument) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Text = s
		return nil
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		d.Text = obj.Text
		return nil
	}

	d.Text = ""
	return nil
}

// documentTexts extracts the non-blank texts in order.
func documentTexts(docs []summarizeDocument) []string {
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		texts = append(texts, d.Text)
	}
	return texts
}
