package reddit

import (
	"encoding/json"
	"fmt"
	"os"
)

// Message is a reddit post, listing, or any other JSON object returned by the
// reddit API. Reddit's post schema is a union of many optional, mutually
// inconsistent shapes, so Message deliberately stays an untyped map with
// defensive accessors rather than a struct.
type Message map[string]any

// GetString retrieves message's string value with the given key. It returns
// the empty string if the key is absent or the value is not a string.
func (m Message) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}

// GetBool retrieves message's bool value with the given key. It returns false
// if the key is absent or the value is not a bool.
func (m Message) GetBool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

// GetMessage retrieves message's nested object with the given key. It returns
// nil if the key is absent or the value is not an object. Accessors on a nil
// Message are safe and report absence.
func (m Message) GetMessage(key string) Message {
	x, _ := m[key].(map[string]any)
	return Message(x)
}

// GetSlice retrieves message's array value with the given key. It returns nil
// if the key is absent or the value is not an array.
func (m Message) GetSlice(key string) []any {
	s, _ := m[key].([]any)
	return s
}

// GetMessages retrieves message's value with the given key as a slice of
// messages, e.g. a gallery's "items" field. Non-object elements are skipped.
func (m Message) GetMessages(key string) []Message {
	var ms []Message
	for _, a := range m.GetSlice(key) {
		if x, ok := a.(map[string]any); ok {
			ms = append(ms, Message(x))
		}
	}
	return ms
}

// Listing is one page of a reddit listing.
type Listing struct {
	Children []Message
	After    string // Pagination cursor; "" when the listing is exhausted.
}

// ParseListingPage decodes a reddit listing page from raw JSON. It accepts
// the full listing shape {data: {children: [...], after: ...}} as well as a
// bare array of children. Any other top-level shape is a caller contract
// violation and returns an error.
func ParseListingPage(b []byte) (*Listing, error) {
	var top any
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, err
	}

	switch t := top.(type) {
	case map[string]any:
		data := Message(t).GetMessage("data")
		return &Listing{
			Children: data.GetMessages("children"),
			After:    data.GetString("after"),
		}, nil

	case []any:
		var ms []Message
		for i, a := range t {
			x, ok := a.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("wrong type for listing child idx=%d: have=%T want=map[string]any", i, a)
			}
			ms = append(ms, Message(x))
		}
		return &Listing{Children: ms}, nil

	default:
		return nil, fmt.Errorf("wrong type for listing: have=%T want=map[string]any or []any", top)
	}
}

// ParseListing decodes a reddit listing and returns its child entries.
func ParseListing(b []byte) ([]Message, error) {
	listing, err := ParseListingPage(b)
	if err != nil {
		return nil, err
	}
	return listing.Children, nil
}

// ParsePost decodes a single reddit post from raw JSON. The input must be an
// object; its "data" field (if any) holds the post fields.
func ParsePost(b []byte) (Message, error) {
	m := Message{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadListing reads and parses a listing saved on disk.
func ReadListing(filename string) ([]Message, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseListing(b)
}
