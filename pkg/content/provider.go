package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// Provider fetches the remote content of a page. A page that exists but
// carries no data returns a nil Tree and no error.
type Provider interface {
	Fetch(ctx context.Context, pageID string) (Tree, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, pageID string) (Tree, error)

func (f ProviderFunc) Fetch(ctx context.Context, pageID string) (Tree, error) {
	return f(ctx, pageID)
}

// Writer is implemented by providers that can store page content.
type Writer interface {
	Save(ctx context.Context, pageID string, data Tree) error
}

var pageIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,127}$`)

// ValidatePageID checks that id is a lowercase slug usable as a URL path
// segment, object key or table key.
func ValidatePageID(id string) error {
	if !pageIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidPageID, id)
	}
	return nil
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// DecodeEnvelope reads a {"data": {...} | null} document. Numbers are kept as
// json.Number.
func DecodeEnvelope(r io.Reader) (Tree, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	return DecodeTree(env.Data)
}

// DecodeTree parses a JSON object. Empty input and null decode to a nil Tree.
func DecodeTree(data []byte) (Tree, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '{' {
		return nil, fmt.Errorf("%w: data must be an object or null", ErrInvalidPayload)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var t Tree
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	return t, nil
}

// EncodeEnvelope writes data in the envelope DecodeEnvelope reads.
func EncodeEnvelope(data Tree) ([]byte, error) {
	return json.Marshal(struct {
		Data Tree `json:"data"`
	}{Data: data})
}
