package dictionary

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"
)

// Loader loads the dictionary on first use. A failed load is retried on the
// next lookup instead of being cached.
type Loader struct {
	Path    string
	URL     string
	Timeout time.Duration

	mu   sync.Mutex
	dict *Dictionary
}

// Load returns the dictionary, downloading it first when the file is missing
// and a URL is configured.
func (l *Loader) Load(ctx context.Context) (*Dictionary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dict != nil {
		return l.dict, nil
	}
	if l.Path == "" {
		return nil, &UnavailableError{Err: errors.New("dictionary path is empty")}
	}
	if _, err := os.Stat(l.Path); err != nil {
		if !os.IsNotExist(err) || l.URL == "" {
			return nil, &UnavailableError{Err: err}
		}
		if _, err := Download(ctx, l.URL, l.Path, l.Timeout); err != nil {
			return nil, &UnavailableError{Err: err}
		}
	}
	dict, err := LoadFile(l.Path)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	l.dict = dict
	return dict, nil
}

// LookupChord implements Lookup.
func (l *Loader) LookupChord(ctx context.Context, word string) (string, error) {
	dict, err := l.Load(ctx)
	if err != nil {
		return "", err
	}
	return dict.LookupChord(ctx, word)
}
