package session

import (
	"context"
	"encoding/json"
)

type Store interface {
	// Load returns ErrNotFound when the id is unknown or expired.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

func encode(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(b []byte) (*Session, error) {
	var s Session

	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}

	return &s, nil
}
