package session

import (
	"encoding/json"
	"time"
)

// Record defines a public type used by twauth APIs.
//
// Record is the persisted session row: identity (primary key), the serialized
// cookie jar that last passed a login-state probe, and when it was written.
type Record struct {
	Identity  string
	Jar       []byte
	UpdatedAt time.Time
}

// envelope is the on-wire Redis value. The jar is embedded as raw JSON so
// stored records stay inspectable with plain redis-cli.
type envelope struct {
	Jar       json.RawMessage `json:"jar"`
	UpdatedAt int64           `json:"updated_at_ms"`
}
