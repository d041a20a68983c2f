package model

import (
	"encoding/json"
	"time"
)

// DefaultBatchID is the id of the batch created when none exist.
const DefaultBatchID = "#24588"

// Batch groups signatures under a name with cached summary counts. The
// counters are maintained by callers, not by the store.
type Batch struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TotalSignatures int       `json:"totalSignatures"`
	Verified        int       `json:"verified"`
	Processing      int       `json:"processing"`
	Forgeries       int       `json:"forgeries"`
	CreatedDate     time.Time `json:"createdDate"`
	LastModified    time.Time `json:"lastModified"`
	Extra           Extra     `json:"-"`
}

var batchFields = []string{"id", "name", "totalSignatures", "verified", "processing", "forgeries", "createdDate", "lastModified"}

type batchJSON Batch

// MarshalJSON encodes the modeled fields plus any preserved extras.
func (b Batch) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(batchJSON(b))
	if err != nil {
		return nil, err
	}
	return mergeExtra(out, b.Extra)
}

// UnmarshalJSON decodes the modeled fields and keeps the rest in Extra.
func (b *Batch) UnmarshalJSON(data []byte) error {
	var v batchJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, batchFields)
	if err != nil {
		return err
	}
	v.Extra = extra
	*b = Batch(v)
	return nil
}
