package inventory

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"lukechampine.com/blake3"
)

// Snapshot is a self-contained capture of one inventory fetch together with
// the player's storage cap. It is the on-disk format read by the file client
// and by replay, and the blob archived in the history store.
type Snapshot struct {
	MaxItemStorage int      `json:"max_item_storage"`
	Records        []Record `json:"inventory_items"`
}

// ReadSnapshot loads a snapshot document from a JSON file.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return s, nil
}

// DecodeSnapshot decodes a snapshot document.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode returns the canonical JSON encoding of the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Digest returns the hex BLAKE3 hash of the canonical encoding. Identical
// snapshots share a digest, which keys the snapshot archive.
func (s *Snapshot) Digest() (string, error) {
	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
