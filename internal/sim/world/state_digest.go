package world

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// stateDigest hashes the full exported state. Two worlds fed identical
// inputs must produce identical digests tick for tick.
func (w *World) stateDigest(nowTick uint64) string {
	snap := w.ExportSnapshot(nowTick)
	b, err := json.Marshal(snap)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
