package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// FileInfo is the identity of one submitted file. Content is deliberately
// not part of the identity; upload metadata is enough to spot a user
// re-submitting the same file set.
type FileInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// Compute returns a deterministic hash over a file set. The list is sorted
// by name then size before hashing, so submission order never changes the
// result.
func Compute(files []FileInfo) string {
	sorted := make([]FileInfo, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Size < sorted[j].Size
	})

	h := sha256.New()
	for _, f := range sorted {
		fmt.Fprintf(h, "%s|%d|%d\n", f.Name, f.Size, f.LastModified.UTC().UnixMilli())
	}
	return hex.EncodeToString(h.Sum(nil))
}
