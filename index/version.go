package index

import (
	"encoding/json"
	"fmt"
	"github.com/spaolacci/murmur3"
)

// versionOf hashes the canonical JSON rendering of a collection.
// Identical content always yields the identical token.
func versionOf(vals ...any) string {
	hasher := murmur3.New128()
	enc := json.NewEncoder(hasher)
	for _, val := range vals {
		if err := enc.Encode(val); err != nil {
			// Only plain data goes through here
			panic(err)
		}
	}
	h1, h2 := hasher.Sum128()
	return fmt.Sprintf("%016x%016x", h1, h2)
}
