package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainDataset is the domain prefix for dataset digests.
// Version suffix enables future algorithm migration.
const DomainDataset = "telescope/dataset/v1"

// Digest computes a content address for ds: SHA-256 over the domain, a null
// separator, and the dataset's text encoding. Names are excluded, so the
// same events under different names share a digest. Event order is
// included, since it decides endpoint ties.
func Digest(ds *Dataset) (string, error) {
	h := sha256.New()
	h.Write([]byte(DomainDataset))
	h.Write([]byte{0x00})
	if err := WriteText(h, ds); err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
