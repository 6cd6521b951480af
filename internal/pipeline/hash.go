package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/domain"
)

// IdentityHash computes the stable content hash used as ID_TRANSACTION: the
// SHA-256 hex digest of date, harmonized entity, subtype and net amount in a
// normalized concatenation. It is independent of processing order, so
// re-runs and multi-period merges produce the same key for an unchanged
// transaction. Collisions within a personal ledger are negligible at this
// digest width; cross-period deduplication happens outside this core.
func IdentityHash(date civil.Date, entity, subtype string, net decimal.Decimal) string {
	payload := strings.Join([]string{
		date.String(),
		entity,
		subtype,
		net.StringFixed(2),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// AssignIdentity fills ID_TRANSACTION on every record.
func AssignIdentity(records []domain.CanonicalRecord) {
	for i := range records {
		r := &records[i]
		r.ID = IdentityHash(r.Date, r.Entity, r.Subtype, r.AmountNet)
	}
}
