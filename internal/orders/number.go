package orders

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const orderNumberPrefix = "SL"

// NewOrderNumber builds a human-readable order reference: prefix, the date
// as yymmdd, and four random digits. Uniqueness is enforced by the database;
// callers retry on the rare collision.
func NewOrderNumber(at time.Time) string {
	return fmt.Sprintf("%s%s%04d", orderNumberPrefix, at.Format("060102"), rand.IntN(10000))
}
