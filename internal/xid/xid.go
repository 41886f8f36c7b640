package xid

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewProductID returns prod_<unix millis>_<9 random chars>.
func NewProductID(now time.Time) string {
	return fmt.Sprintf("prod_%d_%s", now.UnixMilli(), randomSuffix(9))
}

// NewOrderID returns ORD-<yyyymmdd>-<base36 millis>-<6 random chars>, upper case.
// The date part is always UTC so ids sort the same on every till.
func NewOrderID(now time.Time) string {
	utc := now.UTC()
	stamp := strings.ToUpper(strconv.FormatInt(utc.UnixMilli(), 36))
	return fmt.Sprintf("ORD-%s-%s-%s", utc.Format("20060102"), stamp, strings.ToUpper(randomSuffix(6)))
}

func randomSuffix(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:n]
}
