//go:build debug

package system

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// InvariantsPanic is true in debug builds: a broken invariant aborts the tick.
const InvariantsPanic = true

func invariantViolated(msg string, fields logrus.Fields) {
	panic(fmt.Sprintf("invariant violated: %s %v", msg, fields))
}
