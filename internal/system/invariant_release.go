//go:build !debug

package system

import (
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// InvariantsPanic is false in release builds: violations are logged and clamped.
const InvariantsPanic = false

func invariantViolated(msg string, fields logrus.Fields) {
	logger.Log.WithFields(fields).WithField("component", "invariant").Warn(msg)
}
