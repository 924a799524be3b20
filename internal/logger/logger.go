package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init installs the global zap logger, so the rest of the application can use
// zap.L() without threading a logger through every constructor.
func Init(environment string) error {
	var (
		logger *zap.Logger
		err    error
	)

	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build zap logger -> %w", err)
	}

	zap.ReplaceGlobals(logger)

	return nil
}
