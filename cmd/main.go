package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			for field, messages := range verr.Fields {
				for _, msg := range messages {
					logger.Error(msg, "field", field)
				}
			}
			os.Exit(1)
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
