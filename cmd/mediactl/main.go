// Command mediactl runs one-off maintenance operations on medias.
package main

import (
	"context"
	"os"

	"github.com/fhuszti/medias-lifecycle-go/internal/logger"
)

func main() {
	if err := newRootCmd(defaultEnv).ExecuteContext(context.Background()); err != nil {
		logger.Errorf(context.Background(), "❌  %v", err)
		os.Exit(1)
	}
}
