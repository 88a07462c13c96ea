package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown stops the metrics endpoint and releases the journal, cache and
// credentials. It is safe to call on a dry-run app.
func (a *App) Shutdown() error {
	a.logger.Debug("application-shutting-down")

	a.healthChecker.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if a.httpServer != nil {
		err := a.httpServer.Shutdown(shutdownCtx)
		if err != nil {
			a.logger.Error("http-server-shutdown-error", zap.Error(err))
		}
	}

	if a.storage != nil {
		err := a.storage.Close()
		if err != nil {
			a.logger.Error("storage-close-error", zap.Error(err))
		}
	}

	if a.cache != nil {
		a.cache.Close()
	}

	if a.exchange != nil {
		a.exchange.Close()
	}

	a.wg.Wait()

	a.logger.Debug("application-shutdown-complete")

	return nil
}
