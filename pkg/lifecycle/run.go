package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumatek/netwalk/pkg/logger"
)

// Run wires SIGINT/SIGTERM into ctx cancellation and invokes work with the
// resulting context, following the teacher's signal-handling idiom (plain
// os/signal.Notify plus context.WithCancel) that previously lived in the
// gRPC-shaped pkg/lifecycle/server.go. A discovery run that is mid-walk when
// a signal arrives sees ctx.Done() at its next worker-loop check and returns
// whatever it has already persisted, rather than being killed outright.
func Run(parent context.Context, work func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn().Str("signal", sig.String()).Msg("shutdown requested, cancelling discovery walk")
			cancel()
		case <-ctx.Done():
		}
	}()

	return work(ctx)
}
