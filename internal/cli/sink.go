package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/JupiterMetaLabs/ionbridge"
	"github.com/JupiterMetaLabs/ionbridge/sinks/multi"
	"github.com/JupiterMetaLabs/ionbridge/sinks/otelsink"
	"github.com/JupiterMetaLabs/ionbridge/sinks/zapsink"
	"go.uber.org/zap"
)

// session is a bridge over the configured sink.
type session struct {
	bridge   *ionbridge.Bridge
	env      *ionbridge.Environment
	logger   *zap.Logger
	shutdown func(context.Context) error
}

func (s *session) Close(ctx context.Context) error {
	s.bridge.Uninstall()
	err := s.shutdown(ctx)
	_ = s.logger.Sync()
	return err
}

// newSink is the sink factory used by openSession.
var newSink = buildSink

// buildSink creates the sink selected by cfg.Sink.Kind. An OTEL sink that
// cannot be set up degrades to the log sink with a warning.
func buildSink(cfg ionbridge.Config) (ionbridge.Sink, *zap.Logger, func(context.Context) error, []ionbridge.Warning, error) {
	noShutdown := func(context.Context) error { return nil }

	var warnings []ionbridge.Warning
	var otel *otelsink.Sink
	if cfg.Sink.Kind == ionbridge.SinkOTEL || cfg.Sink.Kind == ionbridge.SinkBoth {
		s, err := otelsink.Setup(cfg.Sink.OTEL, cfg.ServiceName, cfg.Version)
		if err != nil {
			warnings = append(warnings, ionbridge.Warning{
				Component: "otel",
				Err:       fmt.Errorf("failed to init OTEL sink: %w (using log sink)", err),
			})
		} else {
			otel = s
		}
	}

	var logger *zap.Logger
	if otel != nil {
		logger = ionbridge.NewLogger(cfg, otel.LoggerProvider())
	} else {
		logger = ionbridge.NewLogger(cfg, nil)
	}

	switch cfg.Sink.Kind {
	case ionbridge.SinkNone:
		return ionbridge.NopSink{}, logger, noShutdown, warnings, nil
	case ionbridge.SinkLog, "":
		return zapsink.New(logger.Named("events")), logger, noShutdown, warnings, nil
	case ionbridge.SinkOTEL:
		if otel == nil {
			return zapsink.New(logger.Named("events")), logger, noShutdown, warnings, nil
		}
		return otel, logger, otel.Shutdown, warnings, nil
	case ionbridge.SinkBoth:
		events := zapsink.New(logger.Named("events"))
		if otel == nil {
			return events, logger, noShutdown, warnings, nil
		}
		return multi.New(events, otel), logger, otel.Shutdown, warnings, nil
	}

	if otel != nil {
		_ = otel.Shutdown(context.Background())
	}
	return nil, nil, nil, nil, errors.New("unknown sink kind: " + cfg.Sink.Kind)
}

// openSession builds the sink and a bridge over env with the hooks cfg
// enables.
func openSession(cfg ionbridge.Config, env *ionbridge.Environment) (*session, error) {
	sink, logger, shutdown, warnings, err := newSink(cfg)
	if err != nil {
		return nil, err
	}

	b, initWarnings, err := ionbridge.Init(cfg, env, sink, ionbridge.WithLogger(logger))
	if err != nil {
		_ = shutdown(context.Background())
		return nil, err
	}
	for _, w := range append(warnings, initWarnings...) {
		logger.Warn("ionbridge warning", zap.String("component", w.Component), zap.Error(w.Err))
	}
	return &session{bridge: b, env: env, logger: logger, shutdown: shutdown}, nil
}
