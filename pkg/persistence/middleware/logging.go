package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/aretw0/interpro2go/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ObjectStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level and every failure at warn level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ObjectStore) ports.ObjectStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) GetObjects(ctx context.Context, refs []string) ([]domain.ObjectData, error) {
	start := time.Now()
	objs, err := m.next.GetObjects(ctx, refs)
	m.log(ctx, "get_objects", err, time.Since(start), "refs", refs)
	return objs, err
}

func (m *loggingMiddleware) SaveObjects(ctx context.Context, params domain.SaveObjectsParams) ([]domain.ObjectInfo, error) {
	start := time.Now()
	infos, err := m.next.SaveObjects(ctx, params)

	names := make([]string, len(params.Objects))
	for i, o := range params.Objects {
		names[i] = o.Name
	}
	m.log(ctx, "save_objects", err, time.Since(start), "workspace", params.Target(), "objects", names)
	return infos, err
}

func (m *loggingMiddleware) log(ctx context.Context, method string, err error, d time.Duration, attrs ...any) {
	attrs = append(attrs, "method", method, "duration", d)
	if err != nil {
		m.logger.WarnContext(ctx, "store call failed", append(attrs, "error", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store call", attrs...)
}
