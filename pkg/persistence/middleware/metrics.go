package middleware

import (
	"context"
	"time"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/aretw0/interpro2go/pkg/observability"
	"github.com/aretw0/interpro2go/pkg/ports"
)

type metricsMiddleware struct {
	next    ports.ObjectStore
	metrics *observability.Metrics
}

// NewMetricsMiddleware times every store call.
func NewMetricsMiddleware(metrics *observability.Metrics) Middleware {
	return func(next ports.ObjectStore) ports.ObjectStore {
		return &metricsMiddleware{next: next, metrics: metrics}
	}
}

func (m *metricsMiddleware) GetObjects(ctx context.Context, refs []string) ([]domain.ObjectData, error) {
	start := time.Now()
	objs, err := m.next.GetObjects(ctx, refs)
	m.metrics.ObserveStoreCall("get_objects", err, time.Since(start))
	return objs, err
}

func (m *metricsMiddleware) SaveObjects(ctx context.Context, params domain.SaveObjectsParams) ([]domain.ObjectInfo, error) {
	start := time.Now()
	infos, err := m.next.SaveObjects(ctx, params)
	m.metrics.ObserveStoreCall("save_objects", err, time.Since(start))
	return infos, err
}
