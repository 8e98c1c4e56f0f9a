package observability

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	mirrorWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_writes_total",
			Help: "Secondary-store mirror writes attempted, by operation.",
		},
		[]string{"op"},
	)
	mirrorWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_write_failures_total",
			Help: "Secondary-store mirror writes that failed, by operation.",
		},
		[]string{"op"},
	)
	activityWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activity_log_write_failures_total",
			Help: "Activity log writes that failed after a successful mutation.",
		},
	)
)

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(mirrorWrites, mirrorWriteFailures, activityWriteFailures)
	})
}

// Recorder satisfies store.MirrorRecorder and the activity logger's
// degradation hook.
type Recorder struct{}

func NewRecorder() *Recorder {
	register()
	return &Recorder{}
}

func (r *Recorder) MirrorWrite(op string, err error) {
	mirrorWrites.WithLabelValues(op).Inc()
	if err != nil {
		mirrorWriteFailures.WithLabelValues(op).Inc()
	}
}

func (r *Recorder) ActivityWriteFailed() {
	activityWriteFailures.Inc()
}

// Handler exposes the default prometheus registry to gin.
func Handler() gin.HandlerFunc {
	register()
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
