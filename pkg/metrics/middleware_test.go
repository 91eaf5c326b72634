package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinPrometheusMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-test"))
	router.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b", "c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/books/"+id, nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(
		HttpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "/books/:id", "200"),
	))
	assert.Equal(t, float64(0), testutil.ToFloat64(HttpRequestsInFlight.WithLabelValues("metrics-test")))
}

func TestGinPrometheusMiddleware_UnmatchedAndSkipped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-test-2"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/1", nil))

	assert.Equal(t, float64(0), testutil.ToFloat64(
		HttpRequestsTotal.WithLabelValues("metrics-test-2", http.MethodGet, "/health", "200"),
	))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		HttpRequestsTotal.WithLabelValues("metrics-test-2", http.MethodGet, "unmatched", "404"),
	))
}

func TestHelpers(t *testing.T) {
	RecordDbError("helpers-test", DbOpFind, "books")
	RecordDbError("helpers-test", DbOpFind, "books")
	RecordCacheHit("helpers-test", "books")
	RecordCacheMiss("helpers-test", "books")
	RecordRedisError("helpers-test", "get")

	timer := NewKafkaProduceTimer("helpers-test", "library_events")
	timer.Success()
	timer.Error()

	NewDbTimer("helpers-test", DbOpCount, "users").ObserveDuration()

	assert.Equal(t, float64(2), testutil.ToFloat64(DbErrors.WithLabelValues("helpers-test", "find", "books")))
	assert.Equal(t, float64(1), testutil.ToFloat64(RedisCacheHits.WithLabelValues("helpers-test", "books")))
	assert.Equal(t, float64(1), testutil.ToFloat64(RedisCacheMisses.WithLabelValues("helpers-test", "books")))
	assert.Equal(t, float64(1), testutil.ToFloat64(RedisErrors.WithLabelValues("helpers-test", "get")))
	assert.Equal(t, float64(1), testutil.ToFloat64(KafkaMessagesProduced.WithLabelValues("helpers-test", "library_events")))
	assert.Equal(t, float64(1), testutil.ToFloat64(KafkaErrors.WithLabelValues("helpers-test", "library_events", "produce")))
	assert.Equal(t, 1, testutil.CollectAndCount(DbQueryDuration, "db_query_duration_seconds"))
}
