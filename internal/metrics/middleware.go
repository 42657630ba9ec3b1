package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JustBryant/YGOMod-Card-Database/internal/catalog"
)

// HTTPMetrics is Gin middleware that records HTTP request metrics.
// It tracks request count and latency by method, path, and status code.
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath() // Use route pattern, not actual path (avoids cardinality explosion)
		if path == "" {
			path = "unknown" // For NoRoute handler
		}
		method := c.Request.Method

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// UpdateCatalogMetrics refreshes the catalog gauges after a load swaps in
// a new snapshot.
func UpdateCatalogMetrics(cat *catalog.Catalog) {
	if cat == nil {
		return
	}

	CatalogSets.Set(float64(cat.NumSets()))
	CatalogCards.Set(float64(cat.NumCards()))

	counts := map[catalog.Severity]int{
		catalog.SeverityError:   0,
		catalog.SeverityWarning: 0,
	}
	for _, issue := range cat.Issues() {
		counts[issue.Severity]++
	}
	for severity, n := range counts {
		CatalogIssues.WithLabelValues(string(severity)).Set(float64(n))
	}
}
