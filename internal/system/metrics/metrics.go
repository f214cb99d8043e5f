/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package metrics registers the prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trustlens"

var (
	reqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	reqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "path", "status"},
	)
	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "wizard_sessions_started_total", Help: "Consent wizard sessions started"},
	)
	consentsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "consents_granted_total", Help: "Completed consent flows by path"},
		[]string{"path"},
	)
	validationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "wizard_validation_failures_total", Help: "Grant attempts blocked by missing required fields"},
	)
	externalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "external_op_duration_seconds", Help: "Duration of outbound calls"},
		[]string{"op", "outcome"},
	)
	deliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "consent_delivery_failures_total", Help: "Consent records the backend did not accept"},
	)
)

// Registry holds every TrustLens collector. It is separate from the default
// registry so tests can create engines repeatedly.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		reqDuration, reqTotal, sessionsStarted, consentsGranted,
		validationFailures, externalDuration, deliveryFailures,
		collectors.NewGoCollector(),
	)
}

// MetricsMiddleware records basic HTTP metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		reqDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		reqTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// RecordSessionStarted counts a new wizard session.
func RecordSessionStarted() { sessionsStarted.Inc() }

// RecordConsentGranted counts a completed flow; path is "returning" or "consent".
func RecordConsentGranted(path string) { consentsGranted.WithLabelValues(path).Inc() }

// RecordValidationFailure counts a blocked grant.
func RecordValidationFailure() { validationFailures.Inc() }

// RecordDeliveryFailure counts a failed backend consent forward.
func RecordDeliveryFailure() { deliveryFailures.Inc() }

// RecordExternalOp records an outbound call with duration and outcome
func RecordExternalOp(op string, dur time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	externalDuration.WithLabelValues(op, outcome).Observe(dur.Seconds())
}

// Handler serves the collectors in the prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
