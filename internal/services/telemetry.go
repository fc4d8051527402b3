package services

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services")

var (
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_auth_attempts_total",
			Help: "Register and login attempts by outcome",
		},
		[]string{"event", "success"},
	)
	membershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_membership_changes_total",
			Help: "Project roster changes by action",
		},
		[]string{"action"},
	)
	tasksReassigned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_reassigned_total",
			Help: "Tasks handed back to the project owner when their assignee left",
		},
	)
)

func recordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
