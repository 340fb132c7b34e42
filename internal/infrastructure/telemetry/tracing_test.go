package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func TestStartServiceSpan(t *testing.T) {
	recorder := useSpanRecorder(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "transaction", "commit",
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, 3),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))

	telemetry.SetAttributes(span, telemetry.SpanAttrTransactionNumber, "TXN-1", 42, "skipped", "dangling")
	telemetry.AddEvent(span, "retry", telemetry.SpanAttrAttempt, 2)
	telemetry.SetOK(span)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, "transaction.commit", got.Name())
	assert.Equal(t, trace.SpanKindServer, got.SpanKind())
	assert.Contains(t, got.Attributes(), attribute.Int(telemetry.SpanAttrItemCount, 3))
	assert.Contains(t, got.Attributes(), attribute.String(telemetry.SpanAttrTransactionNumber, "TXN-1"))
	assert.Len(t, got.Attributes(), 2)
	require.Len(t, got.Events(), 1)
	assert.Equal(t, "retry", got.Events()[0].Name)
	assert.Equal(t, codes.Ok, got.Status().Code)
}

func TestRecordError(t *testing.T) {
	recorder := useSpanRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "stock.adjust")
	telemetry.RecordError(span, errors.New("insufficient stock"))
	telemetry.RecordError(span, nil)
	span.End()

	got := recorder.Ended()[0]
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "insufficient stock", got.Status().Description)
}

func TestTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}
