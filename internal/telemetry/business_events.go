package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BusinessEvents provides helper methods for tracing domain-specific operations
// These are higher-level events beyond HTTP/DB tracing (e.g., "page of the following feed", "post was liked")
type BusinessEvents struct {
	tracer trace.Tracer
}

// NewBusinessEvents creates a new business events tracer
func NewBusinessEvents() *BusinessEvents {
	return &BusinessEvents{
		tracer: otel.Tracer("business-events"),
	}
}

// ============================================================================
// FEED OPERATIONS
// ============================================================================

// TraceFeedPage creates a span for loading one page of a feed
func (be *BusinessEvents) TraceFeedPage(ctx context.Context, feedType string, cursor string, pageSize int) (context.Context, trace.Span) {
	ctx, span := be.tracer.Start(ctx, "feed.page",
		trace.WithAttributes(
			attribute.String("feed.type", feedType),
			attribute.Int("feed.page_size", pageSize),
			attribute.Bool("feed.has_cursor", cursor != ""),
		),
	)
	return ctx, span
}

// RecordPage annotates a feed span with what the page returned
func RecordPage(span trace.Span, itemCount int, hasMore bool) {
	span.SetAttributes(
		attribute.Int("feed.item_count", itemCount),
		attribute.Bool("feed.has_more", hasMore),
	)
}

// ============================================================================
// SOCIAL INTERACTIONS
// ============================================================================

// TraceSocialInteraction creates a span for like/follow/bookmark/comment mutations
func (be *BusinessEvents) TraceSocialInteraction(ctx context.Context, actionType string, userID string, targetID string) (context.Context, trace.Span) {
	ctx, span := be.tracer.Start(ctx, "social."+actionType,
		trace.WithAttributes(
			attribute.String("action.type", actionType),
			attribute.String("user.id", userID),
			attribute.String("target.id", targetID),
		),
	)
	return ctx, span
}

// RecordNotification marks a span as having produced a notification
func RecordNotification(span trace.Span, sent bool) {
	if sent {
		span.SetAttributes(attribute.Bool("notification.sent", true))
	}
}
