package tools

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	"github.com/louisbranch/pipdeck/internal/platform/errors/i18n"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/sqlite"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/pipdeck/internal/services/mcp/tools"

// DefaultSnapshotName is the snapshot name used when a tool call omits one.
const DefaultSnapshotName = "default"

// SnapshotStore persists raw-data snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, name, body string) (sqlite.Snapshot, error)
	Latest(ctx context.Context, name string) (sqlite.Snapshot, error)
	Get(ctx context.Context, id int64) (sqlite.Snapshot, error)
	List(ctx context.Context) ([]sqlite.Summary, error)
}

// ResourceUpdateNotifier is called with the URIs a mutating tool changed.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// Host binds tool handlers to one scaffold session.
type Host struct {
	session *scaffold.Session
	store   SnapshotStore
	locale  string
	tracer  trace.Tracer
	notify  ResourceUpdateNotifier
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithSnapshotStore enables the snapshot tools.
func WithSnapshotStore(store SnapshotStore) HostOption {
	return func(h *Host) { h.store = store }
}

// WithLocale sets the locale tool errors are rendered in.
func WithLocale(locale string) HostOption {
	return func(h *Host) { h.locale = locale }
}

// WithNotifier sets the callback for resource updates.
func WithNotifier(notify ResourceUpdateNotifier) HostOption {
	return func(h *Host) { h.notify = notify }
}

// NewHost returns a Host over session.
func NewHost(session *scaffold.Session, opts ...HostOption) *Host {
	h := &Host{
		session: session,
		locale:  i18n.BaseLocale,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ToolError is a failure returned to the MCP client as a tool error.
type ToolError struct {
	Code    apperrors.Code
	Message string
	Cause   error
}

func (e *ToolError) Error() string { return e.Message }

func (e *ToolError) Unwrap() error { return e.Cause }

// toolError localizes err. Errors without a domain code keep their text.
func (h *Host) toolError(err error) error {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return &ToolError{
		Code:    apperrors.CodeOf(err),
		Message: i18n.Message(err, h.locale),
		Cause:   err,
	}
}

// access selects the session lock a tool runs under.
type access int

const (
	accessRead access = iota
	accessWrite
)

// handle adapts a scaffold operation to a typed MCP tool handler with a
// span per call.
func handle[I, O any](h *Host, name string, mode access, fn func(context.Context, *scaffold.Scaffold, I) (O, error)) mcp.ToolHandlerFor[I, O] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input I) (*mcp.CallToolResult, O, error) {
		ctx, span := h.tracer.Start(ctx, "mcp.tool "+name, trace.WithAttributes(
			attribute.String("mcp.tool.name", name),
			attribute.Bool("mcp.tool.mutating", mode == accessWrite),
		))
		defer span.End()

		var out O
		updates := &pendingUpdates{}
		runCtx := context.WithValue(ctx, pendingUpdatesKey{}, updates)
		run := func(s *scaffold.Scaffold) error {
			var err error
			out, err = fn(runCtx, s, input)
			return err
		}
		var err error
		if mode == accessWrite {
			err = h.session.Update(run)
		} else {
			err = h.session.View(run)
		}
		if err != nil {
			var zero O
			span.RecordError(err)
			span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
			span.SetAttributes(attribute.String("pipdeck.error_code", string(apperrors.CodeOf(err))))
			return nil, zero, h.toolError(err)
		}
		h.send(ctx, updates.uris)
		return nil, out, nil
	}
}

type pendingUpdatesKey struct{}

// pendingUpdates collects the resource URIs a tool changed while it holds
// the session lock.
type pendingUpdates struct {
	uris []string
}

// notifyAll announces changed resources. Inside a tool handler the URIs are
// held until the session lock is released.
func (h *Host) notifyAll(ctx context.Context, uris ...string) {
	if h.notify == nil {
		return
	}
	if pending, ok := ctx.Value(pendingUpdatesKey{}).(*pendingUpdates); ok {
		pending.uris = append(pending.uris, uris...)
		return
	}
	h.send(ctx, uris)
}

func (h *Host) send(ctx context.Context, uris []string) {
	if h.notify == nil {
		return
	}
	seen := make(map[string]bool, len(uris))
	for _, uri := range uris {
		if seen[uri] {
			continue
		}
		seen[uri] = true
		h.notify(ctx, uri)
	}
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("%s is required", field),
			map[string]string{"Field": field, "Value": fmt.Sprint(id)})
	}
	return nil
}
