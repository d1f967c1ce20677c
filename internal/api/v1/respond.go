package v1

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"github.com/gosuda/bilemo/internal/auth"
	"github.com/gosuda/bilemo/internal/domain"
	"github.com/gosuda/bilemo/internal/server/middleware"
)

const contentTypeJSON = "application/json"

// JSONOutput carries a pre-serialized payload, either freshly rendered or
// read back from the response cache.
type JSONOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func jsonOutput(body []byte) *JSONOutput {
	return &JSONOutput{ContentType: contentTypeJSON, Body: body}
}

// ValidationErrors is returned as a 400 whose body is the bare array of
// messages.
type ValidationErrors []string

func (v ValidationErrors) Error() string { return strings.Join(v, "; ") }

func (v ValidationErrors) GetStatus() int { return 400 }

func callerFrom(ctx context.Context) (auth.Caller, error) {
	caller, ok := middleware.CallerFromContext(ctx)
	if !ok {
		return auth.Caller{}, huma.Error401Unauthorized("missing credentials")
	}
	return caller, nil
}

// mapError turns domain sentinels into HTTP errors; anything else is a 500.
func mapError(err error, resource, action string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(resource + " not found")
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden("access denied to " + resource)
	default:
		return huma.Error500InternalServerError("failed to "+action+" "+resource, err)
	}
}

func render(v any) ([]byte, error) {
	return json.Marshal(v)
}

// invalidate drops cached payloads after a committed mutation. A failure to
// notify peers is logged; local entries are already gone at that point.
func invalidate(ctx context.Context, rc ResponseCache, tags ...string) {
	if err := rc.Invalidate(ctx, tags...); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Strs("tags", tags).Msg("cache invalidation broadcast failed")
	}
}
