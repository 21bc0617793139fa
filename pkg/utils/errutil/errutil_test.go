package errutil_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/utils/errutil"
	"github.com/gigbook/herald/pkg/utils/logging"
)

func newBufferedContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return logging.With(context.Background(), logger), &buf
}

func TestHandle(t *testing.T) {
	t.Run("nil error is a no-op", func(t *testing.T) {
		ctx, buf := newBufferedContext()
		gt.NoError(t, errutil.Handle(ctx, nil, "nothing"))
		gt.Value(t, buf.Len()).Equal(0)
	})

	t.Run("logs goerr values and returns the error", func(t *testing.T) {
		ctx, buf := newBufferedContext()
		src := goerr.New("store down", goerr.V("user_id", "u-1"))

		err := errutil.Handle(ctx, src, "failed to persist")
		gt.Value(t, err).Equal(error(src))
		gt.String(t, buf.String()).Contains("failed to persist")
		gt.String(t, buf.String()).Contains("u-1")
	})

	t.Run("logs plain errors", func(t *testing.T) {
		ctx, buf := newBufferedContext()
		errutil.Handle(ctx, errors.New("boom"), "plain")
		gt.String(t, buf.String()).Contains("boom")
	})
}

func TestWarn(t *testing.T) {
	ctx, buf := newBufferedContext()
	errutil.Warn(ctx, goerr.New("reader unavailable", goerr.V("source", "events")), "source unavailable")
	gt.String(t, buf.String()).Contains("WARN")
	gt.String(t, buf.String()).Contains("events")
}

func TestHandleHTTP(t *testing.T) {
	ctx, _ := newBufferedContext()
	w := httptest.NewRecorder()

	errutil.HandleHTTP(ctx, w, goerr.New("bad limit"), http.StatusBadRequest)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	gt.String(t, w.Body.String()).Contains("bad limit")
}
