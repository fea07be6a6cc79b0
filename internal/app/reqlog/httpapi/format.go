package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"reqlog.local/gee"
	"reqlog.local/internal/app/reqlog"
	"reqlog.local/internal/logformat"
	"reqlog.local/internal/platform/auth"
)

type formatHandler struct {
	store *reqlog.Store
}

type unitResp struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type formatResp struct {
	Template string     `json:"template"`
	Revision uint64     `json:"revision"`
	Units    []unitResp `json:"units"`
}

type formatReq struct {
	Template *string `json:"template"`
}

type previewReq struct {
	Template   *string `json:"template"`
	Method     string  `json:"method"`
	URI        string  `json:"uri"`
	Status     int     `json:"status"`
	RemoteAddr string  `json:"remote_addr"`
	ElapsedMs  float64 `json:"elapsed_ms"`
}

// compileErrorResp carries enough context to point at the broken placeholder.
type compileErrorResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Pos     int    `json:"pos"`
	Token   string `json:"token,omitempty"`
}

func toResp(s reqlog.Snapshot) formatResp {
	units := make([]unitResp, 0, s.Format.Len())
	for _, u := range s.Format.Units() {
		switch u := u.(type) {
		case logformat.Literal:
			units = append(units, unitResp{Kind: "literal", Value: string(u)})
		case logformat.Field:
			units = append(units, unitResp{Kind: "field", Value: u.Token()})
		}
	}
	return formatResp{Template: s.Template, Revision: s.Revision, Units: units}
}

func abortCompileError(ctx *gee.Context, err error) {
	var fe *logformat.Error
	if !errors.As(err, &fe) {
		ctx.AbortWithError(http.StatusBadRequest, err.Error())
		return
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, compileErrorResp{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
		Pos:     fe.Pos,
		Token:   fe.Token,
	})
}

func (h *formatHandler) fields(ctx *gee.Context) {
	tokens := make([]string, 0, len(logformat.Fields()))
	for _, f := range logformat.Fields() {
		tokens = append(tokens, f.Token())
	}
	ctx.JSON(http.StatusOK, gee.H{"fields": tokens})
}

func (h *formatHandler) get(ctx *gee.Context) {
	ctx.JSON(http.StatusOK, toResp(h.store.Snapshot()))
}

func (h *formatHandler) put(ctx *gee.Context) {
	var req formatReq
	if err := ctx.BindJSON(&req); err != nil {
		return
	}
	if req.Template == nil {
		ctx.AbortWithError(http.StatusBadRequest, "template is required")
		return
	}
	snap, err := h.store.Reload(*req.Template)
	if err != nil {
		abortCompileError(ctx, err)
		return
	}
	id, _ := auth.GetIdentity(ctx.Req.Context())
	slog.Info("access log format updated via admin api", "subject", id.Subject, "revision", snap.Revision)
	ctx.JSON(http.StatusOK, toResp(snap))
}

func (h *formatHandler) reset(ctx *gee.Context) {
	ctx.JSON(http.StatusOK, toResp(h.store.Reset()))
}

// preview renders a synthetic request without touching the active format.
// A missing template previews the active one.
func (h *formatHandler) preview(ctx *gee.Context) {
	var req previewReq
	if err := ctx.BindJSON(&req); err != nil {
		return
	}
	f := h.store.Load()
	if req.Template != nil {
		compiled, err := logformat.Compile(*req.Template)
		if err != nil {
			abortCompileError(ctx, err)
			return
		}
		f = compiled
	}
	elapsed, ok := previewElapsed(req.ElapsedMs)
	if !ok {
		ctx.AbortWithError(http.StatusBadRequest,
			fmt.Sprintf("elapsed_ms must be between 0 and %d", maxPreviewElapsedMs))
		return
	}
	rc := logformat.RenderContext{
		Method:     req.Method,
		URI:        req.URI,
		Status:     req.Status,
		RemoteAddr: req.RemoteAddr,
		Start:      time.Now(),
		Elapsed:    elapsed,
	}
	ctx.JSON(http.StatusOK, gee.H{"line": f.Render(&rc)})
}

// maxPreviewElapsedMs is the largest millisecond count a time.Duration holds.
const maxPreviewElapsedMs = math.MaxInt64 / int64(time.Millisecond)

func previewElapsed(ms float64) (time.Duration, bool) {
	if ms < 0 || ms > float64(maxPreviewElapsedMs) {
		return 0, false
	}
	return time.Duration(ms * float64(time.Millisecond)), true
}
