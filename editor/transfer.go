package editor

import (
	"context"
	"errors"
	"image"
	"io"
	"net/url"
	"strings"

	"github.com/segmentio/ksuid"

	nhttp "github.com/chaos-io/transpalentor/util/http"
)

type opKind int

const (
	opUpload opKind = iota
	opProcess
	opErase
	numOps
)

func (k opKind) String() string {
	return [...]string{"upload", "process", "erase"}[k]
}

type eraseJob struct {
	points []image.Point
	brush  int
}

// transfer 请求排序相关的状态，全部受 Editor.mu 保护
//
// gen 是每种请求最新发出的序号，响应只有序号仍是最新、
// 且发出时的会话/处理结果版本没变时才会被应用。
type transfer struct {
	gen           [numOps]uint64
	sessionEpoch  uint64
	artifactEpoch uint64

	processing bool
	erasing    bool
	eraseQueue []eraseJob
	failed     *eraseJob

	busy int
}

func (e *Editor) beginBusy() {
	e.busy++
	if e.busy == 1 {
		e.view.SetBusy(true)
	}
	e.view.ClearError()
}

func (e *Editor) endBusy() {
	e.busy--
	if e.busy == 0 {
		e.view.SetBusy(false)
	}
}

func (e *Editor) fail(op opKind, err error) {
	detail := ""
	var generic string
	switch op {
	case opUpload:
		generic = e.msgs.UploadFailed
	case opProcess:
		generic, detail = e.msgs.ProcessFailed, nhttp.ErrorDetail(err)
	case opErase:
		generic, detail = e.msgs.EraseFailed, nhttp.ErrorDetail(err)
	}
	e.log.Warn("request failed", "op", op, "error", err)
	e.view.ShowError(e.msgs.Failure(generic, detail))
}

func (e *Editor) superseded(op opKind, gen uint64) error {
	e.log.Debug("discard stale response", "op", op, "gen", gen, "latest", e.gen[op])
	return ErrSuperseded
}

// Upload 上传图片。contentType 必须以 image/ 开头。
// 较新的上传会让较早的上传响应作废。
func (e *Editor) Upload(ctx context.Context, filename, contentType string, r io.Reader) error {
	e.mu.Lock()
	if !strings.HasPrefix(contentType, "image/") {
		e.notice(ErrNotImage)
		e.mu.Unlock()
		return ErrNotImage
	}
	e.gen[opUpload]++
	gen := e.gen[opUpload]
	e.beginBusy()
	e.mu.Unlock()

	resp, err := e.backend.Upload(ctx, filename, contentType, r)
	if err == nil && resp.SessionID == "" {
		err = errors.New("upload response missing session_id")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.endBusy()

	if gen != e.gen[opUpload] {
		return e.superseded(opUpload, gen)
	}
	if err != nil {
		e.fail(opUpload, err)
		return err
	}

	e.state.ReplaceSession(Session{ID: resp.SessionID, Filename: resp.Filename, ImageURL: resp.ImageURL})
	e.sessionEpoch++
	e.artifactEpoch++
	e.eraseQueue = nil
	e.failed = nil
	e.processing = false
	e.strokes.Reset()
	e.surface.Clear()

	e.view.ShowOriginal(resp.ImageURL)
	e.renderColors()
	e.log.Debug("uploaded", "session", resp.SessionID, "filename", resp.Filename)
	return nil
}

// Process 提交透过处理。同一时间只允许一个处理请求。
func (e *Editor) Process(ctx context.Context) error {
	e.mu.Lock()
	req, err := e.state.ProcessRequest()
	if err == nil && e.processing {
		err = ErrBusy
	}
	if err != nil {
		e.notice(err)
		e.mu.Unlock()
		return err
	}
	e.processing = true
	e.gen[opProcess]++
	gen, epoch := e.gen[opProcess], e.sessionEpoch
	e.beginBusy()
	e.mu.Unlock()

	resp, err := e.backend.Process(ctx, req)
	if err == nil && resp.Filename == "" {
		err = errors.New("process response missing filename")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.endBusy()
	// 上传新图片后旧会话的处理标记已经清除，可能已有新的处理在进行
	if gen == e.gen[opProcess] {
		e.processing = false
	}

	if gen != e.gen[opProcess] || epoch != e.sessionEpoch {
		return e.superseded(opProcess, gen)
	}
	if err != nil {
		e.fail(opProcess, err)
		return err
	}

	u := cacheBust(resp.ProcessedURL)
	e.state.SetArtifact(Artifact{Filename: resp.Filename, URL: u})
	e.artifactEpoch++
	e.failed = nil

	e.view.ShowProcessed(u)
	e.view.RevealTools()
	return nil
}

// RetryErase 重新提交上一次失败的笔画，没有时什么也不做
func (e *Editor) RetryErase(ctx context.Context) error {
	e.mu.Lock()
	job := e.failed
	e.failed = nil
	e.mu.Unlock()

	if job == nil {
		return nil
	}
	return e.submitErase(ctx, *job)
}

// FailedStroke 上一次消除失败时保留的笔画
func (e *Editor) FailedStroke() []image.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failed == nil {
		return nil
	}
	return append([]image.Point(nil), e.failed.points...)
}

// submitErase 缺少会话、处理结果或笔画时不发请求。
// 已有消除请求在途时排队，按提交顺序逐个发送。
func (e *Editor) submitErase(ctx context.Context, job eraseJob) error {
	e.mu.Lock()
	if _, ok := e.state.EraseRequest(job.points, job.brush); !ok {
		e.mu.Unlock()
		return nil
	}
	if e.erasing {
		e.eraseQueue = append(e.eraseQueue, job)
		e.log.Debug("erase queued", "pending", len(e.eraseQueue))
		e.mu.Unlock()
		return nil
	}
	e.erasing = true
	e.mu.Unlock()

	var firstErr error
	for {
		if err := e.runErase(ctx, job); err != nil && !errors.Is(err, ErrSuperseded) && firstErr == nil {
			firstErr = err
		}

		e.mu.Lock()
		if len(e.eraseQueue) == 0 {
			e.erasing = false
			e.mu.Unlock()
			return firstErr
		}
		job = e.eraseQueue[0]
		e.eraseQueue = e.eraseQueue[1:]
		e.mu.Unlock()
	}
}

func (e *Editor) runErase(ctx context.Context, job eraseJob) error {
	e.mu.Lock()
	req, ok := e.state.EraseRequest(job.points, job.brush)
	if !ok {
		e.mu.Unlock()
		return nil
	}
	e.gen[opErase]++
	gen, epoch := e.gen[opErase], e.artifactEpoch
	e.beginBusy()
	e.mu.Unlock()

	resp, err := e.backend.Erase(ctx, req)
	if err == nil && resp.ProcessedURL == "" {
		err = errors.New("erase response missing processed_url")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.endBusy()

	if gen != e.gen[opErase] || epoch != e.artifactEpoch {
		return e.superseded(opErase, gen)
	}
	if err != nil {
		e.failed = &job
		e.fail(opErase, err)
		return err
	}

	a := *e.state.Artifact
	a.URL = resp.ProcessedURL
	if resp.Filename != "" {
		a.Filename = resp.Filename
	}
	e.state.SetArtifact(a)
	e.artifactEpoch++
	e.failed = nil
	e.surface.Clear()

	e.view.ShowProcessed(a.URL)
	return nil
}

// cacheBust 给 URL 加上变化的 t 参数，保证重新拉取图像
func cacheBust(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("t", ksuid.New().String())
	u.RawQuery = q.Encode()
	return u.String()
}
