package submissions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"resume-feedback/internal/convert"
	"resume-feedback/internal/llm"
	"resume-feedback/internal/shared/storage/kv"
	"resume-feedback/internal/shared/storage/object"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeStore struct {
	log     *callLog
	failOn  int // 1-based Save call that fails; 0 never
	saves   int
	objects map[string][]byte
}

func (s *fakeStore) Save(ctx context.Context, fileName string, r io.Reader) (object.Object, error) {
	s.saves++
	s.log.add("store.save:" + fileName)
	if s.failOn == s.saves {
		return object.Object{}, fmt.Errorf("bucket unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return object.Object{}, err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	p := fmt.Sprintf("obj%d_%s", s.saves, fileName)
	s.objects[p] = data
	return object.Object{Path: p, SizeBytes: int64(len(data)), MimeType: "application/octet-stream"}, nil
}

func (s *fakeStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	data, ok := s.objects[p]
	if !ok {
		return nil, fmt.Errorf("missing object %s", p)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeConverter struct {
	log *callLog
	err error
}

func (c *fakeConverter) Convert(ctx context.Context, doc convert.Document) (convert.Image, error) {
	c.log.add("convert:" + doc.Name)
	if c.err != nil {
		return convert.Image{}, c.err
	}
	return convert.Image{Name: convert.ImageName(doc.Name), ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\npixels")}, nil
}

type fakeKV struct {
	log    *callLog
	inner  *kv.MemoryStore
	failOn int
	sets   int
	writes []string
}

func newFakeKV(log *callLog) *fakeKV {
	return &fakeKV{log: log, inner: kv.NewMemoryStore()}
}

func (k *fakeKV) Set(ctx context.Context, key, value string) error {
	k.sets++
	k.log.add("kv.set:" + key)
	if k.failOn == k.sets {
		return fmt.Errorf("kv unavailable")
	}
	k.writes = append(k.writes, value)
	return k.inner.Set(ctx, key, value)
}

func (k *fakeKV) Get(ctx context.Context, key string) (string, error) {
	return k.inner.Get(ctx, key)
}

type fakeAI struct {
	log          *callLog
	resp         *llm.Response
	err          error
	path         string
	instructions string
}

func (a *fakeAI) RequestFeedback(ctx context.Context, documentPath, instructions string) (*llm.Response, error) {
	a.log.add("ai.request:" + documentPath)
	a.path = documentPath
	a.instructions = instructions
	return a.resp, a.err
}

type harness struct {
	log      *callLog
	store    *fakeStore
	conv     *fakeConverter
	kv       *fakeKV
	ai       *fakeAI
	ctrl     *Controller
	statuses []State
}

func newHarness(resp *llm.Response) *harness {
	log := &callLog{}
	h := &harness{
		log:   log,
		store: &fakeStore{log: log},
		conv:  &fakeConverter{log: log},
		kv:    newFakeKV(log),
		ai:    &fakeAI{log: log, resp: resp},
	}
	tick := time.UnixMilli(1_700_000_000_000)
	h.ctrl = &Controller{
		Store:     h.store,
		Converter: h.conv,
		Metadata:  h.kv,
		AI:        h.ai,
		Now: func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		},
		NewID:    func() string { return "sub-1" },
		OnStatus: func(s State) { h.statuses = append(h.statuses, s) },
	}
	return h
}

func validInput() Input {
	return Input{
		CompanyName:    "Acme",
		JobTitle:       "Backend Engineer",
		JobDescription: "Go services",
		File:           &File{Name: "resume.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7 resume")},
	}
}

const feedbackJSON = `{"overallScore":72,"ATS":{"score":80,"tips":[{"type":"good","tip":"Clean"}]},"toneAndStyle":{"score":70,"tips":[]},"content":{"score":65,"tips":[]},"structure":{"score":60,"tips":[]},"skills":{"score":55,"tips":[]}}`
