package browser

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ResourceStat - суммарный вес ответов одного типа ресурса.
type ResourceStat struct {
	Type  string
	Count int
	Bytes int64
}

// ResponseMeter считает ответы страницы по типам ресурсов. Колбэк
// драйвера приходит из другой горутины, поэтому состояние под мьютексом.
type ResponseMeter struct {
	mu     sync.Mutex
	stats  map[string]*ResourceStat
	failed []Response
}

func NewResponseMeter() *ResponseMeter {
	return &ResponseMeter{stats: make(map[string]*ResourceStat)}
}

// Attach подписывает счетчик на ответы страницы.
func (m *ResponseMeter) Attach(page Page) {
	page.OnResponse(m.Record)
}

func (m *ResponseMeter) Record(r Response) {
	kind := r.ResourceType
	if kind == "" {
		kind = "other"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.stats[kind]
	if !ok {
		st = &ResourceStat{Type: kind}
		m.stats[kind] = st
	}
	st.Count++
	st.Bytes += r.Size

	if r.Status >= 400 {
		m.failed = append(m.failed, r)
	}
}

// Stats возвращает статистику, отсортированную по убыванию веса.
func (m *ResponseMeter) Stats() []ResourceStat {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ResourceStat, 0, len(m.stats))
	for _, st := range m.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bytes != out[j].Bytes {
			return out[i].Bytes > out[j].Bytes
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func (m *ResponseMeter) Total() (count int, bytes int64) {
	for _, st := range m.Stats() {
		count += st.Count
		bytes += st.Bytes
	}
	return count, bytes
}

// Failed - ответы со статусом 4xx/5xx.
func (m *ResponseMeter) Failed() []Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Response(nil), m.failed...)
}

func (m *ResponseMeter) String() string {
	var b strings.Builder
	for i, st := range m.Stats() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(st.Type)
		b.WriteString("=")
		b.WriteString(formatBytes(st.Bytes))
	}
	return b.String()
}

func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit:
		return strconv.FormatFloat(float64(n)/(unit*unit), 'f', 1, 64) + "MB"
	case n >= unit:
		return strconv.FormatFloat(float64(n)/unit, 'f', 1, 64) + "KB"
	default:
		return strconv.FormatInt(n, 10) + "B"
	}
}
