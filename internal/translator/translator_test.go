package translator

import (
	"strings"
	"testing"

	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
)

func message(t *testing.T, ev entity.Event) entity.MessageEvent {
	t.Helper()
	m, ok := ev.(entity.MessageEvent)
	if !ok {
		t.Fatalf("expected MessageEvent, got %T", ev)
	}
	return m
}

func errorEvent(t *testing.T, ev entity.Event) entity.ErrorEvent {
	t.Helper()
	e, ok := ev.(entity.ErrorEvent)
	if !ok {
		t.Fatalf("expected ErrorEvent, got %T", ev)
	}
	return e
}

func TestTranslateSearchQuery(t *testing.T) {
	tr := New()
	events := tr.Translate(`{"type":1,"arguments":[{"messages":[
		{"messageType":"InternalSearchQuery","hiddenText":"querying X"}]}]}`)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	m := message(t, events[0])
	if m.Role != entity.RoleAssistant || m.Subtype != "search_query" || m.Content != "querying X" {
		t.Errorf("unexpected message: %+v", m)
	}
	if tr.Done() {
		t.Error("search query must not terminate the turn")
	}
}

func TestTranslateSearchResult(t *testing.T) {
	t.Run("single group numbers run within the group", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":1,"arguments":[{"messages":[
			{"messageType":"InternalSearchResult",
			 "text":"{\"a\":[{\"title\":\"T1\",\"url\":\"U1\"},{\"title\":\"T2\",\"url\":\"U2\"}]}"}]}]}`)

		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		m := message(t, events[0])
		if m.Subtype != "search_results" {
			t.Errorf("expected search_results, got %s", m.Subtype)
		}
		want := "[^1^][T1](U1)\n\n[^2^][T2](U2)"
		if m.Content != want {
			t.Errorf("content = %q, want %q", m.Content, want)
		}
	})

	t.Run("index resets at each group", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":1,"arguments":[{"messages":[
			{"messageType":"InternalSearchResult",
			 "text":"{\"a\":[{\"title\":\"T1\",\"url\":\"U1\"}],\"b\":[{\"title\":\"T2\",\"url\":\"U2\"}]}"}]}]}`)

		m := message(t, events[0])
		want := "[^1^][T1](U1)\n\n[^1^][T2](U2)"
		if m.Content != want {
			t.Errorf("content = %q, want %q", m.Content, want)
		}
	})

	t.Run("no relevant result passes hidden text through", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":1,"arguments":[{"messages":[
			{"messageType":"InternalSearchResult",
			 "hiddenText":"Web search returned no relevant result"}]}]}`)

		m := message(t, events[0])
		if m.Subtype != "search_results" || m.Content != "Web search returned no relevant result" {
			t.Errorf("unexpected message: %+v", m)
		}
	})

	t.Run("malformed payload degrades to a non-fatal error", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":1,"arguments":[{"messages":[
			{"messageType":"InternalSearchResult","text":"not json"}]}]}`)

		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		e := errorEvent(t, events[0])
		if !strings.Contains(e.Detail, "InternalSearchResult") {
			t.Errorf("detail should name the frame kind: %q", e.Detail)
		}
		if tr.Done() {
			t.Error("a translation error must not terminate the turn")
		}
	})
}

func TestTranslateLoader(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{
			name: "hidden text preferred",
			frame: `{"type":1,"arguments":[{"messages":[
				{"messageType":"InternalLoaderMessage","hiddenText":"Searching the web","text":"ignored"}]}]}`,
			want: "Searching the web",
		},
		{
			name: "text fallback",
			frame: `{"type":1,"arguments":[{"messages":[
				{"messageType":"InternalLoaderMessage","text":"Loading"}]}]}`,
			want: "Loading",
		},
		{
			name: "raw json last resort",
			frame: `{"type":1,"arguments":[{"messages":[
				{"messageType":"InternalLoaderMessage","progress":42}]}]}`,
			want: `{"messageType":"InternalLoaderMessage","progress":42}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events := New().Translate(tc.frame)
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			m := message(t, events[0])
			if m.Subtype != "loading" || m.Content != tc.want {
				t.Errorf("got %+v, want loading %q", m, tc.want)
			}
		})
	}
}

func TestTranslateGenerativeImage(t *testing.T) {
	t.Run("image query yields a creation link", func(t *testing.T) {
		events := New().Translate(`{"type":1,"arguments":[{"messages":[
			{"messageType":"GenerateContentQuery","contentType":"IMAGE","text":"a red cat"}]}]}`)

		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		m := message(t, events[0])
		if m.Subtype != "generative_image" {
			t.Errorf("expected generative_image, got %s", m.Subtype)
		}
		if !strings.Contains(m.Content, "a red cat") {
			t.Errorf("content should carry the keyword: %q", m.Content)
		}
		if !strings.Contains(m.Content, "q=a+red+cat") {
			t.Errorf("content should carry the escaped keyword: %q", m.Content)
		}
		if !strings.Contains(m.Content, "iframeid=") {
			t.Errorf("content should carry a request id: %q", m.Content)
		}
	})

	t.Run("other content types produce nothing", func(t *testing.T) {
		events := New().Translate(`{"type":1,"arguments":[{"messages":[
			{"messageType":"GenerateContentQuery","contentType":"VIDEO","text":"x"}]}]}`)
		if len(events) != 0 {
			t.Fatalf("expected no events, got %d", len(events))
		}
	})
}

func TestTranslateAnswer(t *testing.T) {
	t.Run("apology yields exactly one error and terminates", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":1,"arguments":[{"messages":[
			{"contentOrigin":"Apology","text":"sorry","suggestedResponses":[{"text":"A"}]}]}]}`)

		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		e := errorEvent(t, events[0])
		if !strings.Contains(e.Detail, "Bing filter") {
			t.Errorf("unexpected detail: %q", e.Detail)
		}
		if !tr.Done() {
			t.Error("apology should terminate the turn")
		}
	})

	t.Run("cursor emits a heartbeat before the answer", func(t *testing.T) {
		events := New().Translate(`{"type":1,"arguments":[{"cursor":{"j":""},"messages":[
			{"text":"Hello"}]}]}`)

		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		hb := message(t, events[0])
		if hb.Content != "" || hb.Subtype != "message" {
			t.Errorf("expected empty heartbeat, got %+v", hb)
		}
		if m := message(t, events[1]); m.Content != "Hello" {
			t.Errorf("expected answer Hello, got %+v", m)
		}
	})

	t.Run("answer with suggestions terminates the turn", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":1,"arguments":[{"messages":[
			{"text":"Hello","suggestedResponses":[{"text":"A"},{"text":"B"}]}]}]}`)

		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if m := message(t, events[0]); m.Content != "Hello" || m.Subtype != "message" {
			t.Errorf("unexpected message: %+v", m)
		}
		s, ok := events[1].(entity.SuggestionsEvent)
		if !ok {
			t.Fatalf("expected SuggestionsEvent, got %T", events[1])
		}
		if len(s.Items) != 2 || s.Items[0] != "A" || s.Items[1] != "B" {
			t.Errorf("unexpected suggestions: %v", s.Items)
		}
		if !tr.Done() {
			t.Error("suggestions should terminate the turn")
		}
	})
}

func TestTranslateUnsupportedType(t *testing.T) {
	tr := New()
	events := tr.Translate(`{"type":1,"arguments":[{"messages":[
		{"messageType":"Foo","text":"x"}]}]}`)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := errorEvent(t, events[0])
	if !strings.Contains(e.Detail, "Foo") {
		t.Errorf("detail should contain the unknown type: %q", e.Detail)
	}
	if tr.Done() {
		t.Error("an unsupported type must not terminate the turn")
	}
}

func TestTranslateIgnoredFrames(t *testing.T) {
	frames := []string{
		`{"type":3}`,
		`{"type":6}`,
		`{"type":1,"arguments":[{}]}`,
		`{"type":1}`,
		`{"type":2}`,
		`{"type":2,"item":{}}`,
		`{}`,
	}
	for _, f := range frames {
		if events := New().Translate(f); len(events) != 0 {
			t.Errorf("frame %s should produce nothing, got %d events", f, len(events))
		}
	}
}

func TestTranslateFinalFrameSuggestions(t *testing.T) {
	t.Run("last item message carries suggestions", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":2,"item":{"messages":[
			{"text":"earlier"},
			{"text":"final","suggestedResponses":[{"text":"More"}]}]}}`)

		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		s, ok := events[0].(entity.SuggestionsEvent)
		if !ok {
			t.Fatalf("expected SuggestionsEvent, got %T", events[0])
		}
		if len(s.Items) != 1 || s.Items[0] != "More" {
			t.Errorf("unexpected suggestions: %v", s.Items)
		}
		if !tr.Done() {
			t.Error("final suggestions should terminate the turn")
		}
	})

	t.Run("no suggestions on the last message produces nothing", func(t *testing.T) {
		tr := New()
		events := tr.Translate(`{"type":2,"item":{"messages":[{"text":"final"}]}}`)
		if len(events) != 0 {
			t.Fatalf("expected no events, got %d", len(events))
		}
		if tr.Done() {
			t.Error("turn should not be terminated")
		}
	})
}
