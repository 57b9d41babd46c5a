package entity

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		msg  ChatMessage
		want string
	}{
		{
			name: "user message",
			msg:  ChatMessage{Role: RoleUser, Subtype: "message", Content: "hello"},
			want: "[user](#message)\nhello",
		},
		{
			name: "assistant search query",
			msg:  ChatMessage{Role: RoleAssistant, Subtype: "search_query", Content: "querying X"},
			want: "[assistant](#search_query)\nquerying X",
		},
		{
			name: "empty content keeps the header line",
			msg:  ChatMessage{Role: RoleSystem, Subtype: "message", Content: ""},
			want: "[system](#message)\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.msg.Render(); got != tc.want {
				t.Errorf("Render() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildContext(t *testing.T) {
	m1 := ChatMessage{Role: RoleSystem, Subtype: "message", Content: "sys"}
	m2 := ChatMessage{Role: RoleUser, Subtype: "message", Content: "hi"}
	m3 := ChatMessage{Role: RoleAssistant, Subtype: "message", Content: "hey"}

	t.Run("empty history yields empty string", func(t *testing.T) {
		if got := BuildContext(nil); got != "" {
			t.Errorf("BuildContext(nil) = %q, want empty", got)
		}
	})

	t.Run("single message equals its rendering", func(t *testing.T) {
		if got := BuildContext([]ChatMessage{m2}); got != m2.Render() {
			t.Errorf("BuildContext([m]) = %q, want %q", got, m2.Render())
		}
	})

	t.Run("order is preserved with blank-line separator", func(t *testing.T) {
		got := BuildContext([]ChatMessage{m1, m2, m3})
		want := m1.Render() + "\n\n" + m2.Render() + "\n\n" + m3.Render()
		if got != want {
			t.Errorf("BuildContext = %q, want %q", got, want)
		}
	})

	t.Run("concatenation across a split matches the whole", func(t *testing.T) {
		all := []ChatMessage{m1, m2, m3}
		whole := BuildContext(all)
		joined := BuildContext(all[:1]) + "\n\n" + BuildContext(all[1:])
		if whole != joined {
			t.Errorf("split concatenation %q != whole %q", joined, whole)
		}
	})
}

func TestCookieHeader(t *testing.T) {
	cookies := []Cookie{{Name: "_U", Value: "abc"}, {Name: "MUID", Value: "42"}}
	if got := CookieHeader(cookies); got != "_U=abc; MUID=42" {
		t.Errorf("CookieHeader = %q", got)
	}
	if got := CookieHeader(nil); got != "" {
		t.Errorf("CookieHeader(nil) = %q, want empty", got)
	}
}

func TestConversationStyleValid(t *testing.T) {
	for _, s := range []ConversationStyle{StyleCreative, StylePrecise, StyleBalanced} {
		if !s.Valid() {
			t.Errorf("style %q should be valid", s)
		}
	}
	if ConversationStyle("funny").Valid() {
		t.Error("unknown style should be invalid")
	}
}
