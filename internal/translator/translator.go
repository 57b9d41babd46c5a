// Package translator implements the per-frame state machine that maps raw
// upstream protocol frames to the typed output event stream.
package translator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/PeronGH/SydneyWeb/internal/domain/entity"
)

const imageCreateURL = "https://www.bing.com/images/create?" +
	"partner=sydney&re=1&showselective=1&sude=1&kseed=8500&SFX=4"

// Translator converts upstream frames for one turn. It holds no state
// across frames except the done flag, set once a terminal event has been
// emitted.
type Translator struct {
	done bool
}

// New creates a translator scoped to a single turn.
func New() *Translator {
	return &Translator{}
}

// Done reports whether a terminal event has been emitted; the caller must
// not feed further frames once it returns true.
func (t *Translator) Done() bool {
	return t.done
}

// Translate maps one raw frame to zero or more events, in emission order.
// Frames of unknown type produce nothing.
func (t *Translator) Translate(raw string) []entity.Event {
	frame := gjson.Parse(raw)
	var events []entity.Event

	if frame.Get("type").Int() == 1 && frame.Get("arguments.0.messages").Exists() {
		events = append(events, t.translateUpdate(frame)...)
	}

	// Checked against the same frame, not as an else-branch: a frame can
	// carry both an answer update and the trailing suggestions.
	if frame.Get("type").Int() == 2 && frame.Get("item.messages").Exists() {
		last := frame.Get("item.messages|@reverse|0")
		events = append(events, t.suggestions(last)...)
	}

	return events
}

func (t *Translator) translateUpdate(frame gjson.Result) []entity.Event {
	message := frame.Get("arguments.0.messages.0")
	msgType := message.Get("messageType").String()

	switch msgType {
	case "InternalSearchQuery":
		return []entity.Event{entity.MessageEvent{
			Role:    entity.RoleAssistant,
			Subtype: "search_query",
			Content: message.Get("hiddenText").String(),
		}}

	case "InternalSearchResult":
		return t.translateSearchResult(message)

	case "InternalLoaderMessage":
		return []entity.Event{entity.MessageEvent{
			Role:    entity.RoleAssistant,
			Subtype: "loading",
			Content: loaderText(message),
		}}

	case "GenerateContentQuery":
		if message.Get("contentType").String() != "IMAGE" {
			return nil
		}
		return []entity.Event{entity.MessageEvent{
			Role:    entity.RoleAssistant,
			Subtype: "generative_image",
			Content: generativeImageText(message.Get("text").String()),
		}}

	case "":
		return t.translateAnswer(frame, message)

	default:
		return []entity.Event{entity.ErrorEvent{
			Detail: "Unsupported message type: " + msgType,
		}}
	}
}

// translateAnswer handles frames without a messageType: incremental answer
// text, the typing heartbeat, content-policy refusals, and the inline
// suggestions that close a turn.
func (t *Translator) translateAnswer(frame, message gjson.Result) []entity.Event {
	var events []entity.Event

	if frame.Get("arguments.0.cursor").Exists() {
		events = append(events, entity.MessageEvent{
			Role:    entity.RoleAssistant,
			Subtype: "message",
			Content: "",
		})
	}

	if message.Get("contentOrigin").String() == "Apology" {
		t.done = true
		return append(events, entity.ErrorEvent{
			Detail: "Looks like the user message has triggered the Bing filter",
		})
	}

	events = append(events, entity.MessageEvent{
		Role:    entity.RoleAssistant,
		Subtype: "message",
		Content: message.Get("text").String(),
	})
	return append(events, t.suggestions(message)...)
}

// translateSearchResult renders grouped search hits as footnote links. A
// malformed payload degrades to a non-fatal error event; the stream
// continues.
func (t *Translator) translateSearchResult(message gjson.Result) []entity.Event {
	hidden := message.Get("hiddenText").String()
	if strings.Contains(hidden, "Web search returned no relevant result") {
		return []entity.Event{entity.MessageEvent{
			Role:    entity.RoleAssistant,
			Subtype: "search_results",
			Content: hidden,
		}}
	}

	text := message.Get("text").String()
	if !gjson.Valid(text) {
		return []entity.Event{entity.ErrorEvent{
			Detail: "Error when parsing InternalSearchResult: " + text,
		}}
	}

	var links []string
	gjson.Parse(text).ForEach(func(_, group gjson.Result) bool {
		// The footnote index restarts for every result group.
		index := 1
		for _, hit := range group.Array() {
			links = append(links, fmt.Sprintf("[^%d^][%s](%s)",
				index, hit.Get("title").String(), hit.Get("url").String()))
			index++
		}
		return true
	})

	return []entity.Event{entity.MessageEvent{
		Role:    entity.RoleAssistant,
		Subtype: "search_results",
		Content: strings.Join(links, "\n\n"),
	}}
}

// suggestions emits the follow-up prompts attached to a message, if any,
// and marks the turn finished.
func (t *Translator) suggestions(message gjson.Result) []entity.Event {
	suggested := message.Get("suggestedResponses")
	if !suggested.Exists() {
		return nil
	}

	items := make([]string, 0, len(suggested.Array()))
	for _, s := range suggested.Array() {
		items = append(items, s.Get("text").String())
	}

	t.done = true
	return []entity.Event{entity.SuggestionsEvent{Items: items}}
}

func loaderText(message gjson.Result) string {
	if message.Get("hiddenText").Exists() {
		return message.Get("hiddenText").String()
	}
	if message.Get("text").Exists() {
		return message.Get("text").String()
	}
	return message.Raw
}

func generativeImageText(keyword string) string {
	link := fmt.Sprintf("%s&q=%s&iframeid=%s",
		imageCreateURL, url.QueryEscape(keyword), uuid.New().String())
	return fmt.Sprintf("Creating image: %s\n%s", keyword, link)
}
