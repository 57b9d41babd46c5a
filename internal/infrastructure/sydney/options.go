package sydney

import "github.com/PeronGH/SydneyWeb/internal/domain/entity"

// kblobKnowledgeRequest is the fixed metadata part of an image upload.
const kblobKnowledgeRequest = `{"imageInfo":{},"knowledgeRequest":{` +
	`"invokedSkills":["ImageById"],"subscriptionId":"Bing.Chat.Multimodal",` +
	`"invokedSkillsRequestData":{"enableFaceBlur":false},` +
	`"convoData":{"convoid":"","convotone":"Creative"}}}`

var baseOptionsSets = []string{
	"nlu_direct_response_filter",
	"deepleo",
	"disable_emoji_spoken_text",
	"responsible_ai_policy_235",
	"enablemm",
	"dv3sugg",
	"autosave",
	"iyxapbing",
	"iycapbing",
}

var styleOptionsSets = map[entity.ConversationStyle][]string{
	entity.StyleCreative: {"h3imaginative", "clgalileo", "gencontentv3"},
	entity.StyleBalanced: {"galileo", "saharagenconv5"},
	entity.StylePrecise:  {"h3precise", "clgalileo", "gencontentv3"},
}

// optionsSetsFor resolves the upstream option flags for a style, appending
// nosearchall when web search is suppressed.
func optionsSetsFor(style entity.ConversationStyle, noSearch bool) []string {
	sets := make([]string, 0, len(baseOptionsSets)+4)
	sets = append(sets, baseOptionsSets...)
	sets = append(sets, styleOptionsSets[style]...)
	if noSearch {
		sets = append(sets, "nosearchall")
	}
	return sets
}

var allowedMessageTypes = []string{
	"ActionRequest",
	"Chat",
	"Context",
	"InternalSearchQuery",
	"InternalSearchResult",
	"InternalLoaderMessage",
	"Progress",
	"GenerateContentQuery",
	"SearchQuery",
}
