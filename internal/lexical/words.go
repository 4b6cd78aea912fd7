package lexical

// Word lists backing the heuristic tagger and word-class checks. They are
// intentionally small: the pipeline only needs reliable judgments for the
// vocabulary that actually shows up in REST paths and operation summaries.

var verbLexicon = buildSet(
	"get", "set", "create", "delete", "remove", "update", "replace", "list",
	"add", "fetch", "retrieve", "read", "return", "find", "search", "query",
	"check", "send", "post", "put", "patch", "eliminate", "make", "run",
	"start", "stop", "cancel", "execute", "validate", "verify", "login",
	"logout", "register", "subscribe", "unsubscribe", "upload", "download",
	"import", "export", "sync", "merge", "clone", "archive", "activate",
	"deactivate", "enable", "disable", "reset", "refresh", "submit",
	"approve", "reject", "assign", "unassign", "attach", "detach", "move",
	"copy", "rename", "mark", "clear", "save", "write", "buy", "sell",
	"book", "order", "pay", "ship", "track", "rate", "review", "like",
	"follow", "share", "translate", "convert", "generate", "render",
	"process", "accept", "decline", "invite", "join", "leave", "publish",
	"unpublish", "lock", "unlock", "restore", "purge", "notify", "show",
	"count", "filter", "sort", "modify", "edit", "apply", "revoke", "grant",
	"link", "unlink", "ping", "report", "confirm", "complete", "redeem",
	"is", "was", "has", "have", "do", "does",
)

var adjectiveLexicon = buildSet(
	"new", "old", "active", "inactive", "latest", "recent", "current",
	"available", "public", "private", "open", "closed", "pending",
	"featured", "popular", "top", "best", "full", "empty", "valid",
	"invalid", "default", "primary", "secondary", "favorite", "nearby",
	"upcoming", "past", "live", "draft", "archived", "deleted", "enabled",
	"disabled", "visible", "hidden", "verified", "unverified", "paid",
	"free", "premium", "internal", "external", "local", "remote", "global",
)

// functionWords excludes determiners, pronouns, prepositions and similar
// tokens from noun classification.
var functionWords = buildSet(
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "of", "to",
	"in", "on", "at", "for", "from", "with", "without", "by", "via", "as",
	"is", "are", "was", "were", "be", "been", "being", "it", "its", "this",
	"that", "these", "those", "my", "your", "his", "her", "our", "their",
	"i", "you", "he", "she", "we", "they", "me", "him", "them", "us",
	"not", "no", "yes", "all", "any", "some", "each", "every", "will",
	"would", "can", "could", "shall", "should", "may", "might", "must",
)

var irregularVerbs = map[string]string{
	"is":      "be",
	"are":     "be",
	"was":     "be",
	"were":    "be",
	"has":     "have",
	"does":    "do",
	"goes":    "go",
	"gets":    "get",
	"sets":    "set",
	"puts":    "put",
	"sends":   "send",
	"makes":   "make",
	"gives":   "give",
	"takes":   "take",
	"creates": "create",
	"deletes": "delete",
	"removes": "remove",
	"updates": "update",
	"returns": "return",
	"shows":   "show",
	"lists":   "list",
}

func buildSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
