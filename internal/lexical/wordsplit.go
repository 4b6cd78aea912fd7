package lexical

// splitVocab is the dictionary behind splitGlued: words that commonly appear
// glued together inside API identifiers, plus whole identifiers (username,
// filename, metadata) that must never be cut apart. Abridged from a general
// English frequency list to the identifier domain.
var splitVocab = map[string]struct{}{}

func init() {
	words := []string{
		"id",
		"account", "action", "active", "address", "admin", "amount", "api",
		"archive", "area", "array", "audio", "auth", "author", "avatar",
		"backup", "balance", "bank", "basket", "batch", "begin", "bill",
		"billing", "bio", "body", "booking", "bulk", "cache", "card", "cart",
		"category", "child", "city", "class", "client", "code", "color",
		"colour", "column", "comment", "company", "config", "contact",
		"content", "cost", "count", "country", "credit", "currency",
		"customer", "data", "date", "day", "debit", "delivery", "depth",
		"desc", "description", "destination", "detail", "details", "device",
		"distance", "doc", "document", "domain", "email", "employee",
		"enabled", "end", "entry", "error", "event", "external", "feedback",
		"field", "file", "filename", "filter", "first", "flag", "folder",
		"footer", "format", "from", "full", "geo", "grade", "grant", "group",
		"header", "height", "history", "home", "host", "image", "inbox",
		"index", "info", "input", "internal", "inventory", "invoice", "item",
		"job", "key", "kind", "label", "lang", "language", "last", "latitude",
		"leaf", "length", "level", "limit", "link", "list", "locale",
		"location", "log", "login", "logout", "longitude", "mail", "manager",
		"max", "media", "meeting", "member", "message", "meta", "metadata",
		"method", "min", "mode", "month", "name", "node", "note", "num",
		"number", "offset", "operation", "option", "options", "order", "org",
		"organization", "origin", "output", "owner", "page", "parent", "pass",
		"password", "path", "pay", "payment", "person", "phone", "photo",
		"picture", "place", "point", "position", "post", "postal",
		"preference", "price", "private", "product", "profile", "project",
		"public", "query", "queue", "rank", "rate", "record", "region",
		"request", "reservation", "response", "result", "role", "room", "root",
		"row", "score", "scope", "search", "seat", "secret", "server",
		"session", "setting", "settings", "shape", "ship", "shipping", "shop",
		"sign", "site", "size", "slug", "sort", "source", "speed", "stage",
		"stamp", "start", "state", "status", "step", "stock", "store",
		"street", "summary", "sync", "table", "tag", "target", "task", "tax",
		"team", "term", "text", "ticket", "time", "timestamp", "title",
		"token", "total", "town", "track", "tracking", "transaction",
		"transfer", "tree", "type", "until", "url", "user", "username",
		"value", "version", "video", "visible", "web", "week", "weight",
		"width", "word", "work", "workflow", "year", "zip", "zone",
	}
	for _, w := range words {
		splitVocab[w] = struct{}{}
	}
}

// splitGlued breaks a concatenated identifier token ("firstname", "userid")
// into dictionary words. A token that is itself a dictionary word, is short,
// is not purely alphabetic, or has no full segmentation stays whole; a
// segmentation producing a single-letter part is discarded the same way.
func (s *Service) splitGlued(w string) []string {
	if len(w) < 6 || !isAlphaWord(w) {
		return []string{w}
	}
	if _, ok := splitVocab[w]; ok {
		return []string{w}
	}

	n := len(w)
	const unreachable = 1 << 30
	parts := make([]int, n+1)
	cut := make([]int, n+1)
	for i := n - 1; i >= 0; i-- {
		parts[i] = unreachable
		// longest candidate first, so ties keep the longer leading word
		for j := n; j >= i+2; j-- {
			if _, ok := splitVocab[w[i:j]]; !ok {
				continue
			}
			if parts[j] == unreachable || parts[j]+1 >= parts[i] {
				continue
			}
			parts[i] = parts[j] + 1
			cut[i] = j
		}
	}
	if parts[0] >= unreachable || parts[0] < 2 {
		return []string{w}
	}

	var ret []string
	for i := 0; i < n; i = cut[i] {
		ret = append(ret, w[i:cut[i]])
	}
	return ret
}

func isAlphaWord(w string) bool {
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
