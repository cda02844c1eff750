/*
Package server implements msgpack IPC for dictionary management.

The host application starts spelldict in serve mode and talks to it over
stdin/stdout. Each message is one msgpack map; messages follow each other on
the stream with no extra framing. Logs go to stderr.

# IPC

On start the server writes a ready message:

	{"status": "ready"}

Every request carries an id and an action, and the response echoes the id:

	{"id": "req_001", "action": "list"}
	{"id": "req_001", "status": "ok", "entries": [{"name": "en-US-dict", "file": "en-US-dict.bdic", "enabled": true, "label": "English (United States) - en-US-dict.bdic"}], "enabled": ["en-US-dict"]}

	{"id": "req_002", "action": "add_word", "word": "gopher"}
	{"id": "req_002", "status": "ok", "words": ["a", "gopher"], "notice": "Additionally added word 'a' ...", "written": true}

Failed requests set status to "error" and a machine readable code:

	{"id": "req_003", "status": "error", "error": "...", "code": "invalid_character"}

# Actions

	list       catalog entries and the enabled names
	enable     enable the dictionaries in names
	disable    disable the dictionaries in names
	label      display label for file
	add_word   add word to the custom dictionary
	build      replace the custom dictionary with words (words is required)
	delete     remove the custom dictionary and empty its mirror
	words      words of the custom dictionary
	inspect    decode the dictionary name (or file); prefix and limit select words
	seed       install bundled dictionaries not installed before
*/
package server

// Actions understood by the server.
const (
	ActionList    = "list"
	ActionEnable  = "enable"
	ActionDisable = "disable"
	ActionLabel   = "label"
	ActionAddWord = "add_word"
	ActionBuild   = "build"
	ActionDelete  = "delete"
	ActionWords   = "words"
	ActionInspect = "inspect"
	ActionSeed    = "seed"
)

// Response status values.
const (
	StatusReady = "ready"
	StatusOK    = "ok"
	StatusError = "error"
)

// Error codes.
const (
	CodeInvalidCharacter = "invalid_character"
	CodeMalformedAffix   = "malformed_affix"
	CodeStorage          = "storage"
	CodeBadRequest       = "bad_request"
	CodeUnknown          = "unknown_dictionary"
	CodeBadDictionary    = "bad_dictionary"
	CodeInternal         = "internal"
)

// Request is any client message; fields not used by the action are ignored.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action"`
	Name   string   `msgpack:"name,omitempty"`
	Names  []string `msgpack:"names,omitempty"`
	File   string   `msgpack:"file,omitempty"`
	Word   string   `msgpack:"word,omitempty"`
	Words  []string `msgpack:"words,omitempty"`
	Prefix string   `msgpack:"prefix,omitempty"`
	Limit  int      `msgpack:"limit,omitempty"`
}

// DictEntry is one catalog entry.
type DictEntry struct {
	Name    string `msgpack:"name"`
	File    string `msgpack:"file"`
	Enabled bool   `msgpack:"enabled"`
	Label   string `msgpack:"label"`
}

// DictInfo describes a decoded dictionary.
type DictInfo struct {
	File         string   `msgpack:"file"`
	Version      string   `msgpack:"version"`
	Size         int      `msgpack:"size"`
	SizeLabel    string   `msgpack:"size_label"`
	WordCount    int      `msgpack:"word_count"`
	AffixGroups  int      `msgpack:"affix_groups"`
	AffixRules   int      `msgpack:"affix_rules"`
	Replacements int      `msgpack:"replacements"`
	Words        []string `msgpack:"words,omitempty"`
}

// SeedItem is the outcome for one bundled dictionary.
type SeedItem struct {
	Name   string `msgpack:"name"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// Response answers a Request.
type Response struct {
	ID      string `msgpack:"id,omitempty"`
	Status  string `msgpack:"status"`
	Error   string `msgpack:"error,omitempty"`
	Code    string `msgpack:"code,omitempty"`
	Hint    string `msgpack:"hint,omitempty"`
	Version string `msgpack:"version,omitempty"`

	Entries []DictEntry `msgpack:"entries,omitempty"`
	Enabled []string    `msgpack:"enabled,omitempty"`
	Label   string      `msgpack:"label,omitempty"`
	Words   []string    `msgpack:"words,omitempty"`
	Notice  string      `msgpack:"notice,omitempty"`
	Deleted bool        `msgpack:"deleted,omitempty"`
	Written bool        `msgpack:"written,omitempty"`
	Info    *DictInfo   `msgpack:"info,omitempty"`
	Seed    []SeedItem  `msgpack:"seed,omitempty"`
}
