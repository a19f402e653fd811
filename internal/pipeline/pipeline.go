package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redactyl/imgstrip/internal/extract"
	"github.com/redactyl/imgstrip/internal/history"
	"github.com/redactyl/imgstrip/internal/jsontree"
	"github.com/redactyl/imgstrip/internal/sanitize"
	"go.uber.org/zap"
)

// User-facing status messages.
const (
	MsgEmptyInput  = "JSON input cannot be empty."
	MsgInvalidJSON = "Invalid JSON format. Please check your input."
)

// CopiedFlagTTL is how long a copied flag stays visible after a successful
// clipboard write. Callers schedule the reset; every copy schedules its own.
const CopiedFlagTTL = 2 * time.Second

// ErrEmptyInput is reported when the input is empty or only whitespace.
var ErrEmptyInput = errors.New("empty input")

// State of the most recent run.
type State int

const (
	Idle State = iota
	Running
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Status pairs a run state with the message shown to the user.
type Status struct {
	State   State  `json:"state"`
	Message string `json:"message"`
}

// Item is one unique payload from the latest successful run.
type Item struct {
	ID     int    `json:"id"`
	Value  string `json:"value"`
	Copied bool   `json:"-"`
}

// Outcome is the typed result of a single run.
type Outcome struct {
	Status  Status
	Items   []Item
	Matches []extract.Location // every match, duplicates included
	Cleaned string
	Err     error // ErrEmptyInput or *jsontree.ParseError on failure
}

// Options configures an Extractor. Zero values select the defaults.
type Options struct {
	Matcher      *extract.Matcher
	Logger       *zap.Logger
	Now          func() time.Time
	HistoryLimit int
}

// Extractor runs the sanitize, parse, extract, dedup, redact and serialize
// pipeline and owns the state a caller displays between runs: the current
// status, the unique payloads, the cleaned text and a bounded history.
//
// An Extractor is not safe for concurrent use. Each Run allocates its own
// tree and result slices, so separate Extractors never share data.
type Extractor struct {
	matcher extract.Matcher
	log     *zap.Logger
	now     func() time.Time

	status        Status
	items         []Item
	cleaned       string
	cleanedCopied bool
	history       *history.History
}

// New returns an idle Extractor.
func New(opts Options) *Extractor {
	m := extract.DefaultMatcher()
	if opts.Matcher != nil {
		m = *opts.Matcher
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Extractor{
		matcher: m,
		log:     log,
		now:     now,
		status:  Status{State: Idle},
		history: history.New(opts.HistoryLimit),
	}
}

// Run processes input and replaces the previous run's results wholesale.
// Failures are reported through the returned Outcome, never by panicking.
func (e *Extractor) Run(input string) Outcome {
	e.status = Status{State: Running}
	e.items = nil
	e.cleaned = ""
	e.cleanedCopied = false

	if strings.TrimSpace(input) == "" {
		return e.fail(MsgEmptyInput, ErrEmptyInput)
	}

	tree, err := jsontree.Parse(sanitize.Sanitize(input))
	if err != nil {
		e.log.Warn("parse failed", zap.Error(err), zap.Int("input_bytes", len(input)))
		return e.fail(MsgInvalidJSON, err)
	}

	matches := e.matcher.Locate(tree)
	unique := extract.Dedup(e.matcher.Extract(tree))
	items := make([]Item, len(unique))
	for i, v := range unique {
		items[i] = Item{ID: i, Value: v}
	}
	cleaned := jsontree.Marshal(e.matcher.Redact(tree))

	e.items = items
	e.cleaned = cleaned
	e.history.Add(cleaned, e.now())
	e.status = Status{State: Success, Message: successMessage(len(items))}
	e.log.Debug("extraction complete",
		zap.Int("matches", len(matches)),
		zap.Int("unique", len(items)),
		zap.Int("cleaned_bytes", len(cleaned)))

	return Outcome{
		Status:  e.status,
		Items:   e.Items(),
		Matches: matches,
		Cleaned: cleaned,
	}
}

func (e *Extractor) fail(msg string, err error) Outcome {
	e.status = Status{State: Error, Message: msg}
	return Outcome{Status: e.status, Err: err}
}

func successMessage(n int) string {
	if n == 1 {
		return "Extracted 1 unique payload."
	}
	return fmt.Sprintf("Extracted %d unique payloads.", n)
}

// Status returns the status of the latest run.
func (e *Extractor) Status() Status { return e.status }

// Items returns a copy of the payloads from the latest successful run.
func (e *Extractor) Items() []Item {
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// Item returns the payload with the given ID.
func (e *Extractor) Item(id int) (Item, bool) {
	if id < 0 || id >= len(e.items) {
		return Item{}, false
	}
	return e.items[id], true
}

// Cleaned returns the redacted document of the latest successful run.
func (e *Extractor) Cleaned() string { return e.cleaned }

// History exposes the bounded list of recent cleaned documents.
func (e *Extractor) History() *history.History { return e.history }

// Matcher returns the payload matcher in use.
func (e *Extractor) Matcher() extract.Matcher { return e.matcher }

// MarkCopied sets the copied flag of an item. It reports false if the item
// no longer exists, e.g. because a newer run replaced the items.
func (e *Extractor) MarkCopied(id int) bool {
	if id < 0 || id >= len(e.items) {
		return false
	}
	e.items[id].Copied = true
	return true
}

// ResetCopied clears the copied flag of an item, if it still exists.
func (e *Extractor) ResetCopied(id int) {
	if id >= 0 && id < len(e.items) {
		e.items[id].Copied = false
	}
}

func (e *Extractor) CleanedCopied() bool { return e.cleanedCopied }

// MarkCleanedCopied sets the copied flag of the cleaned document. It reports
// false when there is no cleaned document.
func (e *Extractor) MarkCleanedCopied() bool {
	if e.cleaned == "" {
		return false
	}
	e.cleanedCopied = true
	return true
}

func (e *Extractor) ResetCleanedCopied() { e.cleanedCopied = false }
