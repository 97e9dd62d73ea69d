// Package notify is the transient message surface actions report through.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Mohsinsiddi/launchpad/internal/ui"
)

// Notifier shows short success and error messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Terminal prints styled messages, one per line.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal writes to stdout.
func NewTerminal() *Terminal {
	return &Terminal{out: os.Stdout}
}

// NewTerminalTo writes to w.
func NewTerminalTo(w io.Writer) *Terminal {
	return &Terminal{out: w}
}

func (t *Terminal) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, ui.Success(msg))
}

func (t *Terminal) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, ui.Err(msg))
}

// Kind tells success and error messages apart in a Recorder.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is one recorded notification.
type Message struct {
	Kind Kind
	Text string
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Kind: k, Text: msg})
}

// Messages returns everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Errors returns the text of recorded error messages.
func (r *Recorder) Errors() []string { return r.texts(KindError) }

// Successes returns the text of recorded success messages.
func (r *Recorder) Successes() []string { return r.texts(KindSuccess) }

func (r *Recorder) texts(k Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.messages {
		if m.Kind == k {
			out = append(out, m.Text)
		}
	}
	return out
}

// Discard drops every message.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
