// Package printer serialises everything the operator sees: the prompt,
// command replies and asynchronous plane output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultPrompt is shown before every command read.
const DefaultPrompt = "Command: "

// Reprompt controls whether Announce redraws the prompt.
type Reprompt int

const (
	// RepromptAwaiting redraws the prompt only while a read is pending.
	RepromptAwaiting Reprompt = iota
	// RepromptAlways redraws after every announcement; used by child
	// processes that cannot see the supervisor's prompt state.
	RepromptAlways
	// RepromptNever leaves the prompt alone.
	RepromptNever
)

// Printer is safe for concurrent use.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	prompt   string
	reprompt Reprompt
	awaiting bool
}

// Option configures a Printer
type Option func(p *Printer)

// WithPrompt overrides the prompt text
func WithPrompt(prompt string) Option {
	return func(p *Printer) {
		p.prompt = prompt
	}
}

// WithReprompt sets the announce redraw mode
func WithReprompt(mode Reprompt) Option {
	return func(p *Printer) {
		p.reprompt = mode
	}
}

// New creates a printer writing to w, or os.Stdout when w is nil
func New(w io.Writer, opts ...Option) *Printer {
	if w == nil {
		w = os.Stdout
	}
	ret := &Printer{w: w, prompt: DefaultPrompt}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Prompt writes the prompt without a trailing newline and marks the printer
// as awaiting input.
func (p *Printer) Prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.write(p.prompt)
	p.awaiting = true
}

// Println writes a reply line; the pending read is considered answered.
func (p *Printer) Println(a ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.awaiting = false
	p.write(fmt.Sprintln(a...))
}

// Printf writes a formatted reply line, adding a newline when missing.
func (p *Printer) Printf(format string, a ...interface{}) {
	line := fmt.Sprintf(format, a...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.awaiting = false
	p.write(line)
}

// Announce writes a line produced outside the command loop, moving off a
// displayed prompt first and redrawing it afterwards. The write error is
// returned so the caller may retry the line.
func (p *Printer) Announce(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.reprompt == RepromptAlways:
		return p.write(line + "\n" + p.prompt)
	case p.reprompt == RepromptAwaiting && p.awaiting:
		return p.write("\n" + line + "\n" + p.prompt)
	default:
		return p.write(line + "\n")
	}
}

// Acknowledge records that the pending read returned without output, so
// later announcements do not redraw a prompt nobody is waiting on.
func (p *Printer) Acknowledge() {
	p.mu.Lock()
	p.awaiting = false
	p.mu.Unlock()
}

func (p *Printer) write(text string) error {
	_, err := io.WriteString(p.w, text)
	if err != nil {
		log.Debug().Err(err).Msg("printer write failed")
	}
	return err
}
