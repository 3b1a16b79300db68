package agent

import (
	"fmt"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/internal/util"
)

// Persona is the plain immutable agent: a fixed name and system message.
type Persona struct {
	name          string
	systemMessage string
}

var _ core.Agent = (*Persona)(nil)

// NewPersona creates an agent with the given name and system message.
func NewPersona(name, systemMessage string) *Persona {
	return &Persona{name: name, systemMessage: systemMessage}
}

// NewTemplated creates an agent whose system message is rendered once from a
// text/template with the given variables.
func NewTemplated(name, tmpl string, vars map[string]any) (*Persona, error) {
	msg, err := util.RenderTemplate(tmpl, vars)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	return NewPersona(name, msg), nil
}

// MustTemplated is like NewTemplated but panics on error. Intended for
// package level declarations.
func MustTemplated(name, tmpl string, vars map[string]any) *Persona {
	p, err := NewTemplated(name, tmpl, vars)
	if err != nil {
		panic(err)
	}
	return p
}

// Name implements core.Agent.
func (p *Persona) Name() string { return p.name }

// SystemMessage implements core.Agent.
func (p *Persona) SystemMessage() string { return p.systemMessage }

// String returns the agent name.
func (p *Persona) String() string { return p.name }
