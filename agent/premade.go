package agent

import (
	"fmt"

	"github.com/hupe1980/severn/core"
)

const (
	// ArticleWriterName is the identifier of the ArticleWriter agent.
	ArticleWriterName = "ArticleWriter"
	// ResearcherName is the identifier of the Researcher agent.
	ResearcherName = "Researcher"
)

// ArticleWriter writes an article from the data or summary it is given.
// Audience and tone are configurable; the zero value is not usable, use
// NewArticleWriter.
type ArticleWriter struct {
	targetAudience string
	tone           string
}

var (
	_ core.Agent = ArticleWriter{}
	_ core.Agent = Researcher{}
)

// NewArticleWriter creates an ArticleWriter targeting software developers with a concise tone.
func NewArticleWriter() ArticleWriter {
	return ArticleWriter{
		targetAudience: "software developers",
		tone:           "concise",
	}
}

// WithTargetAudience returns a copy with the given target audience.
func (w ArticleWriter) WithTargetAudience(audience string) ArticleWriter {
	w.targetAudience = audience
	return w
}

// WithTone returns a copy with the given tone.
func (w ArticleWriter) WithTone(tone string) ArticleWriter {
	w.tone = tone
	return w
}

// TargetAudience returns the configured audience.
func (w ArticleWriter) TargetAudience() string { return w.targetAudience }

// Tone returns the configured tone.
func (w ArticleWriter) Tone() string { return w.tone }

// Name implements core.Agent.
func (w ArticleWriter) Name() string { return ArticleWriterName }

// SystemMessage implements core.Agent.
func (w ArticleWriter) SystemMessage() string {
	return fmt.Sprintf(`You are an AI agent.

Your job is to write an article that involves the data (or summary) that you've been given. Your target audience is %s.

When answering, your tone should be: %s.`, w.targetAudience, w.tone)
}

// Researcher researches the user's query with the provided context and
// answers with a concise summary.
type Researcher struct{}

// NewResearcher creates a Researcher.
func NewResearcher() Researcher { return Researcher{} }

// Name implements core.Agent.
func (Researcher) Name() string { return ResearcherName }

// SystemMessage implements core.Agent.
func (Researcher) SystemMessage() string {
	return `You are an AI agent.

Your job is to research whatever query the user gives you, with the provided context.

When answering, your summary should be concise.`
}
