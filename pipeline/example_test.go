package pipeline_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/severn/agent"
	"github.com/hupe1980/severn/datasource"
	"github.com/hupe1980/severn/model"
	"github.com/hupe1980/severn/pipeline"
)

func ExamplePipeline_Run() {
	p := pipeline.New().
		AddAgent(agent.NewPersona("writer", "write concisely")).
		AddAgent(agent.NewPersona("reviewer", "review harshly"))

	out, err := p.Run(context.Background(), "summarize X", model.NewMockBackend(nil))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(out)
	// Output: reviewer:writer:
}

func ExamplePipeline_RunAgentByNameWithDataSource() {
	p := pipeline.New().
		AddAgent(agent.NewPersona("writer", "write concisely")).
		AddAgent(agent.NewPersona("reviewer", "review harshly"))

	out, err := p.RunAgentByNameWithDataSource(context.Background(), "review this", "reviewer",
		model.NewMockBackend(nil), datasource.Static("draft v1"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(out)
	// Output: reviewer:draft v1
}
