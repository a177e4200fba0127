package services

import (
	"context"

	"github.com/growthsystem/erpchat/core/completion"
	"github.com/growthsystem/erpchat/core/domain"
	"github.com/growthsystem/erpchat/core/infrastructure/logging"
	appcontext "github.com/growthsystem/erpchat/core/shared/context"
)

const (
	// fallbackPrefix introduces raw LLM text when its JSON envelope could
	// not be parsed. The user still gets an answer, just unrendered.
	fallbackPrefix = "I analyzed your question but encountered an error. Here's what I found:\n\n"

	// defaultDirectAnswer covers a direct completion with an empty
	// response field.
	defaultDirectAnswer = "I understand your question, but I don't have a specific answer for that."
)

// QueryGuard validates and executes one LLM-generated SQL statement.
type QueryGuard interface {
	Execute(ctx context.Context, sql, doctype string) domain.QueryResult
}

// TemplateRenderer renders a response template against a result binding.
type TemplateRenderer interface {
	Render(template string, binding domain.Binding) string
}

// Answer is the assistant's final output for one completion: the text shown
// to the user plus any per-query failures the caller may want to surface.
type Answer struct {
	Response    string            `json:"response"`
	QueryErrors map[string]string `json:"query_errors,omitempty"`
}

// Assistant composes the completion parser, the query guard and the template
// renderer into the full answer pipeline. It holds no per-request state, so
// concurrent Answer calls are independent.
type Assistant struct {
	guard    QueryGuard
	renderer TemplateRenderer
	log      logging.Logger
}

// NewAssistant creates the assistant service.
func NewAssistant(guard QueryGuard, renderer TemplateRenderer) *Assistant {
	return &Assistant{
		guard:    guard,
		renderer: renderer,
		log:      logging.New("services:assistant"),
	}
}

// Answer turns a raw LLM completion into user-facing text. It always returns
// some string: a rendered template, a direct response, or the raw completion
// behind an explanatory prefix when parsing fails. Partial query failure
// never blocks rendering of the successful subset.
func (a *Assistant) Answer(ctx context.Context, rawCompletion string) Answer {
	c, err := completion.Parse(rawCompletion)
	if err != nil {
		a.log.Errorf("Completion parse failed (conversation %s): %v",
			appcontext.GetConversationID(ctx), err)
		return Answer{Response: fallbackPrefix + rawCompletion}
	}

	if c.DirectAnswer() {
		response := c.Response
		if response == "" {
			response = defaultDirectAnswer
		}
		return Answer{Response: response}
	}

	binding := domain.Binding{}
	queryErrors := make(map[string]string)

	for _, q := range c.ValidQueries() {
		result := a.guard.Execute(ctx, q.SQL, q.Doctype)
		if !result.Success {
			a.log.Warnf("Query '%s' failed (conversation %s): %s",
				q.Key, appcontext.GetConversationID(ctx), result.Error)
			queryErrors[q.Key] = result.Error
			continue
		}
		binding[q.Key] = result.Rows
	}

	answer := Answer{Response: a.renderer.Render(c.Template, binding)}
	if len(queryErrors) > 0 {
		answer.QueryErrors = queryErrors
	}
	return answer
}
