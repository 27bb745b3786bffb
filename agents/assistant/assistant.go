// Package assistant is a sample general-purpose agent with weather and
// clock tools. It requires no registration and works for guests.
package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/hallwayhq/agenthub/agent"
	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/eventlog"
	"github.com/hallwayhq/agenthub/gate"
	"github.com/hallwayhq/agenthub/model"
	"github.com/hallwayhq/agenthub/registry"
	"github.com/hallwayhq/agenthub/tool"
)

// AgentID is the id the assistant registers under.
const AgentID = "assistant"

// Canned weather reports keyed by lowercase city name. A real deployment
// would call a weather API here.
var weatherReports = map[string]string{
	"taipei":   "Taipei is sunny, 28 degrees Celsius, 65% humidity.",
	"new york": "New York is sunny, 25 degrees Celsius, 55% humidity.",
	"tokyo":    "Tokyo is cloudy, 22 degrees Celsius, 70% humidity.",
}

var timezones = map[string]string{
	"taipei":   "Asia/Taipei",
	"new york": "America/New_York",
	"tokyo":    "Asia/Tokyo",
	"london":   "Europe/London",
	"paris":    "Europe/Paris",
}

const instruction = `You are a helpful assistant answering questions about
weather and local time. Use your tools for factual answers; if a city is
unsupported, say so and list the cities you know.`

// NewDescriptor wires the assistant agent. The gate carries no required
// tools, so every tool works for unregistered guests too.
func NewDescriptor(llm model.Model, trail *eventlog.Log) registry.Descriptor {
	g := gate.New(gate.Config{}, trail)

	runner := agent.New(AgentID, llm, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(instruction)
		o.Tools = []core.Tool{newWeatherTool(), newTimeTool()}
	})

	return registry.Descriptor{
		ID:             AgentID,
		Name:           "General Assistant",
		Description:    "Answers weather and local time questions for a handful of cities.",
		Runner:         runner,
		ToolMiddleware: []core.ToolMiddleware{g.Middleware()},
	}
}

func newWeatherTool() core.Tool {
	return tool.NewFunctionTool(
		"get_weather",
		"Get the current weather report for a city.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string", "description": "City name, e.g. Taipei"},
			},
			"required": []string{"city"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			city, _ := args["city"].(string)
			report, ok := weatherReports[strings.ToLower(city)]
			if !ok {
				return map[string]any{
					"status":        "error",
					"error_message": fmt.Sprintf("No weather information available for %q.", city),
				}, nil
			}
			return map[string]any{"status": "success", "report": report}, nil
		},
	)
}

func newTimeTool() core.Tool {
	return tool.NewFunctionTool(
		"get_current_time",
		"Get the current local time in a city.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string", "description": "City name, e.g. Tokyo"},
			},
			"required": []string{"city"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			city, _ := args["city"].(string)
			tzName, ok := timezones[strings.ToLower(city)]
			if !ok {
				return map[string]any{
					"status":        "error",
					"error_message": fmt.Sprintf("No timezone information available for %q.", city),
				}, nil
			}
			loc, err := time.LoadLocation(tzName)
			if err != nil {
				return map[string]any{
					"status":        "error",
					"error_message": fmt.Sprintf("Failed to load timezone for %q.", city),
				}, nil
			}
			now := time.Now().In(loc)
			return map[string]any{
				"status": "success",
				"report": fmt.Sprintf("The current time in %s is %s", city, now.Format("2006-01-02 15:04:05 MST")),
			}, nil
		},
	)
}
