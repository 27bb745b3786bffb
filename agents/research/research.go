// Package research is a sample workflow agent: three source collectors run
// in parallel over canned corpora, then a model stage synthesizes their
// findings into a briefing. It demonstrates composing the workflow runners
// with a model-backed stage over shared session state.
package research

import (
	"strings"

	"github.com/hallwayhq/agenthub/agent"
	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/eventlog"
	"github.com/hallwayhq/agenthub/gate"
	"github.com/hallwayhq/agenthub/model"
	"github.com/hallwayhq/agenthub/registry"
)

// AgentID is the id the research agent registers under.
const AgentID = "research"

// Session state keys the collectors publish their findings under. The writer
// stage references them from its instruction template.
const (
	stateKeyNews   = "newsFindings"
	stateKeyPapers = "paperFindings"
	stateKeyStats  = "statFindings"
)

// entry is one item in a canned source corpus. A real deployment would call
// search APIs here.
type entry struct {
	title    string
	detail   string
	keywords []string
}

var newsCorpus = []entry{
	{
		title:    "GPT-5 shows strong reasoning gains",
		detail:   "Tech Daily, 2025-12-15: the latest model family posts large improvements on multi-step reasoning benchmarks.",
		keywords: []string{"ai", "gpt", "llm", "machine learning"},
	},
	{
		title:    "TSMC schedules 2nm mass production for 2026",
		detail:   "Economic Daily, 2025-12-14: 2nm process volume production planned ahead of competitors.",
		keywords: []string{"semiconductor", "tsmc", "2nm", "chip"},
	},
	{
		title:    "Global EV sales hit a record 20 million units",
		detail:   "Auto Weekly, 2025-12-13: worldwide electric vehicle sales pass 20 million, with China above half the market.",
		keywords: []string{"ev", "electric vehicle", "tesla", "battery"},
	},
	{
		title:    "Banks expand blockchain settlement pilots",
		detail:   "Financial Times, 2025-12-12: cross-border payments over distributed ledgers settle in seconds.",
		keywords: []string{"blockchain", "bank", "payment", "finance"},
	},
	{
		title:    "Cloud market tops 800 billion dollars",
		detail:   "Tech News, 2025-12-11: the three largest providers hold 65% of a growing market.",
		keywords: []string{"cloud", "aws", "azure", "gcp"},
	},
}

var paperCorpus = []entry{
	{
		title:    "Large Language Models: A Survey of Techniques and Applications",
		detail:   "Nature Machine Intelligence, 2025, 1250 citations: surveys architecture, training and application advances.",
		keywords: []string{"llm", "ai", "nlp", "transformer"},
	},
	{
		title:    "Advances in Semiconductor Manufacturing: From 3nm to 2nm",
		detail:   "IEEE Trans. Semiconductor Manufacturing, 2025, 890 citations: EUV lithography at advanced nodes.",
		keywords: []string{"semiconductor", "euv", "chip", "2nm"},
	},
	{
		title:    "Electric Vehicle Battery Technology: Current Status and Future Trends",
		detail:   "Energy Storage Materials, 2025, 720 citations: solid-state and lithium-sulfur battery outlook.",
		keywords: []string{"battery", "ev", "electric vehicle", "energy"},
	},
	{
		title:    "Blockchain Scalability Solutions: Layer 2 and Beyond",
		detail:   "ACM Computing Surveys, 2025, 650 citations: rollups, sidechains and sharding compared.",
		keywords: []string{"blockchain", "layer2", "rollup", "scalability"},
	},
}

var statsCorpus = []entry{
	{
		title:    "AI market size 2025",
		detail:   "500 billion USD, growing 28% year over year.",
		keywords: []string{"ai", "llm", "machine learning", "market"},
	},
	{
		title:    "Semiconductor industry revenue 2025",
		detail:   "680 billion USD, advanced nodes account for a third.",
		keywords: []string{"semiconductor", "chip", "2nm"},
	},
	{
		title:    "EV share of new car sales",
		detail:   "22% of global new car sales are fully electric.",
		keywords: []string{"ev", "electric vehicle", "battery"},
	},
	{
		title:    "Cloud spending growth",
		detail:   "Enterprise cloud spending up 19% year over year.",
		keywords: []string{"cloud", "aws", "azure"},
	},
}

const instruction = `You are a research assistant. Compose a concise briefing
answering the user's question from the findings gathered below. Cite the
titles you draw on and say explicitly when a section has nothing relevant.

News findings:
{{.newsFindings}}

Paper findings:
{{.paperFindings}}

Market data findings:
{{.statFindings}}`

// collector searches one canned corpus for the user's topic and publishes
// formatted findings into session state for the writer stage.
type collector struct {
	name     string
	stateKey string
	corpus   []entry
	empty    string
}

// Name returns the collector's branch name.
func (c collector) Name() string { return c.name }

// Run implements core.AgentRunner.
func (c collector) Run(rc *core.RunContext) error {
	findings := search(c.corpus, rc.UserMessage)

	text := c.empty
	if len(findings) > 0 {
		text = strings.Join(findings, "\n")
	}
	rc.Session.SetState(c.stateKey, text)

	rc.Logger.Info().Str("source", c.name).Int("hits", len(findings)).Msg("source searched")
	return nil
}

// search matches corpus entries whose keywords appear in the query.
func search(corpus []entry, query string) []string {
	query = strings.ToLower(query)

	var findings []string
	for _, e := range corpus {
		for _, kw := range e.keywords {
			if strings.Contains(query, kw) {
				findings = append(findings, "- "+e.title+": "+e.detail)
				break
			}
		}
	}
	return findings
}

// NewDescriptor wires the research agent: a parallel fan-out over the three
// sources followed by a model-backed writer. No tools are gated, so the
// agent works for guests.
func NewDescriptor(llm model.Model, trail *eventlog.Log) registry.Descriptor {
	g := gate.New(gate.Config{}, trail)

	writer := agent.New(AgentID, llm, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(instruction)
	})

	collect := agent.NewParallel("collect",
		collector{name: "news", stateKey: stateKeyNews, corpus: newsCorpus, empty: "No relevant news found."},
		collector{name: "papers", stateKey: stateKeyPapers, corpus: paperCorpus, empty: "No relevant papers found."},
		collector{name: "stats", stateKey: stateKeyStats, corpus: statsCorpus, empty: "No relevant market data found."},
	)

	return registry.Descriptor{
		ID:             AgentID,
		Name:           "Research Assistant",
		Description:    "Gathers news, papers and market data on a topic in parallel and synthesizes a briefing.",
		Runner:         agent.NewSequential(AgentID, collect, writer),
		ToolMiddleware: []core.ToolMiddleware{g.Middleware()},
	}
}
