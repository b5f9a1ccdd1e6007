// Package prompt assembles bounded-length prompts from a query and the
// context chunks supplied by the retriever.
package prompt

import (
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/katakuxiko/rag-assistant/internal/util"
)

// TruncationMarker is appended when the joined context is cut.
const TruncationMarker = "..."

// codeKeywords drive the code-request heuristic. Substring match,
// case-insensitive. Known limitation: queries like "write a summary" are
// misclassified as code requests; kept as-is on purpose.
var codeKeywords = []string{"code", "function", "script", "program", "implement", "write"}

const qaTemplateText = `You are a helpful assistant. Answer the question using the context below.
If the context does not contain the answer, say so honestly.

Context:
{{.Context}}

Question: {{.Query}}

Answer:`

const codeTemplateText = `You are an expert software engineer. Using the context below when relevant, write code that satisfies the request.

Requirements:
- The code must be complete and runnable as-is, not a fragment.
- For C or C++, include a main entry point.
- Never embed secrets, credentials or API keys in the code.
- Avoid insecure patterns: no command injection, no hardcoded passwords, validate external input.
- Target deployment quality, not prototype quality.
- Reply with a single fenced code block{{if .Language}} in {{.Language}}{{end}}.

Context:
{{.Context}}

Request: {{.Query}}
`

var (
	qaTemplate   = template.Must(template.New("qa").Parse(qaTemplateText))
	codeTemplate = template.Must(template.New("code").Parse(codeTemplateText))
)

type promptData struct {
	Query    string
	Context  string
	Language string
}

// IsCodeQuery reports whether the query looks like a code-generation request.
func IsCodeQuery(query string) bool {
	return util.ContainsAnyFold(query, codeKeywords)
}

// Build joins the context chunks (input order preserved), truncates them to
// maxContextLen runes, and renders either the Q&A or the code template
// depending on the query. It never fails: a template defect degrades to a
// minimal prompt that still carries the query.
func Build(query string, contexts []string, maxContextLen int) string {
	tmpl := qaTemplate
	if IsCodeQuery(query) {
		tmpl = codeTemplate
	}
	return render(tmpl, promptData{
		Query:   query,
		Context: JoinContexts(contexts, maxContextLen),
	})
}

// BuildCode renders the code template with an explicit target language.
func BuildCode(query, language string, contexts []string, maxContextLen int) string {
	return render(codeTemplate, promptData{
		Query:    query,
		Context:  JoinContexts(contexts, maxContextLen),
		Language: language,
	})
}

// JoinContexts concatenates chunks with blank-line separators and enforces
// the length contract: the result is at most maxContextLen runes plus the
// truncation marker.
func JoinContexts(contexts []string, maxContextLen int) string {
	joined := strings.Join(contexts, "\n\n")
	if utf8.RuneCountInString(joined) > maxContextLen {
		joined = util.TruncateRunes(joined, maxContextLen) + TruncationMarker
	}
	return joined
}

// EnsureClosingFence appends a closing code fence if the response does not
// already end with one. Best-effort normalization only.
func EnsureClosingFence(s string) string {
	if strings.HasSuffix(strings.TrimSpace(s), "```") {
		return s
	}
	return s + "\n```"
}

func render(tmpl *template.Template, d promptData) string {
	var b strings.Builder
	if err := tmpl.Execute(&b, d); err != nil {
		return "answer or generate code for: " + d.Query
	}
	return b.String()
}
