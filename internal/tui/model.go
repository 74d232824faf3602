// Package tui is the terminal chat host around the retrieval engine.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/answer"
	"docqa/internal/domain"
	"docqa/internal/retriever"
)

// Service is the TUI-facing subset of the retrieval engine.
type Service interface {
	Retrieve(ctx context.Context, documentID, query string, topK int) (domain.RetrievalResult, error)
	Document(id string) (retriever.DocumentInfo, bool)
}

// message is one chat transcript entry.
type message struct {
	role    string // "you" or "assistant"
	content string
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service    Service
	generator  answer.Generator
	documentID string

	input    textinput.Model
	viewport viewport.Model
	messages []message
	status   string
	ready    bool
}

// New creates the chat model for one ingested document.
func New(service Service, generator answer.Generator, documentID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)

	m := Model{
		service:    service,
		generator:  generator,
		documentID: documentID,
		input:      ti,
		viewport:   vp,
	}
	if info, ok := service.Document(documentID); ok {
		m.status = fmt.Sprintf("%s ready: %d words, %d chunks, type=%s",
			info.Filename, info.Words, info.Chunks, info.DocumentType)
		m.messages = append(m.messages, message{
			role:    "assistant",
			content: welcome(info),
		})
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input box + spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+n":
			// fresh conversation over the same document
			m.messages = nil
			if info, ok := m.service.Document(m.documentID); ok {
				m.messages = append(m.messages, message{role: "assistant", content: welcome(info)})
				m.status = fmt.Sprintf("%s ready: %d words, %d chunks, type=%s",
					info.Filename, info.Words, info.Chunks, info.DocumentType)
			}
			m.input.SetValue("")
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoTop()
			return m, nil
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m = m.ask(q)
				m.input.SetValue("")
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, nil
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs a retrieval + answer round and appends it to the transcript.
func (m Model) ask(q string) Model {
	m.messages = append(m.messages, message{role: "you", content: q})

	result, err := m.service.Retrieve(context.Background(), m.documentID, q, 0)
	if err != nil {
		m.status = "Error: " + err.Error()
		return m
	}
	reply, err := m.generator.Generate(context.Background(), q, m.filename(), result)
	if err != nil {
		// keep the session usable: fall back to showing the top passage
		reply = "Could not generate an answer (" + err.Error() + ")."
		if len(result.Chunks) > 0 {
			reply += "\n\nTop passage:\n" + result.Chunks[0].Chunk.Text
		}
	}
	if len(result.Chunks) > 0 {
		reply += "\n\n" + sourcesBlock(result, q)
	}
	m.messages = append(m.messages, message{role: "assistant", content: reply})
	m.status = fmt.Sprintf("Answered via %s scoring (%d passages)", result.Method, len(result.Chunks))
	return m
}

func (m Model) filename() string {
	if info, ok := m.service.Document(m.documentID); ok {
		return info.Filename
	}
	return m.documentID
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docqa")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.messages) == 0 {
		return "Ask a question to get started."
	}
	var parts []string
	for _, msg := range m.messages {
		label := youStyle.Render("You")
		if msg.role == "assistant" {
			label = assistantStyle.Render("Assistant")
		}
		parts = append(parts, label+"\n"+msg.content)
	}
	return strings.Join(parts, "\n\n")
}

// sourcesBlock lists the retrieved passages under an answer, with the
// best-matching sentence of the top passage highlighted.
func sourcesBlock(result domain.RetrievalResult, query string) string {
	var b strings.Builder
	b.WriteString(sourceHeadStyle.Render("Sources"))
	for i, sc := range result.Chunks {
		body := snippet(sc.Chunk.Text)
		if i == 0 {
			body = highlightBestSentence(body, query)
		}
		b.WriteString(fmt.Sprintf("\n%d. chunk %d, score %.3f: %s", i+1, sc.Chunk.Index, sc.Score, body))
	}
	return b.String()
}

func snippet(text string) string {
	const limit = 240
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "…"
}

func welcome(info retriever.DocumentInfo) string {
	hints := map[domain.DocumentType][]string{
		domain.TypeResearch:  {"What's the objective?", "Show the methodology", "Key findings?"},
		domain.TypeBusiness:  {"What are the key metrics?", "Financial highlights?", "Business strategy?"},
		domain.TypeLegal:     {"Who are the parties?", "Key obligations?", "Liability terms?"},
		domain.TypeTechnical: {"How do I install it?", "Main procedures?", "Troubleshooting steps?"},
		domain.TypeGeneral:   {"Summarize the document", "Main topics?", "Key insights?"},
	}
	return fmt.Sprintf("%s processed: %d words, %d chunks.\nTry: %s",
		info.Filename, info.Words, info.Chunks,
		strings.Join(hints[info.DocumentType], " · "))
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	youStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	sourceHeadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)
	highlightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the sentence with the highest query
// token overlap.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		if score := overlap(queryTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordPattern.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlap(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for tok := range tokenSet(sentence) {
		if _, ok := queryTokens[tok]; ok {
			score++
		}
	}
	return score
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
