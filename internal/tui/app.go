package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dhabedank/ad-agent/internal/core"
	"github.com/dhabedank/ad-agent/internal/dataset"
)

// AppOptions seeds the interactive session.
type AppOptions struct {
	Controller  *core.Controller
	Provider    string
	DataPath    string
	Brand       string
	Credentials string
	// Now is the ranking clock. Defaults to time.Now.
	Now func() time.Time
}

type focusField int

const (
	focusNone focusField = iota
	focusCredentials
	focusDataPath
	focusBrand
)

type contentView int

const (
	viewGuide contentView = iota
	viewAds
)

type dataLoadedMsg struct {
	records []core.AdRecord
	ranked  []core.RankedAd
	source  dataset.Source
	err     error
}

type analyzeDoneMsg struct {
	state core.State
	stage StageInfo
	err   error
}

type generateDoneMsg struct {
	state core.State
	stage StageInfo
	err   error
}

// App is the Bubble Tea model for the interactive workflow: load a
// competitor file, analyze it into a strategy guide, then generate ads.
type App struct {
	ctrl     *core.Controller
	provider string
	now      func() time.Time

	credentials textinput.Model
	dataPath    textinput.Model
	brand       textinput.Model
	focus       focusField

	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	view     contentView

	records  []core.AdRecord
	source   dataset.Source
	state    core.State
	inFlight int // stage commands started and not yet answered
	stages  []StageInfo
	err     error
	notice  string

	width    int
	height   int
	quitting bool
}

// NewApp builds the model. Nothing is loaded until Init runs.
func NewApp(opts AppOptions) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	creds := textinput.New()
	creds.Prompt = "API key   "
	creds.Placeholder = "paste your " + opts.Provider + " key"
	creds.EchoMode = textinput.EchoPassword
	creds.EchoCharacter = '•'
	creds.SetValue(opts.Credentials)

	data := textinput.New()
	data.Prompt = "Ad file   "
	data.Placeholder = dataset.DefaultPath
	data.SetValue(opts.DataPath)

	brand := textinput.New()
	brand.Prompt = "Brand     "
	brand.Placeholder = opts.Controller.Config().Product.Brand
	brand.SetValue(opts.Brand)

	t := table.New(
		table.WithColumns(rankColumns(80)),
		table.WithHeight(core.DefaultTopN+1),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	vp := viewport.New(80, 12)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(76),
	)

	app := App{
		ctrl:        opts.Controller,
		provider:    opts.Provider,
		now:         now,
		credentials: creds,
		dataPath:    data,
		brand:       brand,
		table:       t,
		viewport:    vp,
		spinner:     sp,
		renderer:    renderer,
		state:       opts.Controller.State(),
	}
	if strings.TrimSpace(opts.Credentials) == "" {
		app.setFocus(focusCredentials)
	}
	app.refreshContent()
	return app
}

func rankColumns(width int) []table.Column {
	text := width - 4 - 6 - 12 - 8
	if text < 20 {
		text = 20
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Days", Width: 6},
		{Title: "Started", Width: 12},
		{Title: "Ad copy", Width: text},
	}
}

// Init loads the ad file.
func (m App) Init() tea.Cmd {
	return m.loadData()
}

// Update implements tea.Model.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.inFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.records = msg.records
			m.source = msg.source
			m.notice = fmt.Sprintf("Loaded %d ads from %s", len(msg.records), msg.source.Name)
		}
		m.syncState()
		return m, nil

	case analyzeDoneMsg:
		m.inFlight--
		m.err = msg.err
		m.syncState()
		if msg.err == nil {
			m.stages = append(m.stages, msg.stage)
			m.view = viewGuide
			m.notice = "Strategy guide ready"
			m.refreshContent()
		}
		return m, nil

	case generateDoneMsg:
		m.inFlight--
		m.err = msg.err
		m.syncState()
		if msg.err == nil {
			m.stages = append(m.stages, msg.stage)
			m.view = viewAds
			m.notice = "Ads generated for " + msg.state.Brand
			m.refreshContent()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.focus != focusNone {
			return m.updateInput(msg)
		}
		return m.updateNavigation(msg)
	}

	return m, nil
}

func (m App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setFocus(focusNone)
		return m, nil
	case "tab":
		m.setFocus(m.focus%focusBrand + 1)
		return m, nil
	case "enter":
		field := m.focus
		m.setFocus(focusNone)
		if field == focusDataPath {
			return m, m.loadData()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusCredentials:
		m.credentials, cmd = m.credentials.Update(msg)
	case focusDataPath:
		m.dataPath, cmd = m.dataPath.Update(msg)
	case focusBrand:
		m.brand, cmd = m.brand.Update(msg)
	}
	return m, cmd
}

func (m App) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.setFocus(focusCredentials)
		return m, nil
	case "r":
		return m, m.loadData()
	case "a":
		return m.startAnalyze()
	case "g":
		return m.startGenerate()
	case "v":
		if m.view == viewGuide {
			m.view = viewAds
		} else {
			m.view = viewGuide
		}
		m.refreshContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m App) loadData() tea.Cmd {
	ctrl := m.ctrl
	path := strings.TrimSpace(m.dataPath.Value())
	asOf := m.now()
	return func() tea.Msg {
		records, src, err := dataset.Resolve(path)
		if err != nil {
			return dataLoadedMsg{source: src, err: err}
		}
		ranked, err := ctrl.LoadAds(records, asOf)
		return dataLoadedMsg{records: records, ranked: ranked, source: src, err: err}
	}
}

func (m App) startAnalyze() (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	in := core.AnalyzeInput{
		Records:     m.records,
		AsOf:        m.now(),
		Credentials: strings.TrimSpace(m.credentials.Value()),
	}
	model := ctrl.Config().AnalysisModel
	m.err = nil
	m.inFlight++
	m.notice = "Analyzing competitor ads..."

	run := func() tea.Msg {
		prompt := core.BuildStrategyPrompt(core.Rank(in.Records, ctrl.Config().TopN, in.AsOf), ctrl.Config().Product)
		stage := StartStage("Analysis", model, len(prompt))
		state, err := ctrl.Analyze(context.Background(), in)
		stage.Complete(len(state.StrategyGuide))
		return analyzeDoneMsg{state: state, stage: stage, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m App) startGenerate() (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	in := core.GenerateInput{
		Brand:       m.brand.Value(),
		Credentials: strings.TrimSpace(m.credentials.Value()),
	}
	guide := m.state.StrategyGuide
	model := ctrl.Config().GenerationModel
	m.err = nil
	m.inFlight++
	m.notice = "Generating ads..."

	run := func() tea.Msg {
		brand := strings.TrimSpace(in.Brand)
		if brand == "" {
			brand = ctrl.Config().Product.Brand
		}
		stage := StartStage("Generation", model, len(core.BuildAdPrompt(guide, brand, ctrl.Config().Product)))
		state, err := ctrl.Generate(context.Background(), in)
		stage.Complete(len(state.GeneratedAds))
		return generateDoneMsg{state: state, stage: stage, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m *App) syncState() {
	m.state = m.ctrl.State()

	rows := make([]table.Row, len(m.state.RankedAds))
	cols := m.table.Columns()
	textWidth := cols[len(cols)-1].Width
	for i, ad := range m.state.RankedAds {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(ad.ActiveDays),
			ad.StartDate.Format("2006-01-02"),
			Truncate(ad.Text, textWidth),
		}
	}
	m.table.SetRows(rows)
	m.refreshContent()
}

func (m *App) setFocus(f focusField) {
	m.focus = f
	m.credentials.Blur()
	m.dataPath.Blur()
	m.brand.Blur()
	switch f {
	case focusCredentials:
		m.credentials.Focus()
	case focusDataPath:
		m.dataPath.Focus()
	case focusBrand:
		m.brand.Focus()
	}
}

func (m *App) resize(width, height int) {
	m.width = width
	m.height = height

	m.credentials.Width = width - 14
	m.dataPath.Width = width - 14
	m.brand.Width = width - 14

	m.table.SetColumns(rankColumns(width - 4))
	m.table.SetWidth(width - 4)

	// inputs(3) + table + borders + header/status/help lines
	vpHeight := height - 3 - m.table.Height() - 10
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width - 4
	m.viewport.Height = vpHeight

	if r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width-8),
	); err == nil {
		m.renderer = r
	}
	m.syncState()
}

func (m *App) refreshContent() {
	var title, body, empty string
	if m.view == viewGuide {
		title, body, empty = "Strategy Guide", m.state.StrategyGuide, "No strategy guide yet. Press a to analyze."
	} else {
		title, body, empty = "Generated Ads", m.state.GeneratedAds, "No ads yet. Press g to generate once a guide exists."
	}

	if strings.TrimSpace(body) == "" {
		m.viewport.SetContent(TitleStyle.Render(title) + "\n\n" + HelpStyle.Render(empty))
		return
	}
	m.viewport.SetContent(m.renderMarkdown("# " + title + "\n\n" + body))
	m.viewport.GotoTop()
}

func (m App) renderMarkdown(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// View implements tea.Model.
func (m App) View() string {
	if m.quitting {
		if len(m.stages) == 0 {
			return ""
		}
		return RenderSummary(m.stages)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("ad-agent") + "  " + m.statusLine() + "\n\n")

	inputs := lipgloss.JoinVertical(lipgloss.Left,
		m.credentials.View(),
		m.dataPath.View(),
		m.brand.View(),
	)
	inputBox := BoxStyle
	if m.focus != focusNone {
		inputBox = FocusedBoxStyle
	}
	b.WriteString(inputBox.Render(inputs) + "\n")

	b.WriteString(SubtitleStyle.Render("Top competitor ads") + "\n")
	if len(m.state.RankedAds) == 0 {
		b.WriteString(HelpStyle.Render("  No ads loaded.") + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
	}

	contentBox := BoxStyle
	if m.focus == focusNone {
		contentBox = FocusedBoxStyle
	}
	b.WriteString(contentBox.Render(m.viewport.View()) + "\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString(SuccessStyle.Render(m.notice) + "\n")
	}

	b.WriteString(HelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m App) statusLine() string {
	phase := m.ctrl.State().Phase
	status := PhaseStyle(phase.InFlight()).Render(phase.String())
	if phase.InFlight() {
		status = m.spinner.View() + " " + status
	}

	parts := []string{status, ModelStyle.Render(m.provider)}
	if m.source.Name != "" {
		parts = append(parts, HelpStyle.Render(m.source.Name))
	}
	var cost float64
	for _, s := range m.stages {
		cost += s.Cost()
	}
	if cost > 0 {
		parts = append(parts, CostStyle.Render("~"+FormatCost(cost)))
	}
	return strings.Join(parts, "  ")
}

func (m App) helpLine() string {
	if m.focus != focusNone {
		return "tab: next field • enter: confirm • esc: done editing • ctrl+c: quit"
	}
	return "a: analyze • g: generate • v: guide/ads • r: reload file • tab: edit fields • ↑/↓: scroll • q: quit"
}
