package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tlx/internal/models"
	"github.com/desertthunder/tlx/internal/services"
	"github.com/desertthunder/tlx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SiteListView ViewState = iota
	ConfirmView
	ExportView
	ResultView
)

// maxProgressLines bounds the progress history shown while exporting
const maxProgressLines = 8

// Catalog is the read side of [services.Catalog] used to list sites.
type Catalog interface {
	ListSites() ([]*models.Site, error)
	ListTranslations(filter services.TranslationFilter) ([]*services.TranslationView, error)
}

// Exporter runs a stored export with progress reporting.
type Exporter interface {
	Export(ctx context.Context, progress chan<- tasks.ProgressUpdate, rawSites string) (*tasks.Manifest, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      Catalog
	exporter     Exporter
	width        int
	height       int
	siteList     list.Model
	items        []siteItem
	exporting    []string
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     []string
	manifest     *tasks.Manifest
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog Catalog, exporter Exporter) *Model {
	return &Model{
		ctx:      ctx,
		view:     SiteListView,
		catalog:  catalog,
		exporter: exporter,
		siteList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by loading sites and their translation counts.
func (m *Model) Init() tea.Cmd {
	return m.fetchSites()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.siteList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SiteListView:
			return m.handleSiteListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ExportView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.siteList, cmd = m.siteList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSitesFetched:
		data := msg.data.(sitesFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.items = data.items
		m.siteList = list.New(m.listItems(), list.NewDefaultDelegate(), 0, 0)
		m.siteList.Title = "Sites"
		m.siteList.SetSize(m.width-4, m.height-8)
		return m, nil

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.progress = append(m.progress, update.Message)
		if len(m.progress) > maxProgressLines {
			m.progress = m.progress[len(m.progress)-maxProgressLines:]
		}
		return m, waitForExport(m.progressChan, m.doneChan)

	case MsgExportComplete:
		data := msg.data.(exportComplete)
		m.manifest = data.manifest
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SiteListView:
		return m.renderSiteList()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSiteListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.siteList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.siteList, cmd = m.siteList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.toggleCurrent()
		return m, nil
	case key.Matches(msg, m.keys.all):
		m.toggleAll()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if names := m.selectedNames(); len(names) > 0 {
			m.exporting = names
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.siteList, cmd = m.siteList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = SiteListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ExportView
		return m, m.startExport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = SiteListView
		m.manifest = nil
		m.err = nil
		m.progress = nil
		m.exporting = nil
		return m, m.fetchSites()
	}
	return m, nil
}

func (m *Model) listItems() []list.Item {
	items := make([]list.Item, len(m.items))
	for i, it := range m.items {
		items[i] = it
	}
	return items
}

// indexOf finds the position of a site in the unfiltered item list
func (m *Model) indexOf(siteID string) int {
	for i, it := range m.items {
		if it.site.ID() == siteID {
			return i
		}
	}
	return -1
}

func (m *Model) toggleCurrent() {
	current, ok := m.siteList.SelectedItem().(siteItem)
	if !ok {
		return
	}
	i := m.indexOf(current.site.ID())
	if i < 0 {
		return
	}
	m.items[i].selected = !m.items[i].selected
	m.siteList.SetItem(i, m.items[i])
}

func (m *Model) toggleAll() {
	all := true
	for _, it := range m.items {
		all = all && it.selected
	}
	for i := range m.items {
		m.items[i].selected = !all
	}
	m.siteList.SetItems(m.listItems())
}

// selectedNames returns marked sites in list order, or the highlighted site when none are marked
func (m *Model) selectedNames() []string {
	var names []string
	for _, it := range m.items {
		if it.selected {
			names = append(names, it.site.Name())
		}
	}
	if len(names) == 0 {
		if current, ok := m.siteList.SelectedItem().(siteItem); ok {
			names = append(names, current.site.Name())
		}
	}
	return names
}

func (m *Model) fetchSites() tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		sites, err := catalog.ListSites()
		if err != nil {
			return sitesFetchedMsg(nil, err)
		}

		items := make([]siteItem, len(sites))
		for i, site := range sites {
			translations, err := catalog.ListTranslations(services.TranslationFilter{Site: site.Name()})
			if err != nil {
				return sitesFetchedMsg(nil, err)
			}
			counts := map[models.Language]int{}
			for _, t := range translations {
				counts[t.Language()]++
			}
			items[i] = siteItem{site: site, counts: counts}
		}
		return sitesFetchedMsg(items, nil)
	}
}

func (m *Model) startExport() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done
	m.progress = nil

	ctx, exporter, raw := m.ctx, m.exporter, strings.Join(m.exporting, ",")
	go func() {
		manifest, err := exporter.Export(ctx, progress, raw)
		close(progress)
		done <- exportCompleteMsg(manifest, err)
	}()

	return waitForExport(progress, done)
}

// waitForExport yields the next progress update, then the completion message once progress is closed
func waitForExport(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if progress == nil {
			return <-done
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSiteList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	if len(m.items) == 0 {
		return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render("Sites"), styles.warn.Render("No sites yet. Create one with `tlx site create`."), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.siteList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Export %d site(s)?", len(m.exporting)))
	info := "\n  • " + strings.Join(m.exporting, "\n  • ") + "\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting Translations")
	if len(m.progress) == 0 {
		return fmt.Sprintf("%s\n\nStarting...", title)
	}
	return fmt.Sprintf("%s\n\n%s", title, strings.Join(m.progress, "\n"))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.manifest == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ " + m.manifest.Message)
	info := fmt.Sprintf(
		"\nArchive: %s\nURL: %s\nFiles: %d (%d keys)\nSize: %d bytes",
		m.manifest.ArchiveID,
		m.manifest.FileURL,
		m.manifest.Entries,
		m.manifest.Keys,
		m.manifest.Size,
	)

	var empty string
	if m.manifest.Entries == 0 {
		empty = "\n\n" + styles.warn.Render("None of the selected sites had translations; the archive is empty.")
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, empty, styles.help.Render(helpView))
}
