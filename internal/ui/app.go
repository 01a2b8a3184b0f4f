package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/debounce"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/notify"
	"github.com/five82/shelf/internal/state"
)

// DefaultSearchDebounce is the quiet period before a search is applied.
const DefaultSearchDebounce = 300 * time.Millisecond

const activityLines = 200

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   *state.Store
	// Notifications feeds the toast slot. Nil disables toasts.
	Notifications  <-chan notify.Notification
	ThemeName      string
	LogPath        string
	SearchDebounce time.Duration
	Logger         *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx           context.Context
	store         *state.Store
	notifications <-chan notify.Notification
	logPath       string
	searchDelay   time.Duration
	logger        *zap.Logger
	keys          keyMap
	now           func() time.Time

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Data state
	snapshot state.Snapshot
	visible  []api.Object
	fresh    *api.Object // last object reloaded with g

	// Collection state
	selected    int
	searchInput textinput.Model
	searching   bool
	searchTerm  string
	searchGate  *debounce.Gate
	sortBy      catalog.SortKey
	sortOrder   catalog.SortOrder

	// In-flight operations
	submitting bool
	deleting   string

	// Overlays
	modal            Modal
	showHelp         bool
	showDetail       bool
	detailViewport   viewport.Model
	showActivity     bool
	activityViewport viewport.Model
	activity         []logtail.Entry
	activityErr      string

	toast   *notify.Slot
	spinner spinner.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	delay := opts.SearchDebounce
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	search := textinput.New()
	search.Placeholder = "search by name or attribute"
	search.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:           ctx,
		store:         opts.Store,
		notifications: opts.Notifications,
		logPath:       opts.LogPath,
		searchDelay:   delay,
		logger:        logger.Named("ui"),
		keys:          DefaultKeyMap(),
		now:           time.Now,
		theme:         GetTheme(themeName),
		searchInput:   search,
		searchGate:    &debounce.Gate{},
		sortBy:        catalog.SortName,
		sortOrder:     catalog.Asc,
		toast:         &notify.Slot{},
		spinner:       sp,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.refreshVisible()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.store != nil {
		cmds = append(cmds, fetchCmd(m.ctx, m.store))
	}
	if m.notifications != nil {
		cmds = append(cmds, waitForToast(m.notifications))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
			m.activityViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeViewports()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchDoneMsg:
		m.syncSnapshot()
		if msg.err != nil {
			m.logger.Debug("fetch failed", zap.Error(msg.err))
		}
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case reloadDoneMsg:
		m.syncSnapshot()
		if msg.err != nil {
			return m, nil
		}
		obj := msg.obj
		m.fresh = &obj
		m.updateDetailViewport()
		return m, m.showToast("object reloaded", notify.Info)

	case submitFormMsg:
		return m.handleSubmit(msg)

	case deleteConfirmedMsg:
		if m.deleting != "" || m.store == nil {
			return m, nil
		}
		m.deleting = msg.id
		return m, deleteCmd(m.ctx, m.store, msg.id)

	case sortPickedMsg:
		m.sortBy, m.sortOrder = catalog.NextSort(m.sortBy, m.sortOrder, msg.key)
		m.refreshVisible()
		return m, nil

	case searchApplyMsg:
		if m.searchGate.Fire(msg.token) {
			m.applySearch(m.searchInput.Value())
		}
		return m, nil

	case toastMsg:
		n := notify.Notification(msg)
		m.toast.Set(n)
		cmds := []tea.Cmd{expireToastCmd(n)}
		if m.notifications != nil {
			cmds = append(cmds, waitForToast(m.notifications))
		}
		return m, tea.Batch(cmds...)

	case toastExpireMsg:
		m.toast.Expire(msg.id)
		return m, nil

	case activityMsg:
		m.activity = msg.entries
		m.activityErr = ""
		if msg.err != nil {
			m.activityErr = msg.err.Error()
		}
		m.updateActivityViewport()
		return m, nil
	}

	// Everything else (cursor blinks and the like) goes to whichever input
	// has focus.
	var cmd tea.Cmd
	switch {
	case m.modal != nil:
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
	case m.searching:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	if m.showDetail {
		return m.renderDetailOverlay()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.showActivity {
		return m.handleActivityKey(msg)
	}

	if m.showDetail {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.Add):
		m.modal = newFormModal(nil)
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Sort):
		m.modal = newSortMenu(m.sortBy, m.sortOrder)
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		m.showActivity = true
		return m, loadActivityCmd(m.logPath)

	case key.Matches(msg, m.keys.Escape):
		if m.searchTerm != "" || m.searchInput.Value() != "" {
			m.clearSearch()
		}
		return m, nil
	}

	return m.handleGridKey(msg)
}

// handleGridKey handles navigation and the actions on the selected card.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.visible)
	if count == 0 {
		return m, nil
	}
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.selected%cols > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selected%cols < cols-1 && m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected+cols < count {
			m.selected += cols
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1

	case key.Matches(msg, m.keys.Edit):
		obj := m.visible[m.selected]
		m.modal = newFormModal(&obj)
	case key.Matches(msg, m.keys.Delete):
		if m.deleting != "" {
			return m, nil
		}
		obj := m.visible[m.selected]
		m.modal = newConfirmModal(obj.ID, obj.Name)
	case key.Matches(msg, m.keys.View):
		m.showDetail = true
		m.updateDetailViewport()
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadSelected()
	}

	m.updateDetailViewport()
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.clearSearch()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		m.searchGate.Cancel()
		m.applySearch(m.searchInput.Value())
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}
	token := m.searchGate.Next()
	return m, tea.Batch(cmd, searchTickCmd(m.searchDelay, token))
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.View):
		m.showDetail = false
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadSelected()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Activity):
		m.showActivity = false
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, loadActivityCmd(m.logPath)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.activityViewport, cmd = m.activityViewport.Update(msg)
	return m, cmd
}

// refresh starts a list fetch unless one is already running.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.store == nil || m.snapshot.Loading {
		return m, nil
	}
	m.snapshot.Loading = true
	return m, tea.Batch(fetchCmd(m.ctx, m.store), m.spinner.Tick)
}

func (m Model) handleSubmit(msg submitFormMsg) (tea.Model, tea.Cmd) {
	if m.submitting || m.store == nil {
		return m, nil
	}
	m.submitting = true
	if f, ok := m.modal.(*formModal); ok {
		f.busy = true
	}
	return m, saveCmd(m.ctx, m.store, msg.id, msg.input)
}

func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	m.syncSnapshot()

	if msg.op == opDelete {
		m.deleting = ""
		return m, nil
	}

	m.submitting = false
	f, ok := m.modal.(*formModal)
	if !ok {
		return m, nil
	}
	f.busy = false
	if msg.err != nil {
		// Keep the form open with its contents so it can be resubmitted.
		f.failed = api.Message(msg.err)
		return m, nil
	}
	m.modal = nil
	if msg.op == opCreate {
		m.selectID(msg.id)
	}
	return m, nil
}

func (m *Model) reloadSelected() tea.Cmd {
	obj, ok := m.selectedObject()
	if !ok || m.store == nil {
		return nil
	}
	return reloadCmd(m.ctx, m.store, obj.ID)
}

// showToast puts a UI-originated message in the toast slot.
func (m *Model) showToast(message string, kind notify.Kind) tea.Cmd {
	n := notify.New(message, kind, 0)
	m.toast.Set(n)
	return expireToastCmd(n)
}

// syncSnapshot re-reads the store and recomputes the visible list.
func (m *Model) syncSnapshot() {
	if m.store == nil {
		return
	}
	m.snapshot = m.store.Snapshot()
	// A reloaded copy is only valid until the store changes again.
	m.fresh = nil
	m.refreshVisible()
	m.updateDetailViewport()
}

// refreshVisible recomputes the filtered and sorted projection, keeping
// the selection on the same object when it is still visible.
func (m *Model) refreshVisible() {
	var selectedID string
	if obj, ok := m.selectedObject(); ok {
		selectedID = obj.ID
	}

	m.visible = catalog.Sort(catalog.Filter(m.snapshot.Objects, m.searchTerm), m.sortBy, m.sortOrder)

	if len(m.visible) == 0 {
		m.selected = 0
		return
	}
	if selectedID != "" && m.selectID(selectedID) {
		return
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) selectID(id string) bool {
	for i, obj := range m.visible {
		if obj.ID == id {
			m.selected = i
			return true
		}
	}
	return false
}

func (m Model) selectedObject() (api.Object, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return api.Object{}, false
	}
	return m.visible[m.selected], true
}

func (m *Model) applySearch(term string) {
	if term == m.searchTerm {
		return
	}
	m.searchTerm = term
	m.selected = 0
	m.refreshVisible()
}

func (m *Model) clearSearch() {
	m.searching = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.searchGate.Cancel()
	m.applySearch("")
}

func (m *Model) resizeViewports() {
	w, h := m.overlaySize()
	m.detailViewport.Width = w
	m.detailViewport.Height = h
	m.updateDetailViewport()

	m.activityViewport.Width = maxInt(m.width-2, 10)
	m.activityViewport.Height = maxInt(m.contentHeight()-1, 1)
	m.updateActivityViewport()
}

func (m Model) searchDisplay() string {
	return strings.TrimSpace(m.searchTerm)
}

// Messages

type fetchDoneMsg struct {
	err error
}

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

type mutationDoneMsg struct {
	op  string
	id  string
	err error
}

type reloadDoneMsg struct {
	obj api.Object
	err error
}

type searchApplyMsg struct {
	token uint64
}

type toastMsg notify.Notification

type toastExpireMsg struct {
	id string
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func fetchCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: store.Fetch(ctx)}
	}
}

func saveCmd(ctx context.Context, store *state.Store, id string, input api.Input) tea.Cmd {
	return func() tea.Msg {
		if id == "" {
			obj, err := store.Create(ctx, input)
			return mutationDoneMsg{op: opCreate, id: obj.ID, err: err}
		}
		_, err := store.Update(ctx, id, input)
		return mutationDoneMsg{op: opUpdate, id: id, err: err}
	}
}

func deleteCmd(ctx context.Context, store *state.Store, id string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{op: opDelete, id: id, err: store.Delete(ctx, id)}
	}
}

func reloadCmd(ctx context.Context, store *state.Store, id string) tea.Cmd {
	return func() tea.Msg {
		obj, err := store.Get(ctx, id)
		return reloadDoneMsg{obj: obj, err: err}
	}
}

func searchTickCmd(d time.Duration, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchApplyMsg{token: token}
	})
}

func waitForToast(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg(n)
	}
}

func expireToastCmd(n notify.Notification) tea.Cmd {
	d := n.Duration
	if d <= 0 {
		d = notify.DefaultDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpireMsg{id: n.ID}
	})
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		entries, err := logtail.Tail(path, activityLines)
		return activityMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	return err
}
