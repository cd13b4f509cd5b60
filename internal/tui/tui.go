package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/tasker/internal/api"
	"github.com/Joseda-hg/tasker/internal/app"
	"github.com/Joseda-hg/tasker/internal/board"
	"github.com/Joseda-hg/tasker/internal/model"
	"github.com/Joseda-hg/tasker/internal/notify"
)

const (
	viewHeader     = "header"
	viewFooter     = "footer"
	viewBacklog    = "backlog"
	viewToday      = "today"
	viewInProgress = "inProgress"
	viewDone       = "done"
	viewSubtasks   = "subtasks"
	viewForm       = "form"
	viewHelp       = "help"
)

// columnViews is indexed like model.TaskStatuses.
var columnViews = []string{viewBacklog, viewToday, viewInProgress, viewDone}

type UI struct {
	app *app.App
	gui *gocui.Gui
	ctx context.Context
	now func() time.Time

	column   int
	selected [4]int

	subtasksOpen    bool
	subtasksFocused bool
	subtaskTaskID   int64
	selectedSubtask int

	form       *formState
	formEditor *formEditor
	helpActive bool
	status     string
}

type formEditor struct {
	ui *UI
}

func newUI(a *app.App) *UI {
	ui := &UI{app: a, ctx: context.Background(), now: time.Now}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

// Run opens the board on the terminal and blocks until the user quits.
func Run(a *app.App) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(a)
	ui.gui = gui

	// Notifications expire on a timer goroutine, so the board has to be
	// told to repaint.
	unsubscribe := a.Notifier.Subscribe(func(*notify.Notification) {
		gui.Update(func(*gocui.Gui) error { return nil })
	})
	defer unsubscribe()

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := a.Load(ui.ctx); err != nil {
		ui.status = "load failed: " + err.Error()
	}

	if err := gui.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

type binding struct {
	view    string
	key     any
	handler func(*gocui.Gui, *gocui.View) error
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	bindings := []binding{
		{"", gocui.KeyCtrlC, u.quit},
		{"", 'q', u.quitUnlessEditing},
		{"", 'r', u.reload},
		{"", 'a', u.addTask},
		{"", 'e', u.editItem},
		{"", 'd', u.deleteItem},
		{"", 'h', u.moveTaskLeft},
		{"", 'l', u.moveTaskRight},
		{"", 'w', u.toggleWorkspace},
		{"", 'f', u.toggleLayout},
		{"", 't', u.cycleTheme},
		{"", 's', u.addSubtask},
		{"", 'x', u.cycleSubtaskStatus},
		{"", '?', u.toggleHelp},
		{"", 'j', u.moveDown},
		{"", 'k', u.moveUp},
		{"", gocui.KeyArrowDown, u.moveDown},
		{"", gocui.KeyArrowUp, u.moveUp},
		{"", gocui.KeyArrowLeft, u.focusLeft},
		{"", gocui.KeyArrowRight, u.focusRight},
		{"", gocui.KeyTab, u.focusRight},
		{"", gocui.KeyEnter, u.openSubtasks},
		{"", gocui.KeyEsc, u.closeOverlay},
		{viewForm, gocui.KeyEnter, u.submitForm},
		{viewForm, gocui.KeyEsc, u.cancelForm},
		{viewForm, gocui.KeyTab, u.nextFormField},
		{viewForm, gocui.KeyArrowDown, u.nextFormField},
		{viewForm, gocui.KeyArrowUp, u.prevFormField},
	}
	for i, status := range model.TaskStatuses {
		bindings = append(bindings, binding{"", rune('1' + i), u.moveTaskTo(status)})
	}

	for _, b := range bindings {
		if err := gui.SetKeybinding(b.view, b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}
	theme := u.app.Board.Theme()

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault | gocui.AttrBold
	headerView.Clear()
	fmt.Fprint(headerView, u.headerText())

	footerY1 := max(maxY-1, 2)
	footerY0 := max(footerY1-3, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.Clear()
	fmt.Fprint(footerView, u.footerText())

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom <= bodyTop {
		return nil
	}

	l := computeLayout(maxX, u.subtasksOpen)
	boardLayout := u.app.Board.Layout()
	for i, status := range model.TaskStatuses {
		view, err := gui.SetView(columnViews[i], l.columns[i].x0, bodyTop, l.columns[i].x1, bodyBottom, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		tasks := u.app.Tasks.CurrentTasksByStatus(status)
		view.Title = columnTitle(i, status, boardLayout, len(tasks))
		focused := u.column == i && !u.subtasksFocused && u.form == nil
		applyViewStyle(view, focused, theme)
		u.renderColumn(view, tasks, u.selected[i], focused)
	}

	if u.subtasksOpen {
		view, err := gui.SetView(viewSubtasks, l.subtasks.x0, bodyTop, l.subtasks.x1, bodyBottom, 0)
		if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		view.Title = u.subtasksTitle()
		applyViewStyle(view, u.subtasksFocused && u.form == nil, theme)
		u.renderSubtasks(view)
	} else {
		_ = gui.DeleteView(viewSubtasks)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focusedView())
	}

	gui.Cursor = u.form != nil
	return nil
}

type span struct {
	x0, x1 int
}

type boardGeometry struct {
	columns  [4]span
	subtasks span
}

// computeLayout splits the width into four equal columns, reserving a third
// of the screen for the subtask pane when it is open.
func computeLayout(width int, subtasksOpen bool) boardGeometry {
	var g boardGeometry
	boardWidth := max(width, 40)
	if subtasksOpen {
		paneWidth := max(boardWidth/3, 24)
		boardWidth = max(boardWidth-paneWidth, 32)
		g.subtasks = span{x0: boardWidth, x1: max(width-1, boardWidth+1)}
	}

	columnWidth := boardWidth / len(g.columns)
	for i := range g.columns {
		x0 := i * columnWidth
		x1 := x0 + columnWidth - 1
		if i == len(g.columns)-1 && !subtasksOpen {
			x1 = boardWidth - 1
		}
		g.columns[i] = span{x0: x0, x1: x1}
	}
	return g
}

func (u *UI) headerText() string {
	b := u.app.Board
	pref := b.ThemePreference()
	theme := string(pref)
	if pref == board.ThemeAuto {
		theme = fmt.Sprintf("auto (%s)", b.Theme())
	}
	return fmt.Sprintf("Tasker | Workspace: %s | Layout: %s | Theme: %s | Today: %d%%",
		u.app.Tasks.SelectedWorkspace(), b.Layout(), theme, b.DailyProgress())
}

func (u *UI) footerText() string {
	var sb strings.Builder
	sb.WriteString("a add | e edit | d delete | h/l move | 1-4 column | enter subtasks | s subtask | x subtask status\n")
	sb.WriteString("w workspace | f focus mode | t theme | r reload | ? help | q quit\n")
	switch {
	case u.app.Notifier.Current() != nil:
		sb.WriteString(formatNotification(u.app.Notifier.Current()))
	case u.status != "":
		sb.WriteString(u.status)
	case u.app.Tasks.Loading():
		sb.WriteString("loading...")
	}
	return sb.String()
}

func (u *UI) renderColumn(view *gocui.View, tasks []model.Task, selected int, focused bool) {
	view.Clear()
	now := u.now()
	for i, task := range tasks {
		prefix := " "
		if i == selected && focused {
			prefix = ">"
		}
		channel := ""
		if task.ChannelID != nil {
			if c, ok := u.app.Channels.Channel(*task.ChannelID); ok {
				channel = c.Name
			}
		}
		summary := formatTaskSummary(task, channel, u.app.Subtasks.Progress(task.ID), u.app.Subtasks.HasSubtasks(task.ID), now)
		fmt.Fprintf(view, "%s %s\n", prefix, summary)
	}
	if focused && len(tasks) > 0 {
		view.SetCursor(0, min(selected, len(tasks)-1))
	}
}

func (u *UI) subtasksTitle() string {
	task, ok := u.app.Tasks.Task(u.subtaskTaskID)
	if !ok {
		return "Subtasks"
	}
	return fmt.Sprintf("Subtasks: %s (%d%%)", task.Title, u.app.Subtasks.Progress(task.ID))
}

func (u *UI) renderSubtasks(view *gocui.View) {
	view.Clear()
	subtasks := u.app.Subtasks.SubtasksForTask(u.subtaskTaskID)
	if len(subtasks) == 0 {
		fmt.Fprintln(view, "  no subtasks, press s to add one")
		return
	}
	for i, st := range subtasks {
		prefix := " "
		if i == u.selectedSubtask && u.subtasksFocused {
			prefix = ">"
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatSubtask(st))
	}
}

func (u *UI) focusedView() string {
	if u.subtasksOpen && u.subtasksFocused {
		return viewSubtasks
	}
	return columnViews[u.column]
}

func (u *UI) columnTasks(column int) []model.Task {
	return u.app.Tasks.CurrentTasksByStatus(model.TaskStatuses[column])
}

func (u *UI) selectedTask() *model.Task {
	tasks := u.columnTasks(u.column)
	if len(tasks) == 0 {
		return nil
	}
	idx := min(max(u.selected[u.column], 0), len(tasks)-1)
	task := tasks[idx]
	return &task
}

func (u *UI) selectedSubtaskRecord() *model.Subtask {
	subtasks := u.app.Subtasks.SubtasksForTask(u.subtaskTaskID)
	if len(subtasks) == 0 {
		return nil
	}
	idx := min(max(u.selectedSubtask, 0), len(subtasks)-1)
	st := subtasks[idx]
	return &st
}

// selectTask points the cursor at id wherever it now sits on the board.
func (u *UI) selectTask(id int64) {
	for column := range model.TaskStatuses {
		for i, task := range u.columnTasks(column) {
			if task.ID == id {
				u.column = column
				u.selected[column] = i
				return
			}
		}
	}
}

// report surfaces err in the footer unless the notification already shows it.
func (u *UI) report(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		u.status = ""
		return
	}
	u.status = err.Error()
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func (u *UI) quitUnlessEditing(gui *gocui.Gui, v *gocui.View) error {
	if u.form != nil {
		return nil
	}
	return u.quit(gui, v)
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	if err := u.app.Load(u.ctx); err != nil {
		u.status = "load failed: " + err.Error()
		return nil
	}
	if u.subtasksOpen {
		_ = u.app.Subtasks.LoadSubtasks(u.ctx, u.subtaskTaskID)
	}
	return nil
}

func (u *UI) toggleWorkspace(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.app.Tasks.SetSelectedWorkspace(otherWorkspace(u.app.Tasks.SelectedWorkspace()))
	u.selected = [4]int{}
	u.closeSubtasks()
	return nil
}

func (u *UI) toggleLayout(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	layout, err := u.app.Board.ToggleLayout()
	if err != nil {
		u.report(err)
		return nil
	}
	u.status = fmt.Sprintf("layout: %s", layout)
	return nil
}

func (u *UI) cycleTheme(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	pref, err := u.app.Board.CycleTheme()
	if err != nil {
		u.report(err)
		return nil
	}
	u.status = fmt.Sprintf("theme: %s", pref)
	return nil
}

func (u *UI) focusLeft(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.subtasksFocused {
		u.subtasksFocused = false
		return nil
	}
	u.column = max(u.column-1, 0)
	return nil
}

func (u *UI) focusRight(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.column == len(columnViews)-1 && u.subtasksOpen {
		u.subtasksFocused = true
		return nil
	}
	u.column = min(u.column+1, len(columnViews)-1)
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.subtasksFocused {
		count := len(u.app.Subtasks.SubtasksForTask(u.subtaskTaskID))
		u.selectedSubtask = min(u.selectedSubtask+1, max(count-1, 0))
		return nil
	}
	count := len(u.columnTasks(u.column))
	u.selected[u.column] = min(u.selected[u.column]+1, max(count-1, 0))
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.subtasksFocused {
		u.selectedSubtask = max(u.selectedSubtask-1, 0)
		return nil
	}
	u.selected[u.column] = max(u.selected[u.column]-1, 0)
	return nil
}

func (u *UI) moveTaskLeft(gui *gocui.Gui, v *gocui.View) error {
	return u.stepTask(-1)
}

func (u *UI) moveTaskRight(gui *gocui.Gui, v *gocui.View) error {
	return u.stepTask(1)
}

func (u *UI) stepTask(delta int) error {
	if u.inputActive() || u.subtasksFocused {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	moved, err := u.app.Board.Step(u.ctx, selected.ID, delta)
	if err != nil {
		u.report(err)
		return nil
	}
	u.selectTask(moved.ID)
	return nil
}

func (u *UI) moveTaskTo(status model.TaskStatus) func(*gocui.Gui, *gocui.View) error {
	return func(_ *gocui.Gui, _ *gocui.View) error {
		if u.inputActive() || u.subtasksFocused {
			return nil
		}
		selected := u.selectedTask()
		if selected == nil || selected.Status == status {
			return nil
		}
		moved, err := u.app.Board.MoveTask(u.ctx, selected.ID, status)
		if err != nil {
			u.report(err)
			return nil
		}
		u.selectTask(moved.ID)
		return nil
	}
}

func (u *UI) addTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	fields := buildTaskFields(nil, u.app.Tasks.SelectedWorkspace(), model.TaskStatuses[u.column], u.app.Channels.Channels())
	u.form = &formState{kind: formTask, fields: fields}
	return nil
}

func (u *UI) editItem(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.subtasksFocused {
		st := u.selectedSubtaskRecord()
		if st == nil {
			return nil
		}
		u.form = &formState{kind: formSubtask, taskID: st.TaskID, subtaskID: st.ID, fields: buildSubtaskFields(st)}
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	fields := buildTaskFields(selected, selected.Workspace, selected.Status, u.app.Channels.Channels())
	u.form = &formState{kind: formTask, taskID: selected.ID, fields: fields}
	return nil
}

func (u *UI) deleteItem(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.subtasksFocused {
		st := u.selectedSubtaskRecord()
		if st == nil {
			return nil
		}
		if err := u.app.Subtasks.RemoveSubtask(u.ctx, st.TaskID, st.ID); err != nil {
			u.report(err)
			return nil
		}
		u.selectedSubtask = max(u.selectedSubtask-1, 0)
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	if err := u.app.Tasks.RemoveTask(u.ctx, selected.ID); err != nil {
		u.report(err)
		return nil
	}
	u.app.Subtasks.ClearSubtasksForTask(selected.ID)
	if u.subtaskTaskID == selected.ID {
		u.closeSubtasks()
	}
	u.selected[u.column] = max(u.selected[u.column]-1, 0)
	return nil
}

func (u *UI) openSubtasks(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.subtasksFocused {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	if err := u.app.Subtasks.LoadSubtasks(u.ctx, selected.ID); err != nil {
		u.report(err)
		return nil
	}
	u.subtasksOpen = true
	u.subtasksFocused = true
	u.subtaskTaskID = selected.ID
	u.selectedSubtask = 0
	return nil
}

func (u *UI) closeSubtasks() {
	u.subtasksOpen = false
	u.subtasksFocused = false
	u.subtaskTaskID = 0
	u.selectedSubtask = 0
}

func (u *UI) closeOverlay(_ *gocui.Gui, _ *gocui.View) error {
	switch {
	case u.form != nil:
		return nil
	case u.helpActive:
		u.helpActive = false
	case u.subtasksOpen:
		u.closeSubtasks()
	}
	return nil
}

func (u *UI) addSubtask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	taskID := u.subtaskTaskID
	if !u.subtasksFocused {
		selected := u.selectedTask()
		if selected == nil {
			return nil
		}
		taskID = selected.ID
	}
	u.form = &formState{kind: formSubtask, taskID: taskID, fields: buildSubtaskFields(nil)}
	return nil
}

func (u *UI) cycleSubtaskStatus(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.subtasksFocused {
		return nil
	}
	st := u.selectedSubtaskRecord()
	if st == nil {
		return nil
	}
	if _, err := u.app.Subtasks.UpdateSubtaskStatus(u.ctx, st.TaskID, st.ID, nextSubtaskStatus(st.Status)); err != nil {
		u.report(err)
	}
	return nil
}

func (u *UI) toggleHelp(_ *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := min(72, maxX-2)
	height := min(20, maxY-2)
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = "Help"
	view.Wrap = true
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetViewOnTop(viewHelp)
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := len(u.form.fields) + 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	switch {
	case u.form.kind == formSubtask && u.form.subtaskID != 0:
		view.Title = "Edit Subtask"
	case u.form.kind == formSubtask:
		view.Title = "New Subtask"
	case u.form.taskID != 0:
		view.Title = "Edit Task"
	default:
		view.Title = "New Task"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetViewOnTop(viewForm)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		hint := ""
		if len(field.options) > 0 {
			hint = " (space/←→)"
		}
		fmt.Fprintf(view, "%s%s%s: %s\n", prefix, field.Label, hint, field.Value)
	}
	fmt.Fprint(view, "  enter save | esc cancel | tab next field")
	current := u.form.fields[u.form.index]
	cursorX := len([]rune(current.Label)) + len([]rune(current.Value)) + 4
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	ui.editField(key, ch, mod)
	ui.renderForm(view)
	return true
}

// editField applies one keystroke to the focused form field.
func (u *UI) editField(key gocui.Key, ch rune, mod gocui.Modifier) {
	field := &u.form.fields[u.form.index]

	if len(field.options) > 0 {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.cycle(1)
		case gocui.KeyArrowLeft:
			field.cycle(-1)
		}
		return
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
		return
	case gocui.KeySpace:
		field.Value += " "
		return
	case gocui.KeyCtrlU:
		field.Value = ""
		return
	}
	if ch != 0 && ch != '\n' && ch != '\r' && mod == gocui.ModNone {
		field.Value += string(ch)
	}
}

func (u *UI) nextFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	u.form.index = min(u.form.index+1, len(u.form.fields)-1)
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	u.form.index = max(u.form.index-1, 0)
	u.renderForm(view)
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focusedView())
	}
	return nil
}

// submitForm keeps the form open when the input is rejected so it can be fixed.
func (u *UI) submitForm(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if err := u.saveForm(); err != nil {
		u.report(err)
		return nil
	}
	u.status = ""
	return u.cancelForm(gui, view)
}

func (u *UI) saveForm() error {
	form := u.form
	if form.kind == formSubtask {
		if form.subtaskID == 0 {
			input, err := parseSubtaskCreate(form.fields)
			if err != nil {
				return err
			}
			_, err = u.app.Subtasks.AddSubtask(u.ctx, form.taskID, input)
			return err
		}
		input, err := parseSubtaskUpdate(form.fields)
		if err != nil {
			return err
		}
		_, err = u.app.Subtasks.UpdateSubtask(u.ctx, form.taskID, form.subtaskID, input)
		return err
	}

	parsed, err := parseTaskFields(form.fields)
	if err != nil {
		return err
	}
	var task model.Task
	if form.taskID == 0 {
		task, err = u.app.Tasks.AddTask(u.ctx, parsed.createInput())
	} else {
		task, err = u.app.Tasks.UpdateTask(u.ctx, form.taskID, parsed.updateInput())
	}
	if err != nil {
		return err
	}
	if task.Workspace == u.app.Tasks.SelectedWorkspace() {
		u.selectTask(task.ID)
	}
	return nil
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  left/right or tab change column | j/k or arrows move selection",
		"  enter open subtasks of the selected task | esc close pane",
		"",
		"Tasks:",
		"  a add | e edit | d delete",
		"  h/l move one column left/right | 1-4 move to Backlog/Today/In Progress/Done",
		"",
		"Subtasks (pane focused):",
		"  s add | e edit | d delete | x cycle TODO/DOING/DONE",
		"",
		"Board:",
		"  w switch Work/Personal | f toggle focus mode (one task in progress)",
		"  t cycle theme auto/light/dark | r reload",
		"",
		"Form:",
		"  tab/arrows change field | space/left/right cycle choices | enter save | esc cancel",
		"",
		"  ? close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, theme board.Theme) {
	view.Frame = true
	view.Highlight = focused
	view.HighlightInactive = false
	view.InactiveViewSelBgColor = gocui.ColorDefault
	view.SelFgColor = gocui.ColorBlack
	accent := gocui.ColorCyan
	view.SelBgColor = gocui.ColorBlue
	if theme == board.Light {
		accent = gocui.ColorBlue
		view.SelBgColor = gocui.ColorCyan
	}
	if focused {
		view.FrameColor = accent
		view.TitleColor = accent
	} else {
		view.FrameColor = gocui.ColorDefault
		view.TitleColor = gocui.ColorDefault
	}
}
