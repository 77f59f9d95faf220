package ui

import (
	"context"
	"errors"
	"log"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/captube/internal/config"
	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
	"github.com/ytget/captube/internal/platform"
)

// ServiceFactory builds the executor for the given options.
// It is called at startup and again whenever settings are saved.
type ServiceFactory func(opts config.Options) (download.Executor, error)

// RootUI is the main window: one URL, one mode, one request at a time
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	settings     *config.Settings
	localization *Localization
	newService   ServiceFactory
	logger       *log.Logger

	// openFolder reveals a path in the system file manager
	openFolder func(path string) error

	mu          sync.Mutex
	service     download.Executor
	status      model.RequestStatus
	mode        model.Mode
	destination string
	lastResult  model.DownloadResult

	// Widgets
	urlEntry      *widget.Entry
	pasteBtn      *widget.Button
	clearBtn      *widget.Button
	modeRadio     *widget.RadioGroup
	folderLabel   *widget.Label
	folderBtn     *widget.Button
	downloadBtn   *widget.Button
	progressBar   *widget.ProgressBar
	statusLabel   *widget.Label
	openFolderBtn *widget.Button
	settingsBtn   *widget.Button
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, newService ServiceFactory, logger *log.Logger) *RootUI {
	if logger == nil {
		logger = log.Default()
	}

	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		settings:     settings,
		localization: localization,
		newService:   newService,
		logger:       logger,
		openFolder:   platform.OpenInFileExplorer,
		status:       model.RequestStatusIdle,
		mode:         model.ModeVideo,
		destination:  platform.DefaultDestination(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	if err := ui.rebuildService(); err != nil {
		ui.statusLabel.SetText(ui.localization.GetText(KeyServiceUnavailable))
	}
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.pasteBtn = widget.NewButton(ui.localization.GetText(KeyPaste), ui.onPaste)
	ui.clearBtn = widget.NewButton(ui.localization.GetText(KeyClear), ui.onClear)
	ui.clearBtn.Importance = widget.LowImportance

	ui.modeRadio = widget.NewRadioGroup(ui.modeLabels(), ui.onModeChanged)
	ui.modeRadio.Horizontal = true
	ui.modeRadio.Required = true
	ui.modeRadio.SetSelected(ui.localization.ModeText(ui.mode))

	ui.folderLabel = widget.NewLabel(ui.destination)
	ui.folderLabel.Truncation = fyne.TextTruncateEllipsis
	ui.folderBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyChooseFolder), ui.onChooseFolder)

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance

	ui.progressBar = widget.NewProgressBar()

	ui.statusLabel = widget.NewLabel(ui.localization.GetText(KeyStatusIdle))
	ui.statusLabel.Wrapping = fyne.TextWrapWord

	ui.openFolderBtn = widget.NewButton(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)

	urlRow := container.NewBorder(nil, nil, ui.settingsBtn, container.NewHBox(ui.pasteBtn, ui.clearBtn), ui.urlEntry)
	folderRow := container.NewBorder(nil, nil, widget.NewLabel(ui.localization.GetText(KeyDestination)+":"), ui.folderBtn, ui.folderLabel)
	actionRow := container.NewBorder(nil, nil, nil, container.NewHBox(ui.openFolderBtn, ui.downloadBtn), ui.modeRadio)

	content := container.NewVBox(
		urlRow,
		folderRow,
		actionRow,
		widget.NewSeparator(),
		ui.progressBar,
		ui.statusLabel,
	)

	ui.window.SetContent(container.NewPadded(content))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// modeLabels returns the localized radio options in model.Modes order
func (ui *RootUI) modeLabels() []string {
	labels := make([]string, 0, len(model.Modes))
	for _, mode := range model.Modes {
		labels = append(labels, ui.localization.ModeText(mode))
	}
	return labels
}

// modeForLabel maps a radio label back to its mode
func (ui *RootUI) modeForLabel(label string) (model.Mode, bool) {
	for _, mode := range model.Modes {
		if ui.localization.ModeText(mode) == label {
			return mode, true
		}
	}
	return "", false
}

func (ui *RootUI) onModeChanged(label string) {
	if mode, ok := ui.modeForLabel(label); ok {
		ui.mu.Lock()
		ui.mode = mode
		ui.mu.Unlock()
	}
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.pasteBtn.SetText(ui.localization.GetText(KeyPaste))
	ui.clearBtn.SetText(ui.localization.GetText(KeyClear))
	ui.folderBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyChooseFolder))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.openFolderBtn.SetText(ui.localization.GetText(KeyOpenFolder))

	ui.mu.Lock()
	mode := ui.mode
	ui.mu.Unlock()
	ui.modeRadio.Options = ui.modeLabels()
	ui.modeRadio.Selected = ui.localization.ModeText(mode)
	ui.modeRadio.Refresh()

	ui.statusLabel.SetText(ui.statusText())
}

// validateURL gives the entry a visual hint; the service does the real validation
func validateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return err
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

// onPaste replaces the URL with the clipboard contents
func (ui *RootUI) onPaste() {
	content := strings.TrimSpace(ui.app.Clipboard().Content())
	if content == "" {
		ui.statusLabel.SetText(ui.localization.GetText(KeyClipboardEmpty))
		return
	}
	ui.urlEntry.SetText(content)
}

// onClear empties the URL and resets the status area
func (ui *RootUI) onClear() {
	ui.urlEntry.SetText("")

	ui.mu.Lock()
	defer ui.mu.Unlock()
	if ui.status.IsActive() {
		return
	}
	ui.status = model.RequestStatusIdle
	ui.lastResult = model.DownloadResult{}
	ui.progressBar.SetValue(0)
	ui.statusLabel.SetText(ui.localization.GetText(KeyStatusIdle))
}

// onChooseFolder picks the destination for this session
func (ui *RootUI) onChooseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			ui.logger.Printf("folder dialog: %v", err)
			return
		}
		if uri == nil {
			return
		}
		ui.setDestination(uri.Path())
	}, ui.window)
}

func (ui *RootUI) setDestination(dir string) {
	ui.mu.Lock()
	ui.destination = dir
	ui.mu.Unlock()
	ui.folderLabel.SetText(dir)
}

// onOpenFolder reveals the last saved file, or the destination folder
func (ui *RootUI) onOpenFolder() {
	ui.mu.Lock()
	target := ui.destination
	if ui.status.IsFinished() && ui.lastResult.OK() {
		target = ui.lastResult.OutputPath
	}
	ui.mu.Unlock()

	if err := ui.openFolder(target); err != nil {
		ui.logger.Printf("open folder %s: %v", target, err)
		ui.statusLabel.SetText(ui.localization.GetText(KeyErrorOpeningFolder))
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

func (ui *RootUI) onSettingsSaved() {
	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.refreshUITexts()
	ui.createMenu()

	if err := ui.rebuildService(); err != nil {
		ui.statusLabel.SetText(ui.localization.GetText(KeyServiceUnavailable))
	}
}

// rebuildService replaces the executor with one built from the saved settings.
// A request already running keeps the executor it started with.
func (ui *RootUI) rebuildService() error {
	ui.mu.Lock()
	opts := ui.settings.Options(ui.destination)
	ui.mu.Unlock()

	var service download.Executor
	var err error
	if ui.newService == nil {
		err = errors.New("no service factory")
	} else {
		service, err = ui.newService(opts)
	}
	if err != nil {
		ui.logger.Printf("build download service: %v", err)
	}

	ui.mu.Lock()
	ui.service = service
	ui.mu.Unlock()
	return err
}

// onDownloadClick handles the download button click
func (ui *RootUI) onDownloadClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.statusLabel.SetText(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}

	req, service, ok := ui.beginRequest(urlText)
	if !ok {
		return
	}
	ui.logger.Printf("download %s (%s) into %s", req.SourceURL, req.Mode, req.DestinationDir)

	service.ExecuteAsync(context.Background(), req,
		func(p model.Progress) {
			fyne.Do(func() { ui.onProgress(p) })
		},
		func(result model.DownloadResult) {
			fyne.Do(func() { ui.onResult(result) })
		},
	)
}

// beginRequest moves to Running and locks the controls. It refuses while a
// request is already running or when no executor is available.
func (ui *RootUI) beginRequest(sourceURL string) (model.DownloadRequest, download.Executor, bool) {
	ui.mu.Lock()
	if ui.status.IsActive() {
		ui.mu.Unlock()
		return model.DownloadRequest{}, nil, false
	}
	service := ui.service
	if service == nil {
		ui.mu.Unlock()
		ui.statusLabel.SetText(ui.localization.GetText(KeyServiceUnavailable))
		return model.DownloadRequest{}, nil, false
	}
	req := model.DownloadRequest{SourceURL: sourceURL, Mode: ui.mode}.WithDestination(ui.destination)
	ui.status = model.RequestStatusRunning
	ui.lastResult = model.DownloadResult{}
	ui.mu.Unlock()

	ui.setControlsEnabled(false)
	ui.progressBar.SetValue(0)
	ui.statusLabel.SetText(ui.localization.GetText(KeyStatusDownloading))
	return req, service, true
}

// onProgress runs on the UI goroutine
func (ui *RootUI) onProgress(p model.Progress) {
	ui.mu.Lock()
	active := ui.status.IsActive()
	ui.mu.Unlock()
	if !active {
		return
	}

	ui.progressBar.SetValue(p.Fraction())
	if p.Stage == model.StageTranscode {
		ui.statusLabel.SetText(ui.localization.GetText(KeyStatusConverting))
	}
}

// onResult runs on the UI goroutine once per request
func (ui *RootUI) onResult(result model.DownloadResult) {
	ui.mu.Lock()
	ui.lastResult = result
	if result.OK() {
		ui.status = model.RequestStatusSucceeded
	} else {
		ui.status = model.RequestStatusFailed
	}
	ui.mu.Unlock()

	ui.setControlsEnabled(true)
	ui.statusLabel.SetText(ui.statusText())

	if !result.OK() {
		ui.progressBar.SetValue(0)
		ui.logger.Printf("request %s failed: %v", result.RequestID, result.Err)
		return
	}

	ui.progressBar.SetValue(1)
	ui.urlEntry.SetText("")
	ui.logger.Printf("request %s saved %s in %s", result.RequestID, result.OutputPath, result.Duration())

	ui.app.SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyDownloadCompleted),
		Content: filepath.Base(result.OutputPath),
	})

	if ui.settings.GetAutoRevealOnComplete() {
		if err := ui.openFolder(result.OutputPath); err != nil {
			ui.logger.Printf("reveal %s: %v", result.OutputPath, err)
		}
	}
}

// statusText describes the current status in the current language
func (ui *RootUI) statusText() string {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	switch ui.status {
	case model.RequestStatusRunning:
		return ui.localization.GetText(KeyStatusDownloading)
	case model.RequestStatusSucceeded:
		return ui.localization.Format(KeyStatusSaved, filepath.Base(ui.lastResult.OutputPath))
	case model.RequestStatusFailed:
		return ui.localization.ErrorText(ui.lastResult.Kind())
	}
	return ui.localization.GetText(KeyStatusIdle)
}

// setControlsEnabled locks or unlocks every input that would change the request
func (ui *RootUI) setControlsEnabled(enabled bool) {
	toggle := func(w fyne.Disableable) {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
	toggle(ui.urlEntry)
	toggle(ui.pasteBtn)
	toggle(ui.clearBtn)
	toggle(ui.modeRadio)
	toggle(ui.folderBtn)
	toggle(ui.downloadBtn)
	toggle(ui.settingsBtn)
}

// Status returns the state of the current or last request
func (ui *RootUI) Status() model.RequestStatus {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.status
}
