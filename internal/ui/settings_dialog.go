package ui

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/captube/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// language display name -> code
	languageCodes map[string]string

	// UI components
	backendSelect     *widget.Select
	audioFormatSelect *widget.Select
	languageSelect    *widget.Select
	autoRevealCheck   *widget.Check
	timeoutEntry      *widget.Entry
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// new values have been persisted.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:      settings,
		localization:  localization,
		window:        window,
		onSaved:       onSaved,
		languageCodes: make(map[string]string),
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.backendSelect = widget.NewSelect(sd.settings.GetBackendOptions(), nil)
	sd.audioFormatSelect = widget.NewSelect(sd.settings.GetAudioFormatOptions(), nil)

	languageNames := make([]string, 0)
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	sd.autoRevealCheck = widget.NewCheck(sd.localization.GetText(KeyAutoReveal), nil)

	sd.timeoutEntry = widget.NewEntry()
	sd.timeoutEntry.SetPlaceHolder(strconv.Itoa(config.MinHTTPTimeoutSeconds) + "-" + strconv.Itoa(config.MaxHTTPTimeoutSeconds))
	sd.timeoutEntry.Validator = validateTimeout

	form := container.NewVBox(
		widget.NewLabel(sd.localization.GetText(KeyBackend)+":"),
		sd.backendSelect,

		widget.NewLabel(sd.localization.GetText(KeyAudioFormat)+":"),
		sd.audioFormatSelect,

		widget.NewLabel(sd.localization.GetText(KeyHTTPTimeout)+":"),
		sd.timeoutEntry,

		widget.NewSeparator(),

		widget.NewLabel(sd.localization.GetText(KeyLanguage)+":"),
		sd.languageSelect,
		sd.autoRevealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(460, 420))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.backendSelect.SetSelected(sd.settings.GetBackend())
	sd.audioFormatSelect.SetSelected(sd.settings.GetAudioFormat())
	sd.timeoutEntry.SetText(strconv.Itoa(int(sd.settings.GetHTTPTimeout().Seconds())))
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
			break
		}
	}
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply stores the dialog values; empty or invalid fields keep the old value
func (sd *SettingsDialog) apply() {
	if sd.backendSelect.Selected != "" {
		sd.settings.SetBackend(sd.backendSelect.Selected)
	}
	if sd.audioFormatSelect.Selected != "" {
		sd.settings.SetAudioFormat(sd.audioFormatSelect.Selected)
	}
	if seconds, err := parseTimeoutSeconds(sd.timeoutEntry.Text); err == nil {
		sd.settings.SetHTTPTimeout(time.Duration(seconds) * time.Second)
	}
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)
}

func parseTimeoutSeconds(text string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(text))
}

func validateTimeout(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := parseTimeoutSeconds(text)
	return err
}
