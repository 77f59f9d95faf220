package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2/lang"

	"github.com/ytget/captube/internal/model"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyFile               = "file"
	KeySettings           = "settings"
	KeyLanguage           = "language"
	KeyEnterURL           = "enter_url"
	KeyPaste              = "paste"
	KeyClear              = "clear"
	KeyModeVideo          = "mode_video"
	KeyModeAudio          = "mode_audio"
	KeyModeVideoOnly      = "mode_video_only"
	KeyDestination        = "destination"
	KeyChooseFolder       = "choose_folder"
	KeyDownload           = "download"
	KeyOpenFolder         = "open_folder"
	KeyStatusIdle         = "status_idle"
	KeyStatusDownloading  = "status_downloading"
	KeyStatusConverting   = "status_converting"
	KeyStatusSaved        = "status_saved"
	KeyDownloadCompleted  = "download_completed"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyInvalidURL         = "invalid_url"
	KeyClipboardEmpty     = "clipboard_empty"
	KeyErrorOpeningFolder = "error_opening_folder"
	KeyServiceUnavailable = "service_unavailable"
	KeyBackend            = "backend"
	KeyAudioFormat        = "audio_format"
	KeyAutoReveal         = "auto_reveal"
	KeyHTTPTimeout        = "http_timeout"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeySettingsSaved      = "settings_saved"

	KeyErrInvalidInput           = "err_invalid_input"
	KeyErrDestinationUnavailable = "err_destination_unavailable"
	KeyErrNetwork                = "err_network"
	KeyErrContentUnavailable     = "err_content_unavailable"
	KeyErrUnsupportedFormat      = "err_unsupported_format"
	KeyErrUnknown                = "err_unknown"
)

var errorKeys = map[model.ErrorKind]string{
	model.ErrorInvalidInput:           KeyErrInvalidInput,
	model.ErrorDestinationUnavailable: KeyErrDestinationUnavailable,
	model.ErrorNetwork:                KeyErrNetwork,
	model.ErrorContentUnavailable:     KeyErrContentUnavailable,
	model.ErrorUnsupportedFormat:      KeyErrUnsupportedFormat,
	model.ErrorUnknown:                KeyErrUnknown,
}

var modeKeys = map[model.Mode]string{
	model.ModeVideo:        KeyModeVideo,
	model.ModeAudioOnly:    KeyModeAudio,
	model.ModeVideoNoAudio: KeyModeVideoOnly,
}

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" follows the OS locale.
func (l *Localization) SetLanguage(code string) {
	if code == "system" {
		code = systemLanguage()
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
	}
}

// systemLanguage returns the two letter code of the OS locale
func systemLanguage() string {
	code := strings.ToLower(lang.SystemLocale().LanguageString())
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if code == "" {
		return "en"
	}
	return code
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Format returns the localized text for key formatted with args
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// ErrorText returns the user-facing message for an error kind
func (l *Localization) ErrorText(kind model.ErrorKind) string {
	key, ok := errorKeys[kind]
	if !ok {
		key = KeyErrUnknown
	}
	return l.GetText(key)
}

// ModeText returns the display label of a mode
func (l *Localization) ModeText(mode model.Mode) string {
	if key, ok := modeKeys[mode]; ok {
		return l.GetText(key)
	}
	return mode.String()
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "CapTube",
		KeyFile:               "File",
		KeySettings:           "Settings",
		KeyLanguage:           "Language",
		KeyEnterURL:           "Paste a YouTube link (https://youtube.com/watch?v=...)",
		KeyPaste:              "Paste",
		KeyClear:              "Clear",
		KeyModeVideo:          "Video",
		KeyModeAudio:          "Audio only",
		KeyModeVideoOnly:      "Video without audio",
		KeyDestination:        "Save to",
		KeyChooseFolder:       "Choose Folder",
		KeyDownload:           "Download",
		KeyOpenFolder:         "Open Folder",
		KeyStatusIdle:         "Ready",
		KeyStatusDownloading:  "Downloading...",
		KeyStatusConverting:   "Converting audio...",
		KeyStatusSaved:        "Saved: %s",
		KeyDownloadCompleted:  "Download completed",
		KeyPleaseEnterURL:     "Please enter a URL",
		KeyInvalidURL:         "Invalid URL",
		KeyClipboardEmpty:     "Clipboard is empty",
		KeyErrorOpeningFolder: "Could not open the folder",
		KeyServiceUnavailable: "The download engine could not start",
		KeyBackend:            "Download Engine",
		KeyAudioFormat:        "Audio Format",
		KeyAutoReveal:         "Open folder when a download finishes",
		KeyHTTPTimeout:        "Network Timeout (seconds)",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeySettingsSaved:      "Settings saved successfully!",

		KeyErrInvalidInput:           "That does not look like a valid video link.",
		KeyErrDestinationUnavailable: "The selected folder cannot be written to.",
		KeyErrNetwork:                "Network problem. Check your connection and try again.",
		KeyErrContentUnavailable:     "This video is private, removed or not available in your region.",
		KeyErrUnsupportedFormat:      "This video has no stream for the selected mode.",
		KeyErrUnknown:                "Something went wrong. See the log for details.",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "CapTube",
		KeyFile:               "Файл",
		KeySettings:           "Настройки",
		KeyLanguage:           "Язык",
		KeyEnterURL:           "Вставьте ссылку YouTube (https://youtube.com/watch?v=...)",
		KeyPaste:              "Вставить",
		KeyClear:              "Очистить",
		KeyModeVideo:          "Видео",
		KeyModeAudio:          "Только аудио",
		KeyModeVideoOnly:      "Видео без звука",
		KeyDestination:        "Сохранить в",
		KeyChooseFolder:       "Выбрать папку",
		KeyDownload:           "Скачать",
		KeyOpenFolder:         "Открыть папку",
		KeyStatusIdle:         "Готово",
		KeyStatusDownloading:  "Загрузка...",
		KeyStatusConverting:   "Конвертация аудио...",
		KeyStatusSaved:        "Сохранено: %s",
		KeyDownloadCompleted:  "Загрузка завершена",
		KeyPleaseEnterURL:     "Пожалуйста, введите URL",
		KeyInvalidURL:         "Неверный URL",
		KeyClipboardEmpty:     "Буфер обмена пуст",
		KeyErrorOpeningFolder: "Не удалось открыть папку",
		KeyServiceUnavailable: "Не удалось запустить загрузчик",
		KeyBackend:            "Движок загрузки",
		KeyAudioFormat:        "Формат аудио",
		KeyAutoReveal:         "Открывать папку после загрузки",
		KeyHTTPTimeout:        "Тайм-аут сети (секунды)",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeySettingsSaved:      "Настройки успешно сохранены!",

		KeyErrInvalidInput:           "Это не похоже на ссылку на видео.",
		KeyErrDestinationUnavailable: "В выбранную папку нельзя записать файл.",
		KeyErrNetwork:                "Проблема с сетью. Проверьте подключение и повторите попытку.",
		KeyErrContentUnavailable:     "Видео закрыто, удалено или недоступно в вашем регионе.",
		KeyErrUnsupportedFormat:      "Для выбранного режима у этого видео нет подходящего потока.",
		KeyErrUnknown:                "Что-то пошло не так. Подробности в журнале.",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "CapTube",
		KeyFile:               "Arquivo",
		KeySettings:           "Configurações",
		KeyLanguage:           "Idioma",
		KeyEnterURL:           "Cole um link do YouTube (https://youtube.com/watch?v=...)",
		KeyPaste:              "Colar",
		KeyClear:              "Limpar",
		KeyModeVideo:          "Vídeo",
		KeyModeAudio:          "Somente áudio",
		KeyModeVideoOnly:      "Vídeo sem áudio",
		KeyDestination:        "Salvar em",
		KeyChooseFolder:       "Escolher Pasta",
		KeyDownload:           "Baixar",
		KeyOpenFolder:         "Abrir Pasta",
		KeyStatusIdle:         "Pronto",
		KeyStatusDownloading:  "Baixando...",
		KeyStatusConverting:   "Convertendo áudio...",
		KeyStatusSaved:        "Salvo: %s",
		KeyDownloadCompleted:  "Download concluído",
		KeyPleaseEnterURL:     "Por favor, digite uma URL",
		KeyInvalidURL:         "URL inválida",
		KeyClipboardEmpty:     "A área de transferência está vazia",
		KeyErrorOpeningFolder: "Não foi possível abrir a pasta",
		KeyServiceUnavailable: "Não foi possível iniciar o mecanismo de download",
		KeyBackend:            "Mecanismo de Download",
		KeyAudioFormat:        "Formato de Áudio",
		KeyAutoReveal:         "Abrir a pasta ao concluir o download",
		KeyHTTPTimeout:        "Tempo Limite de Rede (segundos)",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeySettingsSaved:      "Configurações salvas com sucesso!",

		KeyErrInvalidInput:           "Isso não parece um link de vídeo válido.",
		KeyErrDestinationUnavailable: "Não é possível gravar na pasta selecionada.",
		KeyErrNetwork:                "Problema de rede. Verifique sua conexão e tente novamente.",
		KeyErrContentUnavailable:     "Este vídeo é privado, foi removido ou não está disponível na sua região.",
		KeyErrUnsupportedFormat:      "Este vídeo não tem um fluxo para o modo selecionado.",
		KeyErrUnknown:                "Algo deu errado. Veja o log para detalhes.",
	}
}
