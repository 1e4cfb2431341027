package i18n

import (
	"embed"

	"github.com/goccy/go-json"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// Supported sind die Sprachen mit eigener Locale-Datei, die erste ist der Fallback.
var Supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(Supported)

// MatchLanguage wertet einen Accept-Language-Header aus und liefert "en" oder "de".
func MatchLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0].String()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Supported[0].String()
	}
	return Supported[idx].String()
}

type Service interface {
	T(lang string, key string, params map[string]any) string
}

type I18nService struct {
	bundle *i18n.Bundle
}

func NewInitI18nService() *I18nService {
	bundle := i18n.NewBundle(Supported[0])
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, file := range []string{"locales/en.json", "locales/de.json"} {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			panic(err)
		}
	}

	return &I18nService{bundle: bundle}
}

// T liefert die Übersetzung von key. Unbekannte Keys kommen unverändert zurück.
func (g *I18nService) T(lang string, key string, params map[string]any) string {
	localizer := i18n.NewLocalizer(g.bundle, lang)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: params,
	})

	if err != nil {
		return key
	}

	return msg
}
