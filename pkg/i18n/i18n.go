package i18n

import (
	"embed"
	"encoding/json"
	"io/fs"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type Translator struct {
	bundle *goi18n.Bundle
}

// New loads every embedded locale file. English is the fallback language.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, err
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Localize renders messageID for the languages listed in acceptLanguage
// (an Accept-Language header value). Unknown ids come back unchanged.
func (t *Translator) Localize(acceptLanguage, messageID string, data map[string]interface{}) string {
	if t == nil {
		return messageID
	}
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}
