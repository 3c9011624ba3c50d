package build

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"twc/config"
	"twc/misc"
)

// Values is a struct that holds variables we make available for header
// template expansion.
type Values struct {
	Name    string
	Version string
	RunID   string
	Rules   int
}

func expandHeader(field string, values Values) (string, error) {
	if len(strings.TrimSpace(field)) == 0 {
		return "", nil
	}

	tmpl, err := template.New(string(config.HeaderTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.HeaderTemplateFieldName, err)
	}

	if values.Name == "" {
		values.Name = misc.GetAppName()
	}
	if values.Version == "" {
		values.Version = misc.GetVersion()
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
