package util

import (
	"bytes"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// RenderHTML parses the given template sources in order into one template set and executes
// the template named name. Later sources may define blocks used by earlier ones.
func RenderHTML(name string, data any, sources ...string) ([]byte, error) {
	if len(sources) == 0 {
		return nil, errors.New("no template sources given")
	}

	tmpl := template.New(name).Funcs(sprig.HtmlFuncMap())

	for i, src := range sources {
		var err error

		tmpl, err = tmpl.Parse(src)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template source %d", i)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.Wrapf(err, "failed to execute template %s", name)
	}

	return buf.Bytes(), nil
}
