// SPDX-License-Identifier: AGPL-3.0-or-later

package githook

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Marker is embedded in every generated hook. A hook file containing it
// anywhere is treated as ours and may be regenerated.
const Marker = "# build-logic-githook"

const checkExitStatus = "[ $? -gt 0 ] && exit 1"

var scriptTmpl = template.Must(template.New("hook").Funcs(template.FuncMap{
	"quote": shellQuote,
}).Parse(`#!/bin/sh
{{ .Marker }}

{{ with .Task }}{{ quote $.Command }} {{ . }}
{{ $.Check }}{{ end }}

{{ with .Shell }}{{ . }}
{{ $.Check }}{{ end }}

exit 0
`))

type scriptData struct {
	Marker  string
	Command string
	Task    string
	Shell   string
	Check   string
}

// Render produces the POSIX shell script for spec. The task fragment runs
// commandPath with spec.Task; the shell fragment is copied verbatim. Both
// abort the hook with status 1 on failure and render empty when blank.
func Render(commandPath string, spec Spec) (string, error) {
	data := scriptData{
		Marker:  Marker,
		Command: commandPath,
		Task:    strings.TrimSpace(spec.Task),
		Shell:   strings.TrimSpace(spec.Shell),
		Check:   checkExitStatus,
	}
	if data.Task != "" && commandPath == "" {
		return "", fmt.Errorf("hook %s: task %q needs a command path", spec.Name, data.Task)
	}

	var buf bytes.Buffer
	if err := scriptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering hook %s: %w", spec.Name, err)
	}
	return buf.String(), nil
}

// shellQuote wraps s in single quotes for /bin/sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
