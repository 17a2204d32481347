//go:build darwin

package autostart

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"text/template"

	"github.com/clockbar/clockbar/internal/buildinfo"
	"github.com/clockbar/clockbar/internal/config"
)

var plistTemplate = template.Must(template.New("plist").Funcs(template.FuncMap{"xml": xmlEscape}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{xml .Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{xml .Exe}}</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`))

// launchAgent writes a per-user LaunchAgent plist.
type launchAgent struct {
	exe  string
	path string
}

func newManager(exe, home string) Manager {
	return &launchAgent{
		exe:  exe,
		path: filepath.Join(home, "Library", "LaunchAgents", buildinfo.BundleID+".plist"),
	}
}

func (l *launchAgent) Enable() error {
	var buf bytes.Buffer
	data := struct{ Label, Exe string }{buildinfo.BundleID, l.exe}
	if err := plistTemplate.Execute(&buf, data); err != nil {
		return err
	}
	return config.WriteFileAtomic(l.path, buf.Bytes(), 0644)
}

func (l *launchAgent) Disable() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *launchAgent) IsEnabled() (bool, error) {
	return config.FileExists(l.path), nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
