package rest

import (
	"html/template"
)

type pageData struct {
	Name             string
	Domain           string
	SessionJSON      template.JS
	FlagsJSON        template.JS
	WebsocketAddress string
	AnalyticsAccount string
}

// sessionInfo is embedded into the page for the client script.
type sessionInfo struct {
	Domain  string `json:"domain"`
	Address string `json:"address,omitempty"`
	IDSeed  string `json:"idSeed"`
}

var pageTemplate = template.Must(template.New("client").Parse(clientPageHTML))

const clientPageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Domain}}</title>
<script>
var __session = {{.SessionJSON}};
var __flags = {{.FlagsJSON}};
var __websocketAddress = "{{.WebsocketAddress}}";
{{if .AnalyticsAccount}}var __analyticsAccount = "{{.AnalyticsAccount}}";{{end}}
</script>
<script src="/static/client.js" defer></script>
</head>
<body>
<div id="topbar"><span id="username">{{.Name}}</span>@<span id="userdomain">{{.Domain}}</span></div>
<div id="app"></div>
</body>
</html>
`
