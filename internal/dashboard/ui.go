package dashboard

import (
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

func (s *Server) handleProjectPage(c echo.Context) error {
	return s.renderPage(c, s.projectPage(s.store.Snapshot(), time.Now()))
}

func (s *Server) handleBuilderPage(c echo.Context) error {
	return s.renderPage(c, s.builderPage(s.store.Snapshot(), time.Now()))
}

func (s *Server) renderPage(c echo.Context, page pageView) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/html; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return pageTemplate.Execute(c.Response(), page)
}

const pageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - bbdash</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f4f4f5; color: #18181b; }
  header { background: #1e293b; color: #f8fafc; padding: 14px 24px; display: flex; align-items: baseline; gap: 18px; }
  header h1 { font-size: 18px; margin: 0; }
  header a { color: #93c5fd; text-decoration: none; font-size: 13px; }
  header .global { margin-left: auto; font-size: 13px; color: #cbd5e1; }
  main { padding: 18px 24px; }
  section { margin-bottom: 26px; }
  h2 { font-size: 15px; margin: 0 0 8px; }
  table { border-collapse: collapse; background: #fff; width: 100%; font-size: 13px; }
  th, td { border: 1px solid #e4e4e7; padding: 6px 10px; text-align: left; }
  th { background: #f1f5f9; user-select: none; }
  th.sortable { cursor: pointer; }
  th.sortable:hover { background: #e2e8f0; }
  td.empty { color: #71717a; font-style: italic; }
  td a { color: #1d4ed8; }
  button { font-size: 12px; padding: 2px 8px; cursor: pointer; }
  form.force { margin-top: 4px; display: flex; gap: 6px; }
  form.force input { font-size: 13px; padding: 3px 6px; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <a href="/">project</a>
  {{if .Builder}}<a href="/builder">builder: {{.Builder}}</a>{{end}}
  <span class="global">
    slaves {{.Global.SlavesCount}} ({{.Global.SlavesBusy}} busy) &middot;
    running {{.Global.RunningBuilds}} &middot; load {{.Global.BuildLoad}}
  </span>
</header>
<main>
{{range .Tables}}
<section>
  <h2>{{.Title}}</h2>
  <table id="{{.ID}}">
    <thead><tr>
      {{range .Columns}}<th {{if not .NoSort}}class="sortable" onclick="sortTable(this)"{{end}}>{{.Label}}</th>{{end}}
      {{if .Rows}}{{if (index .Rows 0).Actions}}<th></th>{{end}}{{end}}
    </tr></thead>
    <tbody>
    {{if .Rows}}
      {{range .Rows}}
      <tr>
        {{$row := .}}
        {{range $i, $cell := .Cells}}
        <td>{{if and (eq $i 0) $row.Link}}<a href="{{$row.Link}}">{{$cell}}</a>{{else}}{{$cell}}{{end}}</td>
        {{end}}
        {{if .Actions}}
        <td>{{range .Actions}}<button onclick="postAction('{{.URL}}')">{{.Label}}</button>{{end}}</td>
        {{end}}
      </tr>
      {{end}}
    {{else}}
      <tr><td class="empty" colspan="{{len .Columns}}">{{.Empty}}</td></tr>
    {{end}}
    </tbody>
  </table>
</section>
{{end}}
{{if .ForceForm}}
<section>
  <h2>Force Build</h2>
  <form class="force" onsubmit="return forceBuild(this)">
    <input name="branch" placeholder="branch">
    <input name="reason" placeholder="reason" size="40">
    <button type="submit">force</button>
  </form>
</section>
{{end}}
</main>
<script>
function sortTable(th) {
  var table = th.closest('table');
  var tbody = table.tBodies[0];
  var idx = Array.prototype.indexOf.call(th.parentNode.children, th);
  var asc = th.dataset.asc !== 'true';
  th.dataset.asc = asc;
  var rows = Array.prototype.slice.call(tbody.rows);
  rows.sort(function (a, b) {
    var x = a.cells[idx] ? a.cells[idx].textContent.trim() : '';
    var y = b.cells[idx] ? b.cells[idx].textContent.trim() : '';
    var nx = parseFloat(x.replace('#', '')), ny = parseFloat(y.replace('#', ''));
    if (!isNaN(nx) && !isNaN(ny)) return asc ? nx - ny : ny - nx;
    return asc ? x.localeCompare(y) : y.localeCompare(x);
  });
  rows.forEach(function (r) { tbody.appendChild(r); });
}
function postAction(url) {
  fetch(url, { method: 'POST' }).then(function () { location.reload(); });
}
var builderName = {{.Builder}};
function forceBuild(form) {
  var body = new URLSearchParams(new FormData(form));
  fetch('/builders/' + encodeURIComponent(builderName) + '/force',
    { method: 'POST', headers: { 'Content-Type': 'application/x-www-form-urlencoded' }, body: body })
    .then(function () { location.reload(); });
  return false;
}
{{if .RefreshSec}}setTimeout(function () { location.reload(); }, {{.RefreshSec}} * 1000);{{end}}
</script>
</body>
</html>
`
