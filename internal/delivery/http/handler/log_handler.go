package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/domain/repository"
	"backoffice-agent/internal/usecase"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

type LogHandler struct {
	logRepo repository.APILogRepository
	logger  *zap.Logger
}

func NewLogHandler(logRepo repository.APILogRepository, logger *zap.Logger) *LogHandler {
	return &LogHandler{
		logRepo: logRepo,
		logger:  logger,
	}
}

func logLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", defaultLogLimit)
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	return limit
}

// LogViewer serves the HTML page for browsing recorded back-office calls
func (h *LogHandler) LogViewer(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(logViewerHTML)
}

const logViewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Back-office Calls</title>
<style>
  body { font: 14px system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1d2433; }
  header { background: #1d2433; color: #fff; padding: 14px 24px; display: flex; align-items: center; gap: 16px; }
  header h1 { font-size: 18px; margin: 0; flex: 1; }
  form { display: flex; gap: 8px; }
  input, select, button { font: inherit; padding: 6px 10px; border-radius: 4px; border: 1px solid #c5cad3; }
  button { background: #2f6fed; color: #fff; border-color: #2f6fed; cursor: pointer; }
  main { padding: 16px 24px; }
  .summary { margin-bottom: 12px; color: #5b6475; }
  table { width: 100%; border-collapse: collapse; background: #fff; }
  th, td { padding: 8px 10px; border-bottom: 1px solid #e3e6eb; text-align: left; vertical-align: top; }
  th { background: #eef0f4; position: sticky; top: 0; }
  tr.fail td.status { color: #c0392b; font-weight: 600; }
  tr.ok td.status { color: #1e8449; font-weight: 600; }
  td.endpoint { max-width: 420px; word-break: break-all; }
  details pre { max-height: 320px; overflow: auto; background: #f0f2f5; padding: 8px; white-space: pre-wrap; }
</style>
</head>
<body>
<header>
  <h1>Back-office Calls</h1>
  <form id="search">
    <input id="endpoint" placeholder="Endpoint contains, e.g. /hospitals">
    <select id="outcome">
      <option value="">All</option>
      <option value="ok">2xx only</option>
      <option value="fail">Failures only</option>
    </select>
    <button type="submit">Search</button>
  </form>
</header>
<main>
  <div class="summary" id="summary">Loading...</div>
  <table>
    <thead><tr><th>#</th><th>Time</th><th>Request ID</th><th>Call</th><th>Status</th><th>ms</th><th>Bodies</th></tr></thead>
    <tbody id="rows"></tbody>
  </table>
</main>
<script>
  const esc = s => String(s ?? '').replace(/[&<>"]/g, ch => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;'}[ch]));
  const pretty = s => { try { return JSON.stringify(JSON.parse(s), null, 2); } catch { return s || '(empty)'; } };
  const ok = log => log.status_code >= 200 && log.status_code < 300;

  async function load() {
    const endpoint = document.getElementById('endpoint').value.trim();
    const url = endpoint
      ? '/api/v1/logs/search?limit=200&endpoint=' + encodeURIComponent(endpoint)
      : '/api/v1/logs?limit=100';
    const summary = document.getElementById('summary');
    try {
      const res = await (await fetch(url)).json();
      render(res.success ? (res.data || []) : [], res.success ? '' : res.message);
    } catch (err) {
      summary.textContent = 'Error: ' + err.message;
    }
  }

  function render(logs, failure) {
    const outcome = document.getElementById('outcome').value;
    const shown = logs.filter(l => !outcome || (outcome === 'ok') === ok(l));
    const failed = logs.filter(l => !ok(l)).length;
    document.getElementById('summary').textContent = failure ||
      shown.length + ' shown, ' + logs.length + ' loaded, ' + failed + ' failed';
    document.getElementById('rows').innerHTML = shown.map(l =>
      '<tr class="' + (ok(l) ? 'ok' : 'fail') + '">' +
      '<td>' + l.id + '</td>' +
      '<td>' + new Date(l.created_at).toLocaleString() + '</td>' +
      '<td>' + esc(l.request_id) + '</td>' +
      '<td class="endpoint"><strong>' + esc(l.method) + '</strong> ' + esc(l.endpoint) + (l.retried ? ' <em>(replayed)</em>' : '') + '</td>' +
      '<td class="status">' + l.status_code + '</td>' +
      '<td>' + l.duration_ms + '</td>' +
      '<td><details><summary>request</summary><pre>' + esc(pretty(l.request_body)) + '</pre></details>' +
      '<details><summary>response</summary><pre>' + esc(pretty(l.response_body)) + '</pre></details></td>' +
      '</tr>').join('');
  }

  document.getElementById('search').addEventListener('submit', e => { e.preventDefault(); load(); });
  document.getElementById('outcome').addEventListener('change', load);
  load();
</script>
</body>
</html>`

// GetLogs returns the most recent logs
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	logs, err := h.logRepo.FindAll(c.UserContext(), logLimit(c))
	if err != nil {
		h.logger.Error("Failed to load API logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(string(usecase.ClassUnknown), "Failed to load logs"),
		)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved"))
}

// SearchLogs returns logs whose endpoint contains the endpoint parameter
func (h *LogHandler) SearchLogs(c *fiber.Ctx) error {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		return badRequest(c, "endpoint parameter required")
	}

	logs, err := h.logRepo.FindByEndpoint(c.UserContext(), endpoint, logLimit(c))
	if err != nil {
		h.logger.Error("Failed to search API logs", zap.String("endpoint", endpoint), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(string(usecase.ClassUnknown), "Failed to search logs"),
		)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved"))
}
