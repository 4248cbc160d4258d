package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the single page of the app: an upload form, the live product
// table patched over SSE, and the six server-rendered charts.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@latest/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; color: #1f2937; }
h1 { font-size: 1.5rem; }
.upload { margin: 1rem 0; padding: 1rem; border: 1px dashed #9ca3af; border-radius: 8px; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.charts img { width: 100%; border: 1px solid #e5e7eb; border-radius: 8px; }
.modern-table { width: 100%; border-collapse: collapse; margin: 1rem 0; }
.modern-table th, .modern-table td { padding: 0.4rem 0.6rem; border-bottom: 1px solid #e5e7eb; text-align: left; }
#error { color: #b91c1c; }
</style>
</head>
<body data-on-load="@get('/sse/refresh-all')">
<h1>Sales Dashboard</h1>

<div class="upload">
<input type="file" id="file" accept=".csv,.xls,.xlsx"/>
<button id="upload">Upload</button>
<span id="error"></span>
</div>

<div id="products-table"></div>

<div class="charts">
<img src="/api/charts/revenue-over-time.png" alt="Revenue over time"/>
<img src="/api/charts/product-revenue.png" alt="Revenue by product"/>
<img src="/api/charts/quantity-sold.png" alt="Quantity sold by product"/>
<img src="/api/charts/average-revenue.png" alt="Average revenue per unit"/>
<img src="/api/charts/revenue-vs-quantity.png" alt="Revenue vs quantity"/>
<img src="/api/charts/monthly-growth.png" alt="Monthly growth"/>
</div>

<script>
document.getElementById('upload').addEventListener('click', async () => {
	const input = document.getElementById('file');
	const errEl = document.getElementById('error');
	errEl.textContent = '';
	if (!input.files.length) {
		errEl.textContent = 'Select a file first.';
		return;
	}
	const form = new FormData();
	form.append('file', input.files[0]);
	const resp = await fetch('/api/upload', { method: 'POST', body: form });
	if (!resp.ok) {
		const body = await resp.json().catch(() => null);
		errEl.textContent = body?.error?.message ?? 'Upload failed.';
		return;
	}
	location.reload();
});
</script>
</body>
</html>
`
