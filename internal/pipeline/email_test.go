package pipeline

import (
	"strings"
	"testing"
)

const rawPriceListEmail = `From: Precios <precios@drogueriasur.com>
To: compras@farmacia.example
Subject: Lista de precios agosto
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="frontier"

--frontier
Content-Type: text/html; charset=utf-8

<html><body>
<p>Adjuntamos la lista vigente.</p>
<table>
<tr><th>Producto</th><th>Precio USD</th><th>Laboratorio</th></tr>
<tr><td>IBUPROFENO 400MG</td><td>4.50</td><td>Genfar</td></tr>
</table>
</body></html>
--frontier
Content-Type: text/csv; name="drogaA.csv"
Content-Disposition: attachment; filename="drogaA.csv"

Producto,Precio USD,Laboratorio
AMOXICILINA 500MG,2.10,MK
--frontier--
`

func TestParseCatalogEmail(t *testing.T) {
	raw := []byte(strings.ReplaceAll(rawPriceListEmail, "\n", "\r\n"))

	parsed, err := ParseCatalogEmail(raw)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Subject != "Lista de precios agosto" {
		t.Fatalf("subject=%q", parsed.Subject)
	}
	if len(parsed.AttachmentNames) != 1 || parsed.AttachmentNames[0] != "drogaA.csv" {
		t.Fatalf("attachments=%v", parsed.AttachmentNames)
	}
	if !strings.Contains(parsed.HTML, "<table") {
		t.Fatalf("html=%q", parsed.HTML)
	}
	if len(parsed.Files) != 2 {
		t.Fatalf("files=%d", len(parsed.Files))
	}

	csvFile := parsed.Files[0]
	if csvFile.Name != "drogaA.csv" || csvFile.Supplier() != "drogaA" {
		t.Fatalf("file=%+v", csvFile)
	}
	if len(csvFile.Records) != 1 {
		t.Fatalf("records=%d", len(csvFile.Records))
	}
	if v, _ := csvFile.Records[0].Get("Producto"); v != "AMOXICILINA 500MG" {
		t.Fatalf("producto=%v", v)
	}

	// The inline table becomes a synthetic file named after the sender domain.
	htmlFile := parsed.Files[1]
	if htmlFile.Name != "drogueriasur.html" {
		t.Fatalf("name=%q", htmlFile.Name)
	}
	if len(htmlFile.Records) != 1 {
		t.Fatalf("records=%d", len(htmlFile.Records))
	}
	if v, _ := htmlFile.Records[0].Get("Precio USD"); v != "4.50" {
		t.Fatalf("precio=%v", v)
	}
}

func TestParseCatalogEmailPlainMessage(t *testing.T) {
	raw := []byte(strings.ReplaceAll(`From: alguien@example.com
Subject: consulta
Content-Type: text/plain; charset=utf-8

Hola, quisiera consultar por un pedido.
`, "\n", "\r\n"))

	parsed, err := ParseCatalogEmail(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Files) != 0 || len(parsed.AttachmentNames) != 0 {
		t.Fatalf("parsed=%+v", parsed)
	}
	if parsed.Subject != "consulta" || !strings.Contains(parsed.Text, "consultar") {
		t.Fatalf("subject=%q text=%q", parsed.Subject, parsed.Text)
	}
}

func TestHTMLCatalogName(t *testing.T) {
	cases := []struct {
		from string
		want string
	}{
		{"Precios <precios@drogueriasur.com>", "drogueriasur.html"},
		{"ventas@drogacentral.com.ve", "drogacentral.html"},
		{"", "inline.html"},
	}
	for _, tc := range cases {
		if got := htmlCatalogName(tc.from); got != tc.want {
			t.Fatalf("htmlCatalogName(%q)=%q want %q", tc.from, got, tc.want)
		}
	}
}
