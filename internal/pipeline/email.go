package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"

	"reponex/internal"
)

// ParsedEmail is one supplier message reduced to what catalog processing
// needs: the decoded catalog files it carries and the surfaces the price-list
// detector scores.
type ParsedEmail struct {
	Files           []internal.SourceFile
	Subject         string
	Text            string
	HTML            string
	AttachmentNames []string
}

// ParseCatalogEmail parses a raw RFC 5322 message and decodes the catalog
// files it carries: one per tabular attachment, plus one synthetic file for
// an inline HTML price table.
func ParseCatalogEmail(raw []byte) (ParsedEmail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return ParsedEmail{}, err
	}

	out := ParsedEmail{
		Subject:         env.GetHeader("Subject"),
		Text:            env.Text,
		HTML:            env.HTML,
		Files:           []internal.SourceFile{},
		AttachmentNames: make([]string, 0, len(env.Attachments)),
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		out.AttachmentNames = append(out.AttachmentNames, filename)

		switch strings.ToLower(filepath.Ext(filename)) {
		case ".csv", ".xls", ".xlsx", ".html", ".htm":
			records, err := DecodeRecords(filename, att.Content)
			if err != nil || len(records) == 0 {
				continue
			}
			out.Files = append(out.Files, internal.SourceFile{Name: filename, Records: records})
		}
	}

	if env.HTML != "" {
		records, err := DecodeHTMLTable([]byte(env.HTML))
		if err == nil && len(records) > 0 {
			name := htmlCatalogName(env.GetHeader("From"))
			out.Files = append(out.Files, internal.SourceFile{Name: name, Records: records})
		}
	}

	return out, nil
}

// htmlCatalogName derives a supplier identity for an inline HTML table from
// the sender address, e.g. "precios@drogueriasur.com" -> "drogueriasur".
func htmlCatalogName(from string) string {
	s := from
	if i := strings.Index(s, "<"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Trim(s, "<> ")
	if i := strings.Index(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		s = "inline"
	}
	return s + ".html"
}
