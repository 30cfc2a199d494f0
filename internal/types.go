package internal

import "strings"

// GenericRecord is one decoded row keyed by the raw header labels of its
// source file. Labels keep insertion order because field resolution walks
// keys in the order the file declared them.
type GenericRecord struct {
	Labels []string
	Values map[string]any
}

func (r *GenericRecord) Set(label string, value any) {
	if r.Values == nil {
		r.Values = map[string]any{}
	}
	if _, ok := r.Values[label]; !ok {
		r.Labels = append(r.Labels, label)
	}
	r.Values[label] = value
}

func (r *GenericRecord) Get(label string) (any, bool) {
	v, ok := r.Values[label]
	return v, ok
}

type RecordSource string

const (
	SourceCSV       RecordSource = "csv"
	SourceXLSX      RecordSource = "xlsx"
	SourceHTMLTable RecordSource = "html_table"
	SourcePDF       RecordSource = "pdf"
)

// SalesRecord is a sales/stock report row reduced to the two fields the
// restock computation needs. Stock falls back to 0 when the source row had
// no resolvable numeric stock value.
type SalesRecord struct {
	Product string
	Stock   float64
	Raw     *GenericRecord
}

// CatalogEntry is one product line from one supplier price list. PriceUSD is
// nil when the price column was absent or unparseable; such entries stay in
// the index but can never win a best-price scan.
type CatalogEntry struct {
	Product  string
	PriceUSD *float64
	Supplier string
}

// RestockRecord is one line of the generated restock list. QuantityToReplace
// equals the current stock, not the gap up to the threshold: the source
// system reorders the below-threshold quantity itself.
type RestockRecord struct {
	Product           string
	QuantityToReplace float64
	Price             *float64
	Supplier          string
}

// ProductRow is a product line recovered from PDF report text. The seven
// numeric fields are, in report order: cost, net sale, total sale, profit,
// profit percent, and stock in the last slot.
type ProductRow struct {
	Code         string
	QuantitySold float64
	Description  string
	Numbers      [7]float64
	Stock        float64
}

// SourceFile pairs a catalog file's decoded records with the identity of the
// file they came from. Supplier identity is the base name without extension.
type SourceFile struct {
	Name    string
	Records []*GenericRecord
}

func (f SourceFile) Supplier() string {
	name := f.Name
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	Supplier   string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
