package fixture

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/shopr/internal/tracking"
)

const (
	fieldInvoice    = "invoice_number"
	fieldInvoiceKey = "invoice_key"
	fieldPhone      = "phone_number"
	fieldStatus     = "delivery_conformations"
	fieldAddress    = "user_address"
)

// Index is a bleve in-memory index over the fixture parcels.
type Index struct {
	idx      bleve.Index
	pageSize int
}

// NewIndex builds a mem-only index of parcels served pageSize rows at a time.
func NewIndex(parcels []ParcelRow, pageSize int) (*Index, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating parcel index: %w", err)
	}

	batch := idx.NewBatch()
	for _, p := range parcels {
		if err := batch.Index(p.InvoiceNumber, map[string]any{
			fieldInvoice:    p.InvoiceNumber,
			fieldInvoiceKey: strings.ToLower(p.InvoiceNumber),
			fieldPhone:      p.PhoneNumber,
			fieldStatus:     p.DeliveryStatus,
			fieldAddress:    p.Address,
		}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("indexing parcel %s: %w", p.InvoiceNumber, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("indexing parcels: %w", err)
	}

	return &Index{idx: idx, pageSize: pageSize}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = keyword.Name

	dm := bleve.NewDocumentMapping()
	dm.Dynamic = false

	invoice := bleve.NewKeywordFieldMapping()
	invoice.Store = true
	invoice.DocValues = true

	invoiceKey := bleve.NewKeywordFieldMapping()
	invoiceKey.Store = false

	phone := bleve.NewKeywordFieldMapping()
	phone.Store = true

	// Display-only fields.
	status := bleve.NewTextFieldMapping()
	status.Index = false
	status.Store = true

	address := bleve.NewTextFieldMapping()
	address.Index = false
	address.Store = true

	dm.AddFieldMappingsAt(fieldInvoice, invoice)
	dm.AddFieldMappingsAt(fieldInvoiceKey, invoiceKey)
	dm.AddFieldMappingsAt(fieldPhone, phone)
	dm.AddFieldMappingsAt(fieldStatus, status)
	dm.AddFieldMappingsAt(fieldAddress, address)

	im.DefaultMapping = dm
	return im
}

func (ix *Index) PageSize() int { return ix.pageSize }

// Count reports the number of indexed parcels.
func (ix *Index) Count() (int, error) {
	n, err := ix.idx.DocCount()
	return int(n), err
}

// Search returns 1-based page of parcels whose phone number contains query or
// whose invoice number starts with it, ordered by invoice number. A page past
// the last hit is empty.
func (ix *Index) Search(query string, page int) ([]tracking.Parcel, error) {
	query = wildcardSafe(strings.TrimSpace(query))
	if query == "" || page < 1 {
		return []tracking.Parcel{}, nil
	}

	phone := bleve.NewWildcardQuery("*" + query + "*")
	phone.SetField(fieldPhone)
	invoice := bleve.NewPrefixQuery(strings.ToLower(query))
	invoice.SetField(fieldInvoiceKey)
	q := bleve.NewDisjunctionQuery([]bleveQuery.Query{phone, invoice}...)

	req := bleve.NewSearchRequestOptions(q, ix.pageSize, (page-1)*ix.pageSize, false)
	req.SortBy([]string{fieldInvoice})
	req.Fields = []string{fieldInvoice, fieldPhone, fieldStatus, fieldAddress}

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching parcels: %w", err)
	}

	out := make([]tracking.Parcel, 0, len(res.Hits))
	for _, h := range res.Hits {
		p := tracking.Parcel{InvoiceNumber: h.ID}
		if v, ok := h.Fields[fieldPhone].(string); ok {
			p.PhoneNumber = v
		}
		if v, ok := h.Fields[fieldStatus].(string); ok {
			p.DeliveryStatus = v
		}
		if v, ok := h.Fields[fieldAddress].(string); ok {
			p.Address = v
		}
		out = append(out, p)
	}
	return out, nil
}

func (ix *Index) Close() error { return ix.idx.Close() }

// wildcardSafe strips the characters a wildcard query treats as patterns.
func wildcardSafe(s string) string {
	return strings.NewReplacer("*", "", "?", "").Replace(s)
}
