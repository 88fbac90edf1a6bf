// Package invoice holds the invoice data model and the derived totals.
//
// An InvoiceData value is owned by exactly one editing flow and is replaced
// as a whole on every edit; the rendering side only ever reads it. All
// copy-with helpers return a fresh value with deep-copied items so that no
// two owners share a slice.
package invoice

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LineItem is a single billable row. ID is opaque and stable across edits;
// it is never reused within a session after the item is deleted.
type LineItem struct {
	ID          string
	Title       string
	Description string
	Quantity    float64
	UnitPrice   float64
}

// LineTotal is always derived, never stored.
func (li LineItem) LineTotal() float64 {
	return li.Quantity * li.UnitPrice
}

// NewLineItem returns an empty item with a fresh identifier and quantity 1.
func NewLineItem() LineItem {
	return LineItem{ID: uuid.NewString(), Quantity: 1}
}

// GeneratedContent is the transient result of the AI text service, merged
// into exactly one targeted line item.
type GeneratedContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InvoiceData is the complete state of one invoice. Date fields are free
// text displayed verbatim; the system never parses them.
type InvoiceData struct {
	InvoiceNumber   string
	Date            string
	DueDate         string
	SellerName      string
	SellerTitle     string
	SellerContact   string
	CustomerName    string
	CustomerCompany string
	CustomerContact string
	Items           []LineItem
	TaxRate         float64
	Note            string
	Theme           Theme
}

// Clone returns a deep copy. Items are the only reference-typed field.
func (d InvoiceData) Clone() InvoiceData {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	copy(out.Items, d.Items)
	return out
}

// ItemByID looks an item up by its stable identifier.
func (d InvoiceData) ItemByID(id string) (LineItem, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

// WithItemContent returns a copy in which the item identified by id carries
// the given title and description. The second return reports whether the
// item was found; when it is false the returned value equals the receiver.
func (d InvoiceData) WithItemContent(id string, content GeneratedContent) (InvoiceData, bool) {
	out := d.Clone()
	for i := range out.Items {
		if out.Items[i].ID == id {
			out.Items[i].Title = content.Title
			out.Items[i].Description = content.Description
			return out, true
		}
	}
	return out, false
}

// WithItemAppended returns a copy with the item added at the end.
func (d InvoiceData) WithItemAppended(item LineItem) InvoiceData {
	out := d.Clone()
	out.Items = append(out.Items, item)
	return out
}

// WithItemRemoved returns a copy without the identified item. Removing an
// unknown id is a no-op.
func (d InvoiceData) WithItemRemoved(id string) InvoiceData {
	out := d.Clone()
	items := out.Items[:0]
	for _, it := range out.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	out.Items = items
	return out
}

// HasNote reports whether the note panel should appear; whitespace-only
// notes count as empty.
func (d InvoiceData) HasNote() bool {
	return strings.TrimSpace(d.Note) != ""
}

// Default returns the session-start value: one example line item, a
// generated invoice number, the current date and the default theme.
func Default() InvoiceData {
	return InvoiceData{
		InvoiceNumber: generateNumber(),
		Date:          time.Now().Format("2006/01/02"),
		Items: []LineItem{
			{
				ID:          uuid.NewString(),
				Title:       "طراحی رابط کاربری (UI)",
				Description: "طراحی صفحات اصلی، درباره ما، تماس با ما و پنل کاربری با رعایت اصول UX",
				Quantity:    1,
				UnitPrice:   5000000,
			},
		},
		TaxRate: 0,
		Note:    "لطفاً مبلغ فاکتور را به شماره کارت ۱۲۳۴-۵۶۷۸-۱۲۳۴-۵۶۷۸ به نام ... واریز نمایید.",
		Theme:   DefaultTheme(),
	}
}

func generateNumber() string {
	return fmt.Sprintf("%s-%04d", time.Now().Format("0601"), 1000+rand.Intn(9000))
}
